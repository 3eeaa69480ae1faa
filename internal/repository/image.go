package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/locketmemories/locket/internal/model"
)

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrDuplicateImage = errors.New("image already exists")
)

// ImageRepository is the metadata index of uploaded images.
type ImageRepository interface {
	// List returns every record, newest first
	List(ctx context.Context) ([]*model.Image, error)

	// ByID returns the record or ErrImageNotFound
	ByID(ctx context.Context, id string) (*model.Image, error)

	// Insert adds a record; ErrDuplicateImage if the id is taken
	Insert(ctx context.Context, img *model.Image) error

	// Remove deletes a record; ErrImageNotFound if it does not exist
	Remove(ctx context.Context, id string) error
}

func sortNewestFirst(images []*model.Image) {
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].UploadedAt.After(images[j].UploadedAt)
	})
}
