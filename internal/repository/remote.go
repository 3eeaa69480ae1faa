package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/locketmemories/locket/internal/model"
	"github.com/locketmemories/locket/internal/storage"
)

var _ ImageRepository = (*remoteImageRepository)(nil)

// remoteImageRepository sources remote records from the media store itself:
// every object under prefix carries its record as object metadata. Records of
// uploads that fell back to local storage have no object to live on and are
// kept in the local repository.
type remoteImageRepository struct {
	store  storage.Lister
	prefix string
	local  ImageRepository
}

func NewRemoteImageRepository(store storage.Lister, prefix string, local ImageRepository) *remoteImageRepository {
	return &remoteImageRepository{
		store:  store,
		prefix: prefix,
		local:  local,
	}
}

func (r *remoteImageRepository) List(ctx context.Context) ([]*model.Image, error) {
	objects, err := r.store.List(ctx, r.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote images: %w", err)
	}

	images := make([]*model.Image, 0, len(objects))
	for _, obj := range objects {
		img, err := model.ImageFromMetadata(obj.Key, obj.URL, obj.Metadata, obj.LastModified)
		if err != nil {
			slog.Warn("skipping remote object", "key", obj.Key, "error", err)
			continue
		}
		images = append(images, img)
	}

	localImages, err := r.local.List(ctx)
	if err != nil {
		return nil, err
	}
	images = append(images, localImages...)

	sortNewestFirst(images)
	return images, nil
}

// ByID checks the local fallback records first, then the object the id maps to.
func (r *remoteImageRepository) ByID(ctx context.Context, id string) (*model.Image, error) {
	img, err := r.local.ByID(ctx, id)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, ErrImageNotFound) {
		return nil, err
	}

	obj, err := r.store.Stat(ctx, model.RemoteKey(r.prefix, id))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	return model.ImageFromMetadata(obj.Key, obj.URL, obj.Metadata, obj.LastModified)
}

// Insert records local images only; a remote image's metadata was written
// together with its bytes.
func (r *remoteImageRepository) Insert(ctx context.Context, img *model.Image) error {
	if img.IsRemote() {
		return nil
	}
	return r.local.Insert(ctx, img)
}

// Remove forgets local records. Remote records disappear with their object.
func (r *remoteImageRepository) Remove(ctx context.Context, id string) error {
	err := r.local.Remove(ctx, id)
	if errors.Is(err, ErrImageNotFound) {
		return nil
	}
	return err
}
