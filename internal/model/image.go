package model

import (
	"errors"
	"fmt"
	"time"
)

// Storage tags. A record's tag decides which backend its bytes are deleted from.
const (
	StorageLocal  = "local"
	StorageRemote = "remote"
)

var ErrInvalidImage = errors.New("invalid image record")

type Image struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	URL        string    `json:"url" db:"url"`
	Caption    string    `json:"caption" db:"caption"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
	Storage    string    `json:"storage" db:"storage"`
	RemoteID   string    `json:"remote_id,omitempty" db:"remote_id"` // Object key, remote storage only
}

// NewImage builds a record and checks its invariants. uploadedAt is stored in UTC.
func NewImage(id, filename, url, caption string, uploadedAt time.Time, storage, remoteID string) (*Image, error) {
	img := &Image{
		ID:         id,
		Filename:   filename,
		URL:        url,
		Caption:    caption,
		UploadedAt: uploadedAt.UTC(),
		Storage:    storage,
		RemoteID:   remoteID,
	}

	err := img.Validate()
	if err != nil {
		return nil, err
	}

	return img, nil
}

func (i *Image) Validate() error {
	switch {
	case i.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidImage)
	case i.Filename == "":
		return fmt.Errorf("%w: filename is required", ErrInvalidImage)
	case i.URL == "":
		return fmt.Errorf("%w: url is required", ErrInvalidImage)
	case i.UploadedAt.IsZero():
		return fmt.Errorf("%w: uploaded_at is required", ErrInvalidImage)
	}

	switch i.Storage {
	case StorageLocal:
		if i.RemoteID != "" {
			return fmt.Errorf("%w: remote_id set on local image", ErrInvalidImage)
		}
	case StorageRemote:
		if i.RemoteID == "" {
			return fmt.Errorf("%w: remote_id is required for remote images", ErrInvalidImage)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidImage, i.Storage)
	}

	return nil
}

func (i *Image) IsRemote() bool {
	return i.Storage == StorageRemote
}
