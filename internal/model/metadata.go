package model

import (
	"path"
	"strings"
	"time"
)

// Object metadata keys written next to remote bytes. They allow a record to be
// rebuilt from the remote store alone.
const (
	MetaID         = "image-id"
	MetaFilename   = "filename"
	MetaCaption    = "caption"
	MetaUploadedAt = "uploaded-at"
)

// RemoteKey is the object key of image id under the reserved prefix.
func RemoteKey(prefix, id string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return id
	}
	return prefix + "/" + id
}

// Metadata returns the object metadata describing img.
func (i *Image) Metadata() map[string]string {
	return map[string]string{
		MetaID:         i.ID,
		MetaFilename:   i.Filename,
		MetaCaption:    i.Caption,
		MetaUploadedAt: i.UploadedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ImageFromMetadata rebuilds a remote record from an object's key, URL and
// metadata. Missing fields fall back to the key and lastModified.
func ImageFromMetadata(key, url string, meta map[string]string, lastModified time.Time) (*Image, error) {
	id := meta[MetaID]
	if id == "" {
		id = path.Base(key)
	}

	filename := meta[MetaFilename]
	if filename == "" {
		filename = path.Base(key)
	}

	uploadedAt := lastModified
	if raw := meta[MetaUploadedAt]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err == nil {
			uploadedAt = t
		}
	}

	return NewImage(id, filename, url, meta[MetaCaption], uploadedAt, StorageRemote, key)
}
