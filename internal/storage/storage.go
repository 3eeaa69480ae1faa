package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid storage key")
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores the bytes read from body under key
	Save(ctx context.Context, key string, body io.Reader, opts SaveOptions) error

	// Delete removes the object at key
	Delete(ctx context.Context, key string) error

	// URL returns an address clients can fetch the object from
	URL(key string) string

	// Name identifies the backend in logs ("local", "s3")
	Name() string
}

// Lister is implemented by backends that can enumerate objects together with
// the metadata stored alongside them.
type Lister interface {
	// List returns all objects under prefix, metadata included
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Stat returns a single object's info or ErrObjectNotFound
	Stat(ctx context.Context, key string) (*ObjectInfo, error)
}

// SaveOptions carries optional object attributes.
type SaveOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
	Metadata     map[string]string
	URL          string
}
