package service

import (
	"errors"
	"fmt"
)

// ErrBackend marks failures of a storage backend that were not recovered
// from: remote deletes, local filesystem errors, fallback writes.
var ErrBackend = errors.New("storage backend failure")

var errRemoteNotConfigured = errors.New("remote store not configured")

type BackendError struct {
	Backend string // "local", "s3", ...
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}
