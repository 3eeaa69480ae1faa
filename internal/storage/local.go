package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var _ Storage = (*LocalStorage)(nil)

// LocalStorage keeps objects as plain files in a single directory.
// Keys are file names; anything containing a path separator is rejected.
type LocalStorage struct {
	root      string
	urlPrefix string
}

func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStorage{
		root:      root,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Root returns the directory files are written to.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Name() string {
	return "local"
}

func (s *LocalStorage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, key), nil
}

// Save writes body to a temp file and renames it into place, so a failed
// write never leaves a partial file under key.
func (s *LocalStorage) Save(ctx context.Context, key string, body io.Reader, _ SaveOptions) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	_, err = io.Copy(tmp, body)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	err = os.Chmod(tmpName, 0644)
	if err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// Delete removes the file at key. A missing file is not an error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.urlPrefix + "/" + key
}
