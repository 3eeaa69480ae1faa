package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/locketmemories/locket/internal/model"
)

var _ ImageRepository = (*jsonImageRepository)(nil)

// indexDocument is the on-disk layout: {"images": [...]}, newest first.
type indexDocument struct {
	Images []*model.Image `json:"images"`
}

// jsonImageRepository keeps the index in a single JSON file that is read and
// fully rewritten on every mutation. The mutex only serialises writers inside
// this process.
type jsonImageRepository struct {
	path string
	mu   sync.Mutex
}

func NewJSONImageRepository(path string) (*jsonImageRepository, error) {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	return &jsonImageRepository{path: path}, nil
}

func (r *jsonImageRepository) List(_ context.Context) ([]*model.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.Images, nil
}

func (r *jsonImageRepository) ByID(_ context.Context, id string) (*model.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, img := range doc.Images {
		if img.ID == id {
			return img, nil
		}
	}
	return nil, ErrImageNotFound
}

func (r *jsonImageRepository) Insert(_ context.Context, img *model.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	for _, existing := range doc.Images {
		if existing.ID == img.ID {
			return ErrDuplicateImage
		}
	}

	doc.Images = append([]*model.Image{img}, doc.Images...)
	return r.save(doc)
}

func (r *jsonImageRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	kept := make([]*model.Image, 0, len(doc.Images))
	for _, img := range doc.Images {
		if img.ID != id {
			kept = append(kept, img)
		}
	}
	if len(kept) == len(doc.Images) {
		return ErrImageNotFound
	}

	doc.Images = kept
	return r.save(doc)
}

// load returns an empty document when the file does not exist yet. A file
// that fails to parse is an error rather than an empty index, so the next
// write cannot silently wipe it.
func (r *jsonImageRepository) load() (*indexDocument, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &indexDocument{Images: []*model.Image{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	doc := &indexDocument{}
	if len(bytes.TrimSpace(data)) > 0 {
		err = json.Unmarshal(data, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse index %s: %w", r.path, err)
		}
	}
	if doc.Images == nil {
		doc.Images = []*model.Image{}
	}

	return doc, nil
}

func (r *jsonImageRepository) save(doc *indexDocument) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".index-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	_, err = tmp.Write(buf.Bytes())
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write index: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}

	err = os.Rename(tmpName, r.path)
	if err != nil {
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}
