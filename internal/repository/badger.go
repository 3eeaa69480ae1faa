package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/locketmemories/locket/internal/model"
)

var _ ImageRepository = (*badgerImageRepository)(nil)

var badgerPrefix = []byte("image:")

// badgerImageRepository stores one JSON encoded record per key in an embedded
// badger database.
type badgerImageRepository struct {
	db *badger.DB
}

func NewBadgerImageRepository(dir string) (*badgerImageRepository, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable badger logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &badgerImageRepository{db: db}, nil
}

func badgerKey(id string) []byte {
	return append(append([]byte{}, badgerPrefix...), id...)
}

func (r *badgerImageRepository) List(_ context.Context) ([]*model.Image, error) {
	images := []*model.Image{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(badgerPrefix); it.ValidForPrefix(badgerPrefix); it.Next() {
			img := &model.Image{}
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, img)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			images = append(images, img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(images)
	return images, nil
}

func (r *badgerImageRepository) ByID(_ context.Context, id string) (*model.Image, error) {
	img := &model.Image{}
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, img)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (r *badgerImageRepository) Insert(_ context.Context, img *model.Image) error {
	data, err := json.Marshal(img)
	if err != nil {
		return fmt.Errorf("failed to marshal image: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		key := badgerKey(img.ID)
		_, err := txn.Get(key)
		if err == nil {
			return ErrDuplicateImage
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
}

func (r *badgerImageRepository) Remove(_ context.Context, id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := badgerKey(id)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrImageNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// Close closes the database
func (r *badgerImageRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
