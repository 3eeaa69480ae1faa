package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/locketmemories/locket/internal/model"
)

var _ ImageRepository = (*sqlImageRepository)(nil)

type sqlImageRepository struct {
	db *sqlx.DB
}

func NewSQLImageRepository(db *sqlx.DB) *sqlImageRepository {
	return &sqlImageRepository{db: db}
}

func (r *sqlImageRepository) List(ctx context.Context) ([]*model.Image, error) {
	images := []*model.Image{}
	query := `SELECT id, filename, url, caption, uploaded_at, storage, remote_id FROM images ORDER BY uploaded_at DESC`

	err := r.db.SelectContext(ctx, &images, query)
	if err != nil {
		return nil, err
	}

	for _, img := range images {
		img.UploadedAt = img.UploadedAt.UTC()
	}
	return images, nil
}

func (r *sqlImageRepository) ByID(ctx context.Context, id string) (*model.Image, error) {
	img := &model.Image{}
	query := `SELECT id, filename, url, caption, uploaded_at, storage, remote_id FROM images WHERE id = $1`

	err := r.db.GetContext(ctx, img, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	img.UploadedAt = img.UploadedAt.UTC()
	return img, nil
}

func (r *sqlImageRepository) Insert(ctx context.Context, img *model.Image) error {
	_, err := r.ByID(ctx, img.ID)
	if err == nil {
		return ErrDuplicateImage
	}
	if !errors.Is(err, ErrImageNotFound) {
		return err
	}

	query := `INSERT INTO images (id, filename, url, caption, uploaded_at, storage, remote_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		img.ID,
		img.Filename,
		img.URL,
		img.Caption,
		img.UploadedAt.UTC(),
		img.Storage,
		img.RemoteID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return nil
}

func (r *sqlImageRepository) Remove(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrImageNotFound
	}
	return nil
}
