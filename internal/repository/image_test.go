package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/locketmemories/locket/internal/db"
	"github.com/locketmemories/locket/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImage(t *testing.T, id string, at time.Time) *model.Image {
	t.Helper()
	img, err := model.NewImage(id, id+".png", "/uploads/"+id+".png", "caption "+id, at, model.StorageLocal, "")
	require.NoError(t, err)
	return img
}

func newRemoteImage(t *testing.T, id string, at time.Time) *model.Image {
	t.Helper()
	img, err := model.NewImage(id, id+".jpg", "https://cdn/"+id, "remote "+id, at, model.StorageRemote, model.RemoteKey("locket_memories", id))
	require.NoError(t, err)
	return img
}

type repoFactory func(t *testing.T) ImageRepository

func repositories() map[string]repoFactory {
	return map[string]repoFactory{
		"json": func(t *testing.T) ImageRepository {
			repo, err := NewJSONImageRepository(filepath.Join(t.TempDir(), "images_metadata.json"))
			require.NoError(t, err)
			return repo
		},
		"sqlite": func(t *testing.T) ImageRepository {
			database, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "locket.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close() })
			return NewSQLImageRepository(database)
		},
		"badger": func(t *testing.T) ImageRepository {
			repo, err := NewBadgerImageRepository(filepath.Join(t.TempDir(), "badger"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	}
}

func TestImageRepositoryContract(t *testing.T) {
	base := time.Date(2025, 2, 14, 8, 0, 0, 0, time.UTC)

	for name, factory := range repositories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := factory(t)

			images, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, images)

			for i := 0; i < 3; i++ {
				err := repo.Insert(ctx, newImage(t, fmt.Sprintf("img%d", i), base.Add(time.Duration(i)*time.Minute)))
				require.NoError(t, err)
			}
			remote := newRemoteImage(t, "img3", base.Add(3*time.Minute))
			require.NoError(t, repo.Insert(ctx, remote))

			err = repo.Insert(ctx, newImage(t, "img1", base))
			assert.ErrorIs(t, err, ErrDuplicateImage)

			images, err = repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, images, 4)
			assert.Equal(t, []string{"img3", "img2", "img1", "img0"}, ids(images))

			got, err := repo.ByID(ctx, "img3")
			require.NoError(t, err)
			assert.Equal(t, remote.RemoteID, got.RemoteID)
			assert.Equal(t, model.StorageRemote, got.Storage)
			assert.True(t, remote.UploadedAt.Equal(got.UploadedAt))
			assert.Equal(t, remote.Caption, got.Caption)

			_, err = repo.ByID(ctx, "missing")
			assert.ErrorIs(t, err, ErrImageNotFound)

			require.NoError(t, repo.Remove(ctx, "img1"))
			assert.ErrorIs(t, repo.Remove(ctx, "img1"), ErrImageNotFound)

			images, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"img3", "img2", "img0"}, ids(images))
		})
	}
}

func TestJSONRepositoryFileLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "images_metadata.json")

	repo, err := NewJSONImageRepository(path)
	require.NoError(t, err)

	img := newImage(t, "a", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	img.Caption = "Kỷ niệm <3"
	require.NoError(t, repo.Insert(ctx, img))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"images": [`)
	assert.Contains(t, string(data), `"caption": "Kỷ niệm <3"`)
	assert.Contains(t, string(data), `"uploaded_at": "2025-01-01T00:00:00Z"`)

	// A second repository over the same file sees the record
	other, err := NewJSONImageRepository(path)
	require.NoError(t, err)
	got, err := other.ByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, img.Caption, got.Caption)
}

func TestJSONRepositoryCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "images_metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	repo, err := NewJSONImageRepository(path)
	require.NoError(t, err)

	_, err = repo.List(ctx)
	assert.Error(t, err)

	err = repo.Insert(ctx, newImage(t, "a", time.Now()))
	assert.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data), "corrupt index must not be overwritten")
}

func TestJSONRepositoryEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images_metadata.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	repo, err := NewJSONImageRepository(path)
	require.NoError(t, err)

	images, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, images)
}

func ids(images []*model.Image) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.ID
	}
	return out
}
