package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/locketmemories/locket/internal/model"
	"github.com/locketmemories/locket/internal/repository"
	"github.com/locketmemories/locket/internal/storage"
	"github.com/locketmemories/locket/internal/validation"
)

// Options configures how ImageService places uploads.
type Options struct {
	Prefix      string        // reserved namespace on the remote store
	MaxAttempts int           // remote save attempts before falling back
	RetryDelay  time.Duration // delay between remote attempts
	RefreshURLs bool          // refresh remote URLs from the store listing on List
}

type ImageService struct {
	repo   repository.ImageRepository
	local  storage.Storage
	remote storage.Storage // nil when no remote store is configured
	opts   Options
	now    func() time.Time
}

func NewImageService(repo repository.ImageRepository, local storage.Storage, remote storage.Storage, opts Options) *ImageService {
	return &ImageService{
		repo:   repo,
		local:  local,
		remote: remote,
		opts:   opts,
		now:    time.Now,
	}
}

// UploadInput is a validated upload.
type UploadInput struct {
	Filename string
	Caption  string
	Body     io.ReadSeeker
}

type pendingUpload struct {
	id          string
	filename    string
	caption     string
	uploadedAt  time.Time
	contentType string
	body        io.ReadSeeker
}

// Upload stores the bytes and records the image. The remote store is tried
// first; when every attempt fails the bytes go to local storage instead.
// Note: File validation should be done by the caller before calling Upload.
func (s *ImageService) Upload(ctx context.Context, in UploadInput) (*model.Image, error) {
	id := uuid.New().String()
	uploadedAt := s.now().UTC()
	original := validation.SecureFilename(in.Filename)
	up := pendingUpload{
		id:          id,
		filename:    fmt.Sprintf("%s_%s_%s", uploadedAt.Format("20060102_150405"), id[:8], original),
		caption:     validation.NormalizeCaption(in.Caption),
		uploadedAt:  uploadedAt,
		contentType: validation.ContentType(original),
		body:        in.Body,
	}

	img, err := s.attemptRemote(ctx, up).orElse(func() (*model.Image, error) {
		return s.saveLocal(ctx, up)
	})
	if err != nil {
		return nil, err
	}

	err = s.repo.Insert(ctx, img)
	if err != nil {
		// If the index write fails, remove the bytes so no orphan is left
		delErr := s.storeFor(img).Delete(context.WithoutCancel(ctx), s.keyFor(img))
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "id", img.ID)
		}
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	slog.Info("image uploaded", "id", img.ID, "storage", img.Storage, "filename", img.Filename)
	return img, nil
}

func (s *ImageService) attemptRemote(ctx context.Context, up pendingUpload) placement {
	if s.remote == nil {
		return placement{err: errRemoteNotConfigured}
	}

	key := model.RemoteKey(s.opts.Prefix, up.id)
	meta := (&model.Image{
		ID:         up.id,
		Filename:   up.filename,
		Caption:    up.caption,
		UploadedAt: up.uploadedAt,
	}).Metadata()

	return attempt(ctx, s.remote, s.opts.MaxAttempts, s.opts.RetryDelay, key, up.body,
		storage.SaveOptions{ContentType: up.contentType, Metadata: meta},
		func() (*model.Image, error) {
			return model.NewImage(up.id, up.filename, s.remote.URL(key), up.caption, up.uploadedAt, model.StorageRemote, key)
		})
}

func (s *ImageService) saveLocal(ctx context.Context, up pendingUpload) (*model.Image, error) {
	_, err := up.body.Seek(0, io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	err = s.local.Save(ctx, up.filename, up.body, storage.SaveOptions{ContentType: up.contentType})
	if err != nil {
		return nil, &BackendError{Backend: s.local.Name(), Op: "save", Err: err}
	}

	return model.NewImage(up.id, up.filename, s.local.URL(up.filename), up.caption, up.uploadedAt, model.StorageLocal, "")
}

// List returns every image, newest first. Remote URLs are refreshed from the
// store listing when enabled; refresh failures are logged and ignored.
func (s *ImageService) List(ctx context.Context) ([]*model.Image, error) {
	images, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	if s.opts.RefreshURLs {
		s.refreshRemoteURLs(ctx, images)
	}

	return images, nil
}

func (s *ImageService) refreshRemoteURLs(ctx context.Context, images []*model.Image) {
	lister, ok := s.remote.(storage.Lister)
	if !ok {
		return
	}

	hasRemote := false
	for _, img := range images {
		if img.IsRemote() {
			hasRemote = true
			break
		}
	}
	if !hasRemote {
		return
	}

	objects, err := lister.List(ctx, s.opts.Prefix)
	if err != nil {
		slog.Warn("remote url refresh failed", "error", err)
		return
	}

	urls := make(map[string]string, len(objects))
	for _, obj := range objects {
		urls[obj.Key] = obj.URL
	}
	for _, img := range images {
		if !img.IsRemote() {
			continue
		}
		if url, ok := urls[img.RemoteID]; ok && url != "" {
			img.URL = url
		}
	}
}

// Get returns a single image.
func (s *ImageService) Get(ctx context.Context, id string) (*model.Image, error) {
	return s.repo.ByID(ctx, id)
}

// Delete removes the image bytes from the backend named by the record's
// storage tag, then the record itself.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	img, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}

	store := s.storeFor(img)
	if store == nil {
		return &BackendError{Backend: img.Storage, Op: "delete", Err: errRemoteNotConfigured}
	}

	err = store.Delete(ctx, s.keyFor(img))
	if err != nil {
		return &BackendError{Backend: store.Name(), Op: "delete", Err: err}
	}

	err = s.repo.Remove(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrImageNotFound) {
		return fmt.Errorf("failed to remove image record: %w", err)
	}

	slog.Info("image deleted", "id", id, "storage", img.Storage)
	return nil
}

// Reindex adds index records for remote objects the index does not know
// about, rebuilding them from object metadata. Returns the number added.
func (s *ImageService) Reindex(ctx context.Context) (int, error) {
	lister, ok := s.remote.(storage.Lister)
	if !ok {
		return 0, errRemoteNotConfigured
	}

	objects, err := lister.List(ctx, s.opts.Prefix)
	if err != nil {
		return 0, &BackendError{Backend: s.remote.Name(), Op: "list", Err: err}
	}

	added := 0
	for _, obj := range objects {
		img, err := model.ImageFromMetadata(obj.Key, obj.URL, obj.Metadata, obj.LastModified)
		if err != nil {
			slog.Warn("skipping remote object", "key", obj.Key, "error", err)
			continue
		}

		_, err = s.repo.ByID(ctx, img.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrImageNotFound) {
			return added, err
		}

		err = s.repo.Insert(ctx, img)
		if err != nil {
			return added, fmt.Errorf("failed to record image %s: %w", img.ID, err)
		}
		added++
	}

	return added, nil
}

func (s *ImageService) storeFor(img *model.Image) storage.Storage {
	if img.IsRemote() {
		return s.remote
	}
	return s.local
}

func (s *ImageService) keyFor(img *model.Image) string {
	if img.IsRemote() {
		return img.RemoteID
	}
	return img.Filename
}
