package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/locketmemories/locket/internal/config"
	"github.com/locketmemories/locket/internal/db"
	"github.com/locketmemories/locket/internal/repository"
	"github.com/locketmemories/locket/internal/service"
	"github.com/locketmemories/locket/internal/storage"
)

type App struct {
	Cfg          *config.Config
	LocalStorage *storage.LocalStorage
	ImageService *service.ImageService

	closers []func() error
}

// New builds the process-wide dependency graph. Backend selection happens
// here once; everything downstream only sees the chosen implementations.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	// Storage
	localStorage, err := storage.NewLocalStorage(cfg.UploadDir, cfg.UploadURLPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}
	a.LocalStorage = localStorage

	var remote storage.Storage
	var s3Storage *storage.S3Storage
	if cfg.RemoteEnabled() {
		s3Storage, err = storage.NewS3Storage(ctx, storage.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Endpoint:      cfg.S3Endpoint,
			PresignExpiry: cfg.S3PresignExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize remote storage: %w", err)
		}
		remote = s3Storage
		slog.Info("remote media store enabled", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	}

	// Repository
	repo, err := a.newRepository(ctx, s3Storage)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	// Services
	a.ImageService = service.NewImageService(repo, localStorage, remote, service.Options{
		Prefix:      cfg.S3Prefix,
		MaxAttempts: cfg.UploadMaxAttempts,
		RetryDelay:  cfg.UploadRetryDelay,
		// remote-only listings already carry fresh URLs
		RefreshURLs: remote != nil && cfg.IndexDriver != config.IndexRemote,
	})

	return a, nil
}

func (a *App) newRepository(ctx context.Context, s3Storage *storage.S3Storage) (repository.ImageRepository, error) {
	cfg := a.Cfg

	switch cfg.IndexDriver {
	case config.IndexJSON:
		repo, err := repository.NewJSONImageRepository(cfg.IndexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize json index: %w", err)
		}
		return repo, nil

	case config.IndexSQLite, config.IndexPgx:
		database, err := db.Open(ctx, cfg.IndexDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		return repository.NewSQLImageRepository(database), nil

	case config.IndexBadger:
		repo, err := repository.NewBadgerImageRepository(cfg.IndexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize badger index: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil

	case config.IndexRemote:
		if s3Storage == nil {
			return nil, errors.New("remote index requires a remote media store")
		}
		// Local fallback uploads are still tracked in a JSON sidecar
		fallback, err := repository.NewJSONImageRepository(cfg.IndexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize fallback index: %w", err)
		}
		return repository.NewRemoteImageRepository(s3Storage, cfg.S3Prefix, fallback), nil

	default:
		return nil, fmt.Errorf("unknown index driver %q", cfg.IndexDriver)
	}
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err := a.closers[i]()
		if err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
