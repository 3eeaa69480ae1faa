package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/locketmemories/locket/internal/model"
	"github.com/locketmemories/locket/internal/storage"
	"github.com/sethvargo/go-retry"
)

// placement is the outcome of trying to store an upload on one backend.
type placement struct {
	img *model.Image
	err error
}

// attempt saves body to store up to maxAttempts times with a constant delay
// between attempts. The body is rewound before every attempt. build turns the
// stored key into the record once the bytes are in place.
func attempt(ctx context.Context, store storage.Storage, maxAttempts int, delay time.Duration,
	key string, body io.ReadSeeker, opts storage.SaveOptions, build func() (*model.Image, error)) placement {
	if store == nil {
		return placement{err: errRemoteNotConfigured}
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if delay <= 0 {
		delay = time.Millisecond
	}

	backoff := retry.WithMaxRetries(uint64(maxAttempts-1), retry.NewConstant(delay))

	n := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		n++
		_, err := body.Seek(0, io.SeekStart)
		if err != nil {
			return fmt.Errorf("failed to rewind upload: %w", err)
		}

		err = store.Save(ctx, key, body, opts)
		if err != nil {
			slog.Warn("upload attempt failed",
				"store", store.Name(),
				"key", key,
				"attempt", n,
				"max_attempts", maxAttempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return placement{err: &BackendError{Backend: store.Name(), Op: "save", Err: err}}
	}

	img, err := build()
	return placement{img: img, err: err}
}

// orElse returns the placed record, or runs fallback when placement failed.
func (p placement) orElse(fallback func() (*model.Image, error)) (*model.Image, error) {
	if p.err == nil {
		return p.img, nil
	}
	if p.err != errRemoteNotConfigured {
		slog.Warn("remote upload failed, falling back to local storage", "error", p.err)
	}
	return fallback()
}
