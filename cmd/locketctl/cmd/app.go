package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/locketmemories/locket/internal/app"
	"github.com/locketmemories/locket/internal/config"
	"github.com/locketmemories/locket/internal/logger"
)

// withApp builds the same dependency graph as the server and runs fn with it.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout is reserved for command output
	logger.Init(os.Stderr, false, "warn", cfg.SentryDSN)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := a.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	return fn(a)
}
