package routes

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/locketmemories/locket"
	"github.com/locketmemories/locket/internal/app"
	"github.com/locketmemories/locket/internal/handler"
	"github.com/locketmemories/locket/internal/middleware"
)

// SetupRoutes wires the HTTP surface. ctx bounds background work started
// here, such as the rate limiter cleanup.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	pages, err := fs.Sub(locket.PagesFS, "web")
	if err != nil {
		panic(fmt.Sprintf("failed to open embedded pages: %v", err))
	}

	// Handlers
	home := handler.NewHomeHandler(pages)
	images := handler.NewImageHandler(app.ImageService)

	uploadLimiter := middleware.RateLimitUploads(
		middleware.NewRateLimiter(ctx, app.Cfg.UploadRateLimit, app.Cfg.UploadRateBurst, app.Cfg.TrustedProxies),
	)

	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /gallery", home.GalleryPage)
	mux.HandleFunc("GET /gallery.html", home.GalleryPage)

	// Uploaded files
	prefix := app.Cfg.UploadURLPrefix + "/"
	mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(app.LocalStorage.Root()))))

	// API
	mux.HandleFunc("POST /upload", uploadLimiter(images.Upload))
	mux.HandleFunc("GET /images", images.List)
	mux.HandleFunc("DELETE /delete/{id}", images.Delete)

	// Known API paths, wrong method
	mux.HandleFunc("/upload", handler.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc("/images", handler.MethodNotAllowed(http.MethodGet, http.MethodHead))
	mux.HandleFunc("/delete/{id}", handler.MethodNotAllowed(http.MethodDelete))

	// 404
	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Recover,
	)

	return handler
}
