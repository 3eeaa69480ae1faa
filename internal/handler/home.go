package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
)

type HomeHandler struct {
	pages fs.FS
}

func NewHomeHandler(pages fs.FS) *HomeHandler {
	return &HomeHandler{pages: pages}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "index.html")
}

func (h *HomeHandler) GalleryPage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "gallery.html")
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found", CodeNotFound)
}

func (h *HomeHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	data, err := fs.ReadFile(h.pages, name)
	if err != nil {
		slog.Error("failed to read page", "error", err, "page", name)
		writeError(w, http.StatusInternalServerError, "Server error", CodeInternal)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(data)
	if err != nil {
		slog.Warn("failed to write page", "error", err, "page", name)
	}
}
