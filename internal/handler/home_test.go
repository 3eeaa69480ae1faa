package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestHomeHandler(t *testing.T) {
	pages := fstest.MapFS{
		"index.html":   {Data: []byte("<h1>upload</h1>")},
		"gallery.html": {Data: []byte("<h1>gallery</h1>")},
	}
	h := NewHomeHandler(pages)

	rec := httptest.NewRecorder()
	h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>upload</h1>", rec.Body.String())

	rec = httptest.NewRecorder()
	h.GalleryPage(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	assert.Equal(t, "<h1>gallery</h1>", rec.Body.String())

	rec = httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "Not found", "code": "request/not_found"}`, rec.Body.String())
}

func TestHomeHandlerMissingPage(t *testing.T) {
	h := NewHomeHandler(fstest.MapFS{})

	rec := httptest.NewRecorder()
	h.GalleryPage(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
