package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/locketmemories/locket/internal/repository"
	"github.com/locketmemories/locket/internal/service"
	"github.com/locketmemories/locket/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no file", validation.ErrNoFile, http.StatusBadRequest, CodeInvalidUpload},
		{"empty filename", validation.ErrEmptyFilename, http.StatusBadRequest, CodeInvalidUpload},
		{"extension", fmt.Errorf("%w: .txt", validation.ErrExtensionNotAllowed), http.StatusBadRequest, CodeInvalidUpload},
		{"file too large", validation.ErrFileTooLarge, http.StatusRequestEntityTooLarge, CodeBodyTooLarge},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, CodeBodyTooLarge},
		{"not found", repository.ErrImageNotFound, http.StatusNotFound, CodeNotFound},
		{"backend", &service.BackendError{Backend: "s3", Op: "delete", Err: errors.New("denied")}, http.StatusInternalServerError, CodeBackendFailed},
		{"other", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("open /secret/path: permission denied"))

	assert.NotContains(t, rec.Body.String(), "/secret/path")
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowed(http.MethodGet, http.MethodHead)(rec, httptest.NewRequest(http.MethodPost, "/images", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	assert.JSONEq(t, `{"error": "Method not allowed", "code": "request/method_not_allowed"}`, rec.Body.String())
}
