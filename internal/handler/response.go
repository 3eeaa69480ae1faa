package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/locketmemories/locket/internal/ctxkeys"
	"github.com/locketmemories/locket/internal/repository"
	"github.com/locketmemories/locket/internal/service"
	"github.com/locketmemories/locket/internal/validation"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeInvalidUpload = "request/invalid_upload"
	CodeBodyTooLarge  = "request/body_too_large"
	CodeNotFound      = "request/not_found"
	CodeMethod        = "request/method_not_allowed"
	CodeRateLimited   = "request/rate_limited"
	CodeBackendFailed = "upstream/backend_failed"
	CodeInternal      = "server/internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// MethodNotAllowed answers requests to a known path with the wrong method.
func MethodNotAllowed(allow ...string) http.HandlerFunc {
	header := strings.Join(allow, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", header)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeMethod)
	}
}

// writeServiceError maps err onto a status and error code. Server-side
// failures are logged; their details are not sent to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesErr), errors.Is(err, validation.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "File too large", CodeBodyTooLarge)
	case errors.Is(err, validation.ErrNoFile),
		errors.Is(err, validation.ErrEmptyFilename),
		errors.Is(err, validation.ErrExtensionNotAllowed):
		writeError(w, http.StatusBadRequest, err.Error(), CodeInvalidUpload)
	case errors.Is(err, repository.ErrImageNotFound):
		writeError(w, http.StatusNotFound, "Image not found", CodeNotFound)
	case errors.Is(err, service.ErrBackend):
		slog.Error("storage backend failed", "error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Storage backend failed", CodeBackendFailed)
	default:
		slog.Error("request failed", "error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Server error", CodeInternal)
	}
}
