package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/locketmemories/locket/internal/ctxkeys"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request an id, reusing a sane incoming X-Request-ID.
// The id is stored in the context and echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := ctxkeys.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
