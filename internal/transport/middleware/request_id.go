package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/pkg/ctxutil"
)

// RequestIDHeader carries the request identifier in and out.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that tags every request with an identifier,
// reusing the incoming header when the client supplies one.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
