package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/signpost"
)

// RequestID adds a uuid to the request context under signpost.RequestIDKey
// and echoes it in the "X-Request-Id" response header.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-Id", id)
			ctx := context.WithValue(r.Context(), signpost.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
