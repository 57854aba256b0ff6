package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/signpost"
)

// PagePath adds the route a page was bound under to the request context
// under signpost.PagePathKey.
func PagePath(path string) Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, r.Clone(context.WithValue(r.Context(), signpost.PagePathKey, path)))
		})
	}
}
