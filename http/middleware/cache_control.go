package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// CacheControl adds a "Cache-Control" header to the response.
// A non-positive maxAge instructs clients not to store the response.
func CacheControl(maxAge time.Duration) Adapter {
	val := "no-store"
	if maxAge > 0 {
		val = "max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", val)
			handler.ServeHTTP(w, r)
		})
	}
}
