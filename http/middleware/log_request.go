package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/logger"
)

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger,
// alongside the status code, bytes written, and time taken to respond.
//
// LogRequest scrubs the values for the following keys:
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			if query := signpost.Mask(r.URL.Query(), "password").Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(signpost.IpAddrKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			m := httpsnoop.CaptureMetrics(h, w, r)
			strs = append(strs, fmt.Sprint(m.Code), fmt.Sprintf("%dB", m.Written), m.Duration.String())

			var lc *logger.LogContext
			if id, ok := r.Context().Value(signpost.RequestIDKey).(string); ok {
				lc = &logger.LogContext{Data: map[string]any{"requestID": id}}
			}

			ls.Info(strings.Join(strs, " "), lc)
		})
	}
}
