package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/signpost"
)

// ReportPanic encloses the env and returns an Adapter that,
// outside of development, wraps the handler in sentryhttp.Handle
// in order to recover and report panics.
//
// In development, panics are left for net/http to recover and print.
func ReportPanic(env signpost.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(handler http.Handler) http.Handler {
		return sh.Handle(handler)
	}
}
