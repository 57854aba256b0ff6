package resp

import (
	"net/url"

	"github.com/xy-planning-network/signpost/http/template"
	"github.com/xy-planning-network/signpost/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
//
// If no Logger is provided through this option, a default *logger.SignpostLogger will be configured.
func WithLogger(log logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = log
	}
}

// WithParser sets the provided implementation of template.Parser to use for parsing HTML templates.
func WithParser(p template.Parser) ResponderOptFn {
	return func(d *Responder) {
		d.parser = p
	}
}

// WithRootUrl sets the provided URL after parsing it into a *url.URL to use for redirecting.
//
// NOTE: If u fails parsing by url.ParseRequestURI, the root URL is left unset and becomes "/".
func WithRootUrl(u string) ResponderOptFn {
	good, err := url.ParseRequestURI(u)

	return func(d *Responder) {
		if err != nil {
			return
		}

		d.rootUrl = good
	}
}
