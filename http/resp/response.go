package resp

import (
	"net/http"
	"net/url"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(*Responder, *Response)

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	r     *http.Request
	code  int
	data  any
	raw   *string
	tmpls []string
	url   *url.URL
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ *Responder, r *Response) {
		r.code = c
	}
}

// Data stores the provided value for writing to the client.
//
// Used with Responder.Html and Responder.Json.
func Data(d any) Fn {
	return func(_ *Responder, r *Response) {
		r.data = d
	}
}

// Err sets the status code http.StatusInternalServerError, unless a 4xx or 5xx code is already set,
// and logs the error.
func Err(e error) Fn {
	return func(d *Responder, r *Response) {
		if e != nil {
			d.logger.Error(e.Error(), newLogContext(r.r, e, r.data))
		}

		if r.code < http.StatusBadRequest {
			r.code = http.StatusInternalServerError
		}
	}
}

// Raw sets a string to write as the body as-is.
//
// Used with Responder.Html.
func Raw(s string) Fn {
	return func(_ *Responder, r *Response) {
		r.raw = &s
	}
}

// Tmpls appends to the templates to be rendered.
//
// Used with Responder.Html.
func Tmpls(fps ...string) Fn {
	return func(_ *Responder, r *Response) {
		r.tmpls = append(r.tmpls, fps...)
	}
}

// ToRoot sets the Responder's root URL as the redirect destination.
func ToRoot() Fn {
	return func(d *Responder, r *Response) {
		u := *d.rootUrl
		r.url = &u
	}
}

// Url sets the redirect destination, ignoring values url.ParseRequestURI cannot parse.
//
// Used with Responder.Redirect.
func Url(u string) Fn {
	return func(_ *Responder, r *Response) {
		good, err := url.ParseRequestURI(u)
		if err != nil {
			return
		}

		r.url = good
	}
}
