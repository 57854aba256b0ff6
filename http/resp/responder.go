package resp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/xy-planning-network/signpost/http/template"
	"github.com/xy-planning-network/signpost/logger"
)

const responderFrames = 1

// Responder maintains reusable pieces for responding to HTTP requests.
// It exposes many common methods for writing structured data as an HTTP response.
// These are the forms of response Responder can execute:
//
//	Err
//	Html
//	Json
//	Redirect
//
// Most oftentimes, setting up a single instance of a Responder suffices for an application.
//
// When handling a specific HTTP request, calling code supplies additional data, structure,
// and so forth through Fn functions.
type Responder struct {
	logger logger.Logger

	// Initialized template parser
	parser template.Parser

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool

	// Root URL the responder is listening on, also used when in an error state
	rootUrl *url.URL
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool: &sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New()
	}

	if l, ok := d.logger.(logger.SkipLogger); ok {
		d.logger = l.AddSkip(l.Skip() + responderFrames)
	}

	if d.rootUrl == nil {
		d.rootUrl = &url.URL{Path: "/"}
	}

	return d
}

// Err wraps http.Error(), logging the error causing the failure state.
//
// Use in exceptional circumstances when no Redirect or Html can occur.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	rr := doer.do(r, append(opts, Err(err))...)

	var msg string
	if err != nil {
		msg = err.Error()
	}

	http.Error(w, msg, rr.code)
}

// Html writes an HTML response.
//
// With Raw, the provided string is written as-is.
// Otherwise, the templates set by Tmpls are parsed and executed with the value set by Data,
// available in the template as .Data.
//
// The default response status code is 200.
func (doer *Responder) Html(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr := doer.do(r, opts...)
	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	switch {
	case rr.raw != nil:
		b.WriteString(*rr.raw)

	case len(rr.tmpls) == 0:
		return doer.handleHtmlError(w, r, fmt.Errorf("%w: no templates to render", ErrMissingData))

	case doer.parser == nil:
		return doer.handleHtmlError(w, r, fmt.Errorf("%w: no parser configured", ErrBadConfig))

	default:
		tmpl, err := doer.parser.Parse(rr.tmpls...)
		if err != nil {
			return doer.handleHtmlError(w, r, fmt.Errorf("cannot parse: %w", err))
		}

		rd := struct{ Data any }{Data: rr.data}
		if err := tmpl.ExecuteTemplate(b, path.Base(rr.tmpls[0]), rd); err != nil {
			return doer.handleHtmlError(w, r, err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// Json responds with the value set by Data encoded as JSON.
//
// The default response status code is 200.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr := doer.do(r, opts...)
	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(rr.data); err != nil {
		doer.Err(w, r, err)
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// Redirect calls http.Redirect, given Url() set the redirect destination.
// If Url() is not passed in opts, then the root URL is the redirect destination.
//
// The default response status code is 302.
// A status code outside the 3xx range is replaced with 302.
func (doer *Responder) Redirect(w http.ResponseWriter, r *http.Request, opts ...Fn) {
	rr := doer.do(r, append([]Fn{ToRoot()}, opts...)...)
	if rr.code < http.StatusMultipleChoices || rr.code > http.StatusPermanentRedirect {
		rr.code = http.StatusFound
	}

	http.Redirect(w, r, rr.url.String(), rr.code)
}

// handleHtmlError logs err and responds with a bare 500.
func (doer *Responder) handleHtmlError(w http.ResponseWriter, r *http.Request, err error) error {
	doer.logger.Error(err.Error(), newLogContext(r, err, nil))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	return err
}

// do applies all options, in order, to a new *Response.
func (doer *Responder) do(r *http.Request, opts ...Fn) *Response {
	rr := &Response{r: r, tmpls: make([]string, 0)}
	for _, opt := range opts {
		opt(doer, rr)
	}

	return rr
}
