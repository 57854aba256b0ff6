package page

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/http/resp"
)

// Handler adapts a View to an http.Handler, responding through rp.
// A nil rp uses resp.NewResponder's defaults.
//
// Handler fails with signpost.ErrNotValid if view has an unsupported signature.
func Handler(view any, rp *resp.Responder) (http.Handler, error) {
	if view == nil {
		return nil, fmt.Errorf("%w: nil %s", signpost.ErrNotValid, EntryPoint)
	}

	if v := reflect.ValueOf(view); v.Kind() == reflect.Func && v.IsNil() {
		return nil, fmt.Errorf("%w: nil %s", signpost.ErrNotValid, EntryPoint)
	}

	if rp == nil {
		rp = resp.NewResponder()
	}

	switch fn := view.(type) {
	case http.Handler:
		return fn, nil

	case func(http.ResponseWriter, *http.Request):
		return http.HandlerFunc(fn), nil

	case func() string:
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rp.Html(w, r, resp.Raw(fn()))
		}), nil

	case func(*http.Request) string:
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rp.Html(w, r, resp.Raw(fn(r)))
		}), nil

	case func(*http.Request) (string, error):
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := fn(r)
			if err != nil {
				rp.Err(w, r, err)
				return
			}

			rp.Html(w, r, resp.Raw(s))
		}), nil

	case func() map[string]any:
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rp.Json(w, r, resp.Data(fn()))
		}), nil

	case func(*http.Request) map[string]any:
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rp.Json(w, r, resp.Data(fn(r)))
		}), nil

	default:
		return nil, fmt.Errorf("%w: unsupported %s signature %T", signpost.ErrNotValid, EntryPoint, view)
	}
}

// EntryHandler looks up the EntryPoint of mod and adapts it with Handler.
// A missing or unusable View fails with an *EntryPointMissingError.
func EntryHandler(name string, mod Module, rp *resp.Responder) (http.Handler, error) {
	view, ok := mod.Lookup(EntryPoint)
	if !ok {
		return nil, &EntryPointMissingError{Module: name}
	}

	h, err := Handler(view, rp)
	if err != nil {
		return nil, &EntryPointMissingError{Module: name, Err: err}
	}

	return h, nil
}
