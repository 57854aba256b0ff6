package signpost

import (
	"errors"
	"fmt"
)

var (
	ErrBadConfig  = errors.New("bad config")
	ErrConflict   = errors.New("conflict")
	ErrNotExist   = errors.New("not exist")
	ErrNotValid   = errors.New("invalid")
	ErrUnexpected = errors.New("unexpected")
)

// A RouteConflictError reports a URL path claimed twice,
// by a built-in route or by two page modules.
type RouteConflictError struct {
	Path     string
	Module   string
	Existing string
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("%s: route %q for %q already registered by %q", ErrConflict, e.Path, e.Module, e.Existing)
}

func (e *RouteConflictError) Unwrap() error { return ErrConflict }
