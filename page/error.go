package page

import (
	"fmt"

	"github.com/xy-planning-network/signpost"
)

// A ModuleResolutionError reports a module name that is unknown or unsafe.
// It wraps signpost.ErrNotExist or signpost.ErrNotValid.
type ModuleResolutionError struct {
	Module string
	Path   string
	Err    error
}

func (e *ModuleResolutionError) Error() string {
	return describe("cannot resolve page module", e.Module, e.Path, e.Err)
}

func (e *ModuleResolutionError) Unwrap() error { return e.Err }

// A ModuleLoadError reports a resolved module that failed to load.
type ModuleLoadError struct {
	Module string
	Path   string
	Err    error
}

func (e *ModuleLoadError) Error() string {
	return describe("cannot load page module", e.Module, e.Path, e.Err)
}

func (e *ModuleLoadError) Unwrap() []error { return []error{signpost.ErrUnexpected, e.Err} }

// An EntryPointMissingError reports a module without a usable View.
type EntryPointMissingError struct {
	Module string
	Path   string
	Err    error
}

func (e *EntryPointMissingError) Error() string {
	return describe("no usable "+EntryPoint+" in page module", e.Module, e.Path, e.Err)
}

func (e *EntryPointMissingError) Unwrap() []error { return []error{signpost.ErrNotExist, e.Err} }

// SetPath records the URL path the module was to be served on.
func (e *ModuleResolutionError) SetPath(path string) { e.Path = path }

func (e *ModuleLoadError) SetPath(path string) { e.Path = path }

func (e *EntryPointMissingError) SetPath(path string) { e.Path = path }

func describe(msg, module, path string, err error) string {
	msg = fmt.Sprintf("%s %q", msg, module)
	if path != "" {
		msg += fmt.Sprintf(" for route %q", path)
	}

	if err != nil {
		msg += ": " + err.Error()
	}

	return msg
}
