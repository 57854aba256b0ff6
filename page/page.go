package page

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xy-planning-network/signpost"
)

// EntryPoint is the symbol every page module must expose.
const EntryPoint = "View"

var nameRegexp = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// A Loader finds and loads page modules by name.
type Loader interface {
	// Resolve reports whether name is a module the Loader can load,
	// failing with a *ModuleResolutionError if not.
	Resolve(name string) error

	// Load loads the module, failing with a *ModuleLoadError if it cannot.
	Load(name string) (Module, error)
}

// A Module is a loaded page module.
type Module interface {
	// Lookup retrieves the exported symbol.
	Lookup(symbol string) (any, bool)
}

// Symbols is a Module whose symbols are known ahead of time.
type Symbols map[string]any

// Lookup implements Module.
func (s Symbols) Lookup(symbol string) (any, bool) {
	v, ok := s[symbol]
	return v, ok && v != nil
}

// ValidateName rejects module names that are empty or could escape the pages namespace.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &ModuleResolutionError{Err: fmt.Errorf("%w: empty module name", signpost.ErrNotValid)}
	case strings.Contains(name, ".."), strings.ContainsAny(name, `/\`):
		return &ModuleResolutionError{Module: name, Err: fmt.Errorf("%w: unsafe module name", signpost.ErrNotValid)}
	case !nameRegexp.MatchString(name):
		return &ModuleResolutionError{Module: name, Err: fmt.Errorf("%w: module names may only contain letters, digits, '_' and '-'", signpost.ErrNotValid)}
	}

	return nil
}

// Chain tries each Loader in turn.
type Chain []Loader

// Resolve returns nil for the first Loader resolving name.
// If none do, the last error returns.
func (c Chain) Resolve(name string) error {
	_, err := c.find(name)
	return err
}

// Load loads name from the first Loader resolving it.
func (c Chain) Load(name string) (Module, error) {
	l, err := c.find(name)
	if err != nil {
		return nil, err
	}

	return l.Load(name)
}

func (c Chain) find(name string) (Loader, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	err := error(&ModuleResolutionError{Module: name, Err: fmt.Errorf("%w: no loaders", signpost.ErrNotExist)})
	for _, l := range c {
		if err = l.Resolve(name); err == nil {
			return l, nil
		}
	}

	return nil, err
}
