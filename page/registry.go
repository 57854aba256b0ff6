package page

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xy-planning-network/signpost"
)

// InitFn builds a module's symbols the first time it loads.
type InitFn func() (Symbols, error)

// Registry holds page modules compiled into the binary.
// The zero value is ready to use.
type Registry struct {
	mu   sync.RWMutex
	mods map[string]InitFn
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry { return &Registry{mods: make(map[string]InitFn)} }

// Register adds a module whose only symbol is view.
func (r *Registry) Register(name string, view any) error {
	return r.RegisterModule(name, Symbols{EntryPoint: view})
}

// MustRegister is Register, panicking on error.
func (r *Registry) MustRegister(name string, view any) {
	if err := r.Register(name, view); err != nil {
		panic(err)
	}
}

// RegisterModule adds a module with the given symbols.
func (r *Registry) RegisterModule(name string, syms Symbols) error {
	return r.RegisterInit(name, func() (Symbols, error) { return syms, nil })
}

// RegisterInit adds a module whose symbols are built by fn on every Load.
// Errors and panics in fn surface as a *ModuleLoadError.
func (r *Registry) RegisterInit(name string, fn InitFn) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if fn == nil {
		return fmt.Errorf("%w: nil init for page module %q", signpost.ErrNotValid, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mods == nil {
		r.mods = make(map[string]InitFn)
	}

	if _, ok := r.mods[name]; ok {
		return fmt.Errorf("%w: page module %q already registered", signpost.ErrConflict, name)
	}

	r.mods[name] = fn

	return nil
}

// Names lists registered modules, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.mods))
	for name := range r.mods {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Resolve implements Loader.
func (r *Registry) Resolve(name string) error {
	_, err := r.lookup(name)
	return err
}

// Load implements Loader.
func (r *Registry) Load(name string) (mod Module, err error) {
	fn, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			mod = nil
			err = &ModuleLoadError{Module: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	syms, err := fn()
	if err != nil {
		return nil, &ModuleLoadError{Module: name, Err: err}
	}

	return syms, nil
}

func (r *Registry) lookup(name string) (InitFn, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.mods[name]
	if !ok {
		return nil, &ModuleResolutionError{Module: name, Err: fmt.Errorf("%w: no registered module", signpost.ErrNotExist)}
	}

	return fn, nil
}
