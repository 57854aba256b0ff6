package page

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/xy-planning-network/signpost"
)

const (
	// ScriptExt is the extension of page module scripts.
	ScriptExt = ".go"

	// DefaultLoadTimeout bounds evaluating a script and looking up its symbols.
	DefaultLoadTimeout = 5 * time.Second
)

// DefaultImports are the standard library packages a script may import.
var DefaultImports = []string{
	"bytes",
	"encoding/json",
	"errors",
	"fmt",
	"html",
	"html/template",
	"math",
	"net/http",
	"net/url",
	"sort",
	"strconv",
	"strings",
	"time",
}

// ScriptLoader interprets page modules found as <name>.go in a directory.
//
// Scripts are plain Go source in any package;
// they are evaluated with yaegi in a fresh interpreter on every Load.
// Imports outside the allowed set fail the Load before any code runs.
type ScriptLoader struct {
	dir     string
	allowed map[string]bool
	timeout time.Duration
}

// A ScriptOpt customizes a ScriptLoader.
type ScriptOpt func(*ScriptLoader)

// WithImports allows scripts to import pkgs in addition to DefaultImports.
// Only packages yaegi ships symbols for can be used.
func WithImports(pkgs ...string) ScriptOpt {
	return func(sl *ScriptLoader) {
		for _, p := range pkgs {
			sl.allowed[p] = true
		}
	}
}

// WithLoadTimeout bounds how long evaluating a script may take,
// so a script stuck initializing fails its Load.
// A non-positive d keeps DefaultLoadTimeout.
func WithLoadTimeout(d time.Duration) ScriptOpt {
	return func(sl *ScriptLoader) {
		if d > 0 {
			sl.timeout = d
		}
	}
}

// NewScriptLoader constructs a ScriptLoader reading scripts from dir.
func NewScriptLoader(dir string, opts ...ScriptOpt) *ScriptLoader {
	sl := &ScriptLoader{dir: dir, allowed: make(map[string]bool), timeout: DefaultLoadTimeout}
	opts = append([]ScriptOpt{WithImports(DefaultImports...)}, opts...)
	for _, opt := range opts {
		opt(sl)
	}

	return sl
}

// Dir is the directory scripts are read from.
func (sl *ScriptLoader) Dir() string { return sl.dir }

// Timeout is how long evaluating a script may take.
func (sl *ScriptLoader) Timeout() time.Duration { return sl.timeout }

// Resolve implements Loader.
func (sl *ScriptLoader) Resolve(name string) error {
	_, err := sl.resolve(name)
	return err
}

func (sl *ScriptLoader) resolve(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	fp := filepath.Join(sl.dir, name+ScriptExt)
	info, err := os.Stat(fp)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", &ModuleResolutionError{Module: name, Err: fmt.Errorf("%w: %s", signpost.ErrNotExist, fp)}
	case err != nil:
		return "", &ModuleResolutionError{Module: name, Err: err}
	case info.IsDir():
		return "", &ModuleResolutionError{Module: name, Err: fmt.Errorf("%w: %s is a directory", signpost.ErrNotValid, fp)}
	}

	return fp, nil
}

// Load implements Loader.
// Syntax errors, disallowed imports, panics while evaluating the script
// and evaluation outlasting the load timeout all surface as a *ModuleLoadError.
func (sl *ScriptLoader) Load(name string) (Module, error) {
	fp, err := sl.resolve(name)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(fp)
	if err != nil {
		return nil, &ModuleLoadError{Module: name, Err: err}
	}

	f, err := parser.ParseFile(token.NewFileSet(), fp, src, parser.ImportsOnly)
	if err != nil {
		return nil, &ModuleLoadError{Module: name, Err: err}
	}

	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, &ModuleLoadError{Module: name, Err: err}
		}

		if !sl.allowed[p] {
			return nil, &ModuleLoadError{Module: name, Err: fmt.Errorf("%w: import %q not allowed", signpost.ErrNotValid, p)}
		}
	}

	i := interp.New(interp.Options{})
	if err := i.Use(sl.symbols()); err != nil {
		return nil, &ModuleLoadError{Module: name, Err: err}
	}

	if _, err := eval(i, string(src), sl.timeout); err != nil {
		return nil, &ModuleLoadError{Module: name, Err: err}
	}

	return &script{i: i, pkg: f.Name.Name, timeout: sl.timeout}, nil
}

// symbols filters yaegi's standard library exports down to the allowed imports.
// Keys have the form "import/path/name".
func (sl *ScriptLoader) symbols() interp.Exports {
	ex := make(interp.Exports)
	for key, syms := range stdlib.Symbols {
		if sl.allowed[path.Dir(key)] {
			ex[key] = syms
		}
	}

	return ex
}

// eval evaluates src in i, giving up after timeout.
func eval(i *interp.Interpreter, src string, timeout time.Duration) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	v, err = i.EvalWithContext(ctx, src)
	if errors.Is(err, context.DeadlineExceeded) {
		return v, fmt.Errorf("evaluation took longer than %s: %w", timeout, err)
	}

	return v, err
}

type script struct {
	i       *interp.Interpreter
	pkg     string
	timeout time.Duration
}

// Lookup implements Module.
func (s *script) Lookup(symbol string) (any, bool) {
	v, err := eval(s.i, s.pkg+"."+symbol, s.timeout)
	if err != nil || !v.IsValid() || !v.CanInterface() {
		return nil, false
	}

	return v.Interface(), true
}
