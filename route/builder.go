package route

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/http/resp"
	"github.com/xy-planning-network/signpost/logger"
	"github.com/xy-planning-network/signpost/manifest"
	"github.com/xy-planning-network/signpost/page"
)

// A RouteConflictError reports a path registered twice.
type RouteConflictError = signpost.RouteConflictError

// ErrBuilt is returned when a Builder is used after Build.
var ErrBuilt = errors.New("route table already built")

// A Skip records a descriptor left out of a Table under SkipAndWarn.
type Skip struct {
	Descriptor manifest.Descriptor
	Err        error
}

// Result is the outcome of binding a manifest.
type Result struct {
	Table   *Table
	Skipped []Skip
}

// A Builder accumulates routes for a Table.
// A Builder is not safe for concurrent use.
type Builder struct {
	loader page.Loader
	logger logger.Logger
	policy Policy
	rp     *resp.Responder

	entries []Entry
	byPath  map[string]int
	skipped []Skip
	err     error
	built   bool
}

// NewBuilder constructs a Builder loading page modules from loader.
func NewBuilder(loader page.Loader, opts ...BuilderOpt) *Builder {
	b := &Builder{
		loader: loader,
		logger: logger.New(),
		policy: FailFast,
		byPath: make(map[string]int),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.rp == nil {
		b.rp = resp.NewResponder(resp.WithLogger(b.logger))
	}

	return b
}

// Builtin registers h at path ahead of any page.
func (b *Builder) Builtin(path, name string, h http.Handler) error {
	if err := b.usable(); err != nil {
		return err
	}

	if h == nil {
		return fmt.Errorf("%w: nil handler for built-in route %q", signpost.ErrNotValid, path)
	}

	return b.register(Entry{Descriptor: manifest.Descriptor{Path: path, Name: name}, Builtin: true, Handler: h})
}

// Bind binds each descriptor in order.
//
// Under FailFast, the first error is returned and every later call to Bind or Build returns it too.
// Under SkipAndWarn, descriptors failing with a *page.ModuleLoadError or *page.EntryPointMissingError
// are logged and recorded in Skipped instead.
func (b *Builder) Bind(m manifest.Manifest) error {
	if err := b.usable(); err != nil {
		return err
	}

	for _, d := range m {
		err := b.bind(d)
		if err == nil {
			continue
		}

		if b.policy == SkipAndWarn && skippable(err) {
			b.logger.Warn(fmt.Sprintf("skipping %s: %s", d, err), &logger.LogContext{
				Caller: logger.CurrentCaller(),
				Data:   map[string]any{"module": d.Module, "route": d.Path},
				Error:  err,
			})
			b.skipped = append(b.skipped, Skip{Descriptor: d, Err: err})
			continue
		}

		b.err = err
		return err
	}

	return nil
}

// Skipped lists the descriptors skipped so far.
func (b *Builder) Skipped() []Skip {
	s := make([]Skip, len(b.skipped))
	copy(s, b.skipped)

	return s
}

// Build produces the Table.
// The Builder cannot be used afterwards.
func (b *Builder) Build() (*Table, error) {
	if err := b.usable(); err != nil {
		return nil, err
	}

	b.built = true

	t := &Table{entries: b.entries, byPath: b.byPath}
	b.entries, b.byPath = nil, nil

	return t, nil
}

// Bind builds a Table holding the pages of m, loaded through loader.
func Bind(loader page.Loader, m manifest.Manifest, opts ...BuilderOpt) (Result, error) {
	b := NewBuilder(loader, opts...)
	if err := b.Bind(m); err != nil {
		return Result{}, err
	}

	t, err := b.Build()
	if err != nil {
		return Result{}, err
	}

	return Result{Table: t, Skipped: b.Skipped()}, nil
}

func (b *Builder) usable() error {
	switch {
	case b.err != nil:
		return b.err
	case b.built:
		return ErrBuilt
	}

	return nil
}

// bind resolves, loads and registers a single descriptor.
// Every error returned names both the module and the path.
func (b *Builder) bind(d manifest.Descriptor) error {
	if _, ok := b.byPath[d.Path]; ok {
		return b.conflict(d)
	}

	if b.loader == nil {
		return &page.ModuleResolutionError{Module: d.Module, Path: d.Path, Err: fmt.Errorf("%w: no page loader", signpost.ErrBadConfig)}
	}

	if err := page.ValidateName(d.Module); err != nil {
		return withPath(err, d.Path)
	}

	if err := b.loader.Resolve(d.Module); err != nil {
		var re *page.ModuleResolutionError
		if !errors.As(err, &re) {
			err = &page.ModuleResolutionError{Module: d.Module, Err: err}
		}

		return withPath(err, d.Path)
	}

	mod, err := b.loader.Load(d.Module)
	if err != nil {
		var (
			re *page.ModuleResolutionError
			le *page.ModuleLoadError
		)
		if !errors.As(err, &re) && !errors.As(err, &le) {
			err = &page.ModuleLoadError{Module: d.Module, Err: err}
		}

		return withPath(err, d.Path)
	}

	h, err := page.EntryHandler(d.Module, mod, b.rp)
	if err != nil {
		return withPath(err, d.Path)
	}

	if err := b.register(Entry{Descriptor: d, Handler: h}); err != nil {
		return err
	}

	b.logger.Debug(fmt.Sprintf("bound %s", d), nil)

	return nil
}

func (b *Builder) register(e Entry) error {
	if _, ok := b.byPath[e.Path]; ok {
		return b.conflict(e.Descriptor)
	}

	b.byPath[e.Path] = len(b.entries)
	b.entries = append(b.entries, e)

	return nil
}

func (b *Builder) conflict(d manifest.Descriptor) error {
	existing := b.entries[b.byPath[d.Path]]
	name := existing.Module
	if existing.Builtin {
		name = existing.Name
	}

	return &RouteConflictError{Path: d.Path, Module: d.Module, Existing: name}
}

func skippable(err error) bool {
	var (
		le *page.ModuleLoadError
		ee *page.EntryPointMissingError
	)

	return errors.As(err, &le) || errors.As(err, &ee)
}

func withPath(err error, path string) error {
	var pe interface{ SetPath(string) }
	if errors.As(err, &pe) {
		pe.SetPath(path)
	}

	return err
}
