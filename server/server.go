package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"

	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/http/middleware"
	"github.com/xy-planning-network/signpost/http/resp"
	"github.com/xy-planning-network/signpost/http/template"
	"github.com/xy-planning-network/signpost/logger"
	"github.com/xy-planning-network/signpost/manifest"
	"github.com/xy-planning-network/signpost/page"
	"github.com/xy-planning-network/signpost/route"
)

// A Server serves the pages of a manifest.
type Server struct {
	addr            string
	ctx             context.Context
	debounce        time.Duration
	env             signpost.Environment
	l               logger.Logger
	loader          page.Loader
	mws             []middleware.Adapter
	p               template.Parser
	pagesDir        string
	policy          route.Policy
	reg             *page.Registry
	rp              *resp.Responder
	shutdownTimeout time.Duration
	src             manifest.Source
	srv             *http.Server
	url             *url.URL
	watch           bool

	reloads chan reload

	mu    sync.RWMutex
	bound string
	quit  chan struct{}
	table *route.Table
}

// reload asks the serving loop to swap in tbl, closing done once it serves it.
type reload struct {
	tbl  *route.Table
	done chan struct{}
}

// New constructs a Server from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
//
// New neither reads the manifest nor loads pages; Run does.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		debounce:        DefaultDebounce,
		reloads:         make(chan reload),
		shutdownTimeout: signpost.EnvVarOrDuration(shutdownTimeoutEnvVar, DefaultShutdownTimeout),
	}
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Server under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Server
	// until either (1) user supplied Options or (2) default Options
	// configure the *Server first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", signpost.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", signpost.ErrBadConfig, err)
		}
	}

	if s.ctx == nil {
		s.ctx = context.Background()
	}

	if s.url == nil {
		s.url = defaultURL(s.addr)
	}

	if s.p == nil {
		s.p = defaultParser(s.env, s.url)
	}

	if s.rp == nil {
		s.rp = defaultResponder(s.l, s.url, s.p)
	}

	if s.loader == nil {
		s.loader = defaultLoader(s.reg, s.pagesDir)
	}

	if s.mws == nil {
		s.mws = defaultMiddlewares(s.env, s.url)
	}

	if s.srv == nil {
		s.srv = defaultServer(s.ctx)
	}

	return s, nil
}

func (s *Server) Env() signpost.Environment  { return s.env }
func (s *Server) Logger() logger.Logger      { return s.l }
func (s *Server) Manifest() manifest.Source  { return s.src }
func (s *Server) Responder() *resp.Responder { return s.rp }

// Addr returns the address the server is listening on,
// or an empty string if it is not.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.bound
}

// Table returns the route table being served, if any.
func (s *Server) Table() *route.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table
}

// Build reads the manifest and binds its pages into a new route table,
// with the index at IndexPath.
// Build has no effect on a running server; cf. Reload.
func (s *Server) Build(ctx context.Context) (route.Result, error) {
	m, err := manifest.Read(ctx, s.src)
	if err != nil {
		return route.Result{}, err
	}

	idx := &indexHandler{rp: s.rp}
	b := route.NewBuilder(
		s.loader,
		route.WithLogger(s.l),
		route.WithPolicy(s.policy),
		route.WithResponder(s.rp),
	)

	if err := b.Builtin(IndexPath, IndexName, idx); err != nil {
		return route.Result{}, err
	}

	if err := b.Bind(m); err != nil {
		return route.Result{}, err
	}

	tbl, err := b.Build()
	if err != nil {
		return route.Result{}, err
	}

	idx.pages = tbl.Pages()

	return route.Result{Table: tbl, Skipped: b.Skipped()}, nil
}

// Handler constructs the http.Handler serving tbl.
func (s *Server) Handler(tbl *route.Table) http.Handler {
	return defaultRouter(s.env, s.l, s.mws, tbl)
}

// Guide runs the server until one of these, or cancelling the context given by WithContext, stops it:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (s *Server) Guide() error {
	ctx, stop := signal.NotifyContext(
		s.ctx,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer stop()

	return s.Run(ctx)
}

// Run builds the route table and serves it until ctx is done.
//
// The manifest is read and every page bound before the listener opens:
// any error doing so returns without the address ever being bound.
//
// In watch mode, changes to the manifest file or the pages directory rebuild
// the table from scratch; cf. Reload.
func (s *Server) Run(ctx context.Context) error {
	res, err := s.Build(ctx)
	if err != nil {
		return err
	}

	for _, skip := range res.Skipped {
		s.l.Warn(fmt.Sprintf("not serving %s", skip.Descriptor), &logger.LogContext{Error: skip.Err})
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("could not listen: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	if s.watch && !s.env.CanWatch() {
		s.l.Warn(fmt.Sprintf("watch mode unavailable in %s", s.env), nil)
	}

	if s.watch && s.env.CanWatch() {
		w, err := newWatcher(s.l, s.debounce, s.src, s.pagesDir)
		if err != nil {
			ln.Close()
			return err
		}

		g.Go(func() error {
			return w.run(ctx, func() {
				if err := s.Reload(ctx); err != nil && !errors.Is(err, ErrNotRunning) && ctx.Err() == nil {
					s.l.Error(fmt.Sprintf("could not reload: %s", err), &logger.LogContext{Error: err})
				}
			})
		})
	}

	g.Go(func() error { return s.serve(ctx, ln, res.Table) })

	return g.Wait()
}

// Reload rebuilds the route table from scratch and swaps it in.
//
// If the rebuild fails, the error returns and the current table keeps serving.
// Otherwise the current http.Server shuts down gracefully,
// letting in-flight requests finish against the old table,
// and a new one starts on the same address with the new table.
// Reload returns once the new table is being served.
func (s *Server) Reload(ctx context.Context) error {
	s.mu.RLock()
	quit := s.quit
	s.mu.RUnlock()

	if quit == nil {
		return ErrNotRunning
	}

	res, err := s.Build(ctx)
	if err != nil {
		s.l.Error(fmt.Sprintf("keeping current routes: %s", err), &logger.LogContext{Error: err})
		return err
	}

	req := reload{tbl: res.Table, done: make(chan struct{})}
	select {
	case s.reloads <- req:
	case <-quit:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		s.l.Info(fmt.Sprintf("reloaded %d routes", res.Table.Len()), nil)
		return nil
	case <-quit:
		return ErrNotRunning
	}
}

// serve runs an http.Server for tbl on ln, replacing both on every reload.
func (s *Server) serve(ctx context.Context, ln net.Listener, tbl *route.Table) error {
	quit := make(chan struct{})
	s.mu.Lock()
	s.quit = quit
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.bound = ""
		s.mu.Unlock()
		close(quit)
	}()

	var done chan struct{}
	for {
		srv := s.newHTTPServer(tbl)
		errc := make(chan error, 1)
		go func() { errc <- srv.Serve(ln) }()

		addr := ln.Addr().String()
		s.mu.Lock()
		s.bound = addr
		s.table = tbl
		s.mu.Unlock()
		s.l.Info(fmt.Sprintf("serving %d routes at %s", tbl.Len(), addr), nil)

		if done != nil {
			close(done)
			done = nil
		}

		var req reload
		select {
		case <-ctx.Done():
			err := s.shutdown(srv)
			<-errc
			return err

		case err := <-errc:
			return fmt.Errorf("could not serve: %w", err)

		case req = <-s.reloads:
		}

		if err := s.shutdown(srv); err != nil {
			s.l.Warn(err.Error(), nil)
		}
		<-errc

		var err error
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("could not listen: %w", err)
		}

		tbl, done = req.tbl, req.done
	}
}

// newHTTPServer copies the configured *http.Server to serve tbl.
func (s *Server) newHTTPServer(tbl *route.Table) *http.Server {
	return &http.Server{
		BaseContext:  s.srv.BaseContext,
		Handler:      s.Handler(tbl),
		IdleTimeout:  s.srv.IdleTimeout,
		ReadTimeout:  s.srv.ReadTimeout,
		WriteTimeout: s.srv.WriteTimeout,
	}
}

// shutdown stops srv, waiting up to the shutdown timeout for in-flight requests.
func (s *Server) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.l.Info("shutting down web server", nil)
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		srv.Close()
		return fmt.Errorf("could not shutdown: %w", err)
	}

	s.l.Info("web server shutdown successfully", nil)

	return nil
}
