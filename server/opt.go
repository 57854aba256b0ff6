package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/http/middleware"
	"github.com/xy-planning-network/signpost/http/resp"
	"github.com/xy-planning-network/signpost/http/template"
	"github.com/xy-planning-network/signpost/logger"
	"github.com/xy-planning-network/signpost/manifest"
	"github.com/xy-planning-network/signpost/page"
	"github.com/xy-planning-network/signpost/route"
)

// An Option configures a *Server either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some Options require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithAddr is an example of the first.
// An unexported field on the passed in *Server is updated with the enclosed value.
//
// WithResponder is an example of the second.
// An unexported field on the passed in *Server
// is updated only when the closure it returns is called.
type Option func(s *Server) (OptFollowup, error)
type OptFollowup func() error

// WithAddr sets the address the server listens on.
// An empty addr reads the PORT env var, defaulting to DefaultPort.
func WithAddr(addr string) Option {
	return func(s *Server) (OptFollowup, error) {
		if addr == "" {
			addr = defaultAddr()
		}

		s.addr = addr

		return nil, nil
	}
}

// WithContext sets the parent context of the server and every request it handles.
func WithContext(ctx context.Context) Option {
	return func(s *Server) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("%w: nil context", signpost.ErrBadConfig)
		}

		s.ctx = ctx

		return nil, nil
	}
}

// WithDebounce sets how long watch mode waits for changes to settle before rebuilding.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) (OptFollowup, error) {
		if d <= 0 {
			return nil, fmt.Errorf("%w: debounce must be positive, got %s", signpost.ErrBadConfig, d)
		}

		s.debounce = d

		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the default Environment is set to Development.
func WithEnv(env string) Option {
	e := signpost.Environment(env)
	if e.Valid() != nil {
		e = signpost.EnvVarOrEnv(environmentEnvVar, signpost.Development)
	}

	return func(s *Server) (OptFollowup, error) {
		s.env = e
		return nil, nil
	}
}

// WithLoader sets where page modules are loaded from, replacing the default
// of compiled pages followed by scripts in the pages directory.
func WithLoader(l page.Loader) Option {
	return func(s *Server) (OptFollowup, error) {
		if l == nil {
			return nil, fmt.Errorf("%w: nil page loader", signpost.ErrBadConfig)
		}

		s.loader = l

		return nil, nil
	}
}

// WithLogger sets the logger.Logger of the server.
// A nil Logger constructs one for the server's environment once it is known,
// sending errors to Sentry if SENTRY_DSN is set.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) (OptFollowup, error) {
		if l != nil {
			s.l = l
			return nil, nil
		}

		return func() error {
			if s.l == nil {
				s.l = defaultAppLogger(s.env, os.Stdout)
			}

			return nil
		}, nil
	}
}

// WithManifest sets the Source the manifest is read from.
// A nil Source reads the MANIFEST env var, defaulting to DefaultManifest;
// cf. manifest.ParseSource.
func WithManifest(src manifest.Source) Option {
	return func(s *Server) (OptFollowup, error) {
		if src != nil {
			s.src = src
			return nil, nil
		}

		return func() error {
			if s.src != nil {
				return nil
			}

			src, err := manifest.ParseSource(signpost.EnvVarOrString(manifestEnvVar, DefaultManifest))
			if err != nil {
				return err
			}

			s.src = src

			return nil
		}, nil
	}
}

// WithMiddlewares replaces the middlewares applied to every request.
func WithMiddlewares(mws ...middleware.Adapter) Option {
	return func(s *Server) (OptFollowup, error) {
		s.mws = append(make([]middleware.Adapter, 0, len(mws)), mws...)
		return nil, nil
	}
}

// WithPagesDir sets the directory page scripts are read from.
// An empty dir reads the PAGES_DIR env var, defaulting to DefaultPagesDir.
func WithPagesDir(dir string) Option {
	return func(s *Server) (OptFollowup, error) {
		if dir == "" {
			dir = signpost.EnvVarOrString(pagesDirEnvVar, DefaultPagesDir)
		}

		s.pagesDir = dir

		return nil, nil
	}
}

// WithParser constructs a followup option that, when called,
// sets the template.Parser rendering the index.
func WithParser(p template.Parser) Option {
	return func(s *Server) (OptFollowup, error) {
		return func() error {
			s.p = p
			return nil
		}, nil
	}
}

// WithPolicy sets how page modules that cannot be bound are handled.
func WithPolicy(p route.Policy) Option {
	return func(s *Server) (OptFollowup, error) {
		if err := p.Valid(); err != nil {
			return nil, fmt.Errorf("%w: policy %d", err, p)
		}

		s.policy = p

		return nil, nil
	}
}

// WithRegistry sets compiled page modules, consulted before scripts in the pages directory.
func WithRegistry(reg *page.Registry) Option {
	return func(s *Server) (OptFollowup, error) {
		s.reg = reg
		return nil, nil
	}
}

// WithResponder constructs a followup option that, when called,
// sets the *resp.Responder pages and the index respond through.
func WithResponder(rp *resp.Responder) Option {
	return func(s *Server) (OptFollowup, error) {
		return func() error {
			s.rp = rp
			return nil
		}, nil
	}
}

// WithServer sets the *http.Server whose timeouts every server started copies.
// Its Addr and Handler are ignored.
func WithServer(srv *http.Server) Option {
	return func(s *Server) (OptFollowup, error) {
		s.srv = srv
		return nil, nil
	}
}

// WithShutdownTimeout bounds how long in-flight requests may take to finish
// when the server stops or reloads.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) (OptFollowup, error) {
		s.shutdownTimeout = d
		return nil, nil
	}
}

// WithWatch toggles rebuilding routes when the manifest or page scripts change.
func WithWatch(watch bool) Option {
	return func(s *Server) (OptFollowup, error) {
		s.watch = watch
		return nil, nil
	}
}
