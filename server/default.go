package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/xy-planning-network/signpost"
	"github.com/xy-planning-network/signpost/http/middleware"
	"github.com/xy-planning-network/signpost/http/resp"
	"github.com/xy-planning-network/signpost/http/router"
	"github.com/xy-planning-network/signpost/http/template"
	"github.com/xy-planning-network/signpost/logger"
	"github.com/xy-planning-network/signpost/page"
	"github.com/xy-planning-network/signpost/route"
)

// defaultOpts are the Options New applies before those passed in.
func defaultOpts() []Option {
	return []Option{
		WithEnv(""),
		WithLogger(nil),
		WithAddr(""),
		WithManifest(nil),
		WithPagesDir(""),
		WithPolicy(defaultPolicy()),
		WithWatch(signpost.EnvVarOrBool(watchEnvVar, defaultWatch)),
	}
}

// defaultAddr reads the address to listen on from the PORT env var.
func defaultAddr() string {
	port := signpost.EnvVarOrString(portEnvVar, DefaultPort)
	if !strings.Contains(port, ":") {
		port = ":" + port
	}

	return port
}

// defaultAppLogger constructs a [logger.Logger] configured for use in the application.
func defaultAppLogger(env signpost.Environment, output io.Writer) logger.Logger {
	sl := logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(signpost.EnvVarOrLogLevel(logLevelEnvVar, logger.LogLevelInfo)),
		logger.WithOutput(output),
	)
	sl.Debug("setting up app logger", nil)

	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		l := logger.NewSentryLogger(sl, dsn)
		l.Debug("using SentryLogger for app logger", nil)
		return l
	}

	return sl
}

// defaultURL reads the BASE_URL env var,
// falling back to HOST and the port listened on.
func defaultURL(addr string) *url.URL {
	def := defaultBaseURL
	if host := os.Getenv(hostEnvVar); host != "" && strings.HasPrefix(addr, ":") {
		def = "http://" + host + addr
	}

	return signpost.EnvVarOrURL(BaseURLEnvVar, def)
}

// defaultLoader looks pages up in reg first, then interprets scripts in dir.
// PAGE_LOAD_TIMEOUT bounds evaluating each script.
func defaultLoader(reg *page.Registry, dir string) page.Loader {
	timeout := signpost.EnvVarOrDuration(pageLoadTimeoutEnvVar, page.DefaultLoadTimeout)
	sl := page.NewScriptLoader(dir, page.WithLoadTimeout(timeout))
	if reg == nil {
		return sl
	}

	return page.Chain{reg, sl}
}

// defaultMiddlewares are applied to every request.
func defaultMiddlewares(env signpost.Environment, base *url.URL) []middleware.Adapter {
	mws := []middleware.Adapter{
		middleware.RequestID(),
		middleware.InjectIPAddress(),
	}

	if !env.IsDevelopment() && !env.IsTesting() {
		mws = append(mws,
			middleware.ForceHTTPS(env),
			middleware.RateLimit(defaultVisitors()),
		)
	}

	var origin string
	if base != nil {
		origin = base.Scheme + "://" + base.Host
	}

	return append(mws, middleware.CORS(origin))
}

// defaultVisitors limits each visitor to RATE_LIMIT requests a second
// with bursts of up to RATE_LIMIT_BURST.
func defaultVisitors() *middleware.Visitors {
	return middleware.NewVisitorsWithLimit(
		float64(signpost.EnvVarOrInt(rateLimitEnvVar, DefaultRateLimit)),
		signpost.EnvVarOrInt(rateLimitBurstEnvVar, DefaultRateLimitBurst),
	)
}

// defaultParser constructs a *template.Parse to be used
// when responding to HTTP requests with [*resp.Responder.Html].
//
// defaultParser makes available these functions in an HTML template:
//
//   - "env"
//   - "nonce"
//   - "rootUrl"
//   - "title"
func defaultParser(env signpost.Environment, u *url.URL) *template.Parse {
	p := template.NewParser()
	p.AddFn(template.Env(env))
	p.AddFn(template.Nonce())
	p.AddFn(template.RootUrl(u))

	return p
}

// defaultPolicy reads SKIP_BROKEN_PAGES.
func defaultPolicy() route.Policy {
	if signpost.EnvVarOrBool(skipBrokenEnvVar, defaultSkipBroken) {
		return route.SkipAndWarn
	}

	return route.FailFast
}

// defaultResponder configures the [*resp.Responder] used by page handlers and the index.
func defaultResponder(l logger.Logger, u *url.URL, p template.Parser) *resp.Responder {
	return resp.NewResponder(
		resp.WithLogger(l),
		resp.WithParser(p),
		resp.WithRootUrl(u.String()),
	)
}

// defaultRouter constructs a [*router.Router] mounting tbl.
func defaultRouter(env signpost.Environment, l logger.Logger, mws []middleware.Adapter, tbl *route.Table) *router.Router {
	r := router.New(env, middleware.LogRequest(l))
	r.OnEveryRequest(mws...)
	r.HandleNotFound(http.NotFound)
	r.Mount(tbl, middleware.CacheControl(0))

	return r
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	srv := &http.Server{
		IdleTimeout:  signpost.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  signpost.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: signpost.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
