package server

import "time"

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	sentryDsnEnvVar = "SENTRY_DSN"

	// Page defaults
	manifestEnvVar    = "MANIFEST"
	DefaultManifest   = "app/nav_config.json"
	pagesDirEnvVar    = "PAGES_DIR"
	DefaultPagesDir   = "app/pages"
	skipBrokenEnvVar  = "SKIP_BROKEN_PAGES"
	defaultSkipBroken = false

	pageLoadTimeoutEnvVar = "PAGE_LOAD_TIMEOUT"

	// Rate limit defaults
	rateLimitEnvVar       = "RATE_LIMIT"
	DefaultRateLimit      = 5
	rateLimitBurstEnvVar  = "RATE_LIMIT_BURST"
	DefaultRateLimitBurst = 20

	// Watch defaults
	watchEnvVar     = "WATCH"
	defaultWatch    = false
	DefaultDebounce = 250 * time.Millisecond

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":5000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
	shutdownTimeoutEnvVar     = "SHUTDOWN_TIMEOUT"
	DefaultShutdownTimeout    = 5 * time.Second

	// Index route
	IndexPath = "/"
	IndexName = "Index"
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort
