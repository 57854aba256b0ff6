package logger_test

import (
	"bytes"
	"errors"
	"io"
	"log"
	"regexp"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/signpost/logger"
)

var (
	logLevelRegexp = regexp.MustCompile(`^\[[A-Z]+\]`)
	fpRegexp       = regexp.MustCompile(`logger/logger_test\.go:\d+`)
	msgRegexp      = regexp.MustCompile(`'(.*)'`)
)

func newTestLogger(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}

func TestNewLogLevel(t *testing.T) {
	for _, tc := range []struct {
		val      string
		expected logger.LogLevel
	}{
		{"DEBUG", logger.LogLevelDebug},
		{"INFO", logger.LogLevelInfo},
		{"WARN", logger.LogLevelWarn},
		{"ERROR", logger.LogLevelError},
		{"FATAL", logger.LogLevelFatal},
		{"debug", logger.LogLevelUnk},
		{"", logger.LogLevelUnk},
	} {
		t.Run(tc.val, func(t *testing.T) {
			require.Equal(t, tc.expected, logger.NewLogLevel(tc.val))
		})
	}
}

func TestSignpostLogger(t *testing.T) {
	color.NoColor = true

	for _, tc := range []struct {
		name  string
		level logger.LogLevel
		logFn func(l logger.Logger)
		want  string
	}{
		{"Debug", logger.LogLevelDebug, func(l logger.Logger) { l.Debug("a debug", nil) }, "[DEBUG]"},
		{"Info", logger.LogLevelDebug, func(l logger.Logger) { l.Info("an info", nil) }, "[INFO]"},
		{"Warn", logger.LogLevelDebug, func(l logger.Logger) { l.Warn("a warn", nil) }, "[WARN]"},
		{"Error", logger.LogLevelDebug, func(l logger.Logger) { l.Error("an error", nil) }, "[ERROR]"},
		{"Fatal", logger.LogLevelDebug, func(l logger.Logger) { l.Fatal("a fatal", nil) }, "[FATAL]"},
		{"Info-Below-Warn", logger.LogLevelWarn, func(l logger.Logger) { l.Info("hidden", nil) }, ""},
		{"Debug-Below-Info", logger.LogLevelInfo, func(l logger.Logger) { l.Debug("hidden", nil) }, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			b := new(bytes.Buffer)
			l := logger.New(logger.WithLogger(newTestLogger(b)), logger.WithLevel(tc.level))

			// Act
			tc.logFn(l)

			// Assert
			if tc.want == "" {
				require.Zero(t, b.Len())
				return
			}

			require.Equal(t, tc.want, logLevelRegexp.FindString(b.String()))
			require.Regexp(t, fpRegexp, b.String())
			require.Len(t, msgRegexp.FindStringSubmatch(b.String()), 2)
		})
	}
}

func TestSignpostLoggerLogContext(t *testing.T) {
	color.NoColor = true

	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(newTestLogger(b)))

	// Act
	l.Info("with context", &logger.LogContext{Error: errors.New("oops")})

	// Assert
	require.Contains(t, b.String(), `'with context' log_context: {"error":"oops"}`)

	// Arrange
	b.Reset()

	// Act
	l.Info("with caller", &logger.LogContext{Caller: "route/builder.go:1"})

	// Assert
	require.Contains(t, b.String(), "[INFO] route/builder.go:1 'with caller'")
}

func TestSignpostLoggerWithLevel(t *testing.T) {
	// Arrange + Act
	l := logger.New(logger.WithLevel(logger.LogLevelUnk))

	// Assert
	require.Equal(t, logger.LogLevelInfo, l.LogLevel())

	// Arrange + Act
	l = logger.New(logger.WithLevel(logger.LogLevelError))

	// Assert
	require.Equal(t, logger.LogLevelError, l.LogLevel())
}

func TestSignpostLoggerAddSkip(t *testing.T) {
	// Arrange
	l := logger.New(logger.WithSkip(1))

	// Act
	skipped := l.AddSkip(3)

	// Assert
	require.Equal(t, 1, l.Skip())
	require.Equal(t, 3, skipped.Skip())
}
