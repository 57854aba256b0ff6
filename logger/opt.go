package logger

import (
	"io"
	"log"
)

// A LoggerOptFn is a functional option configuring a SignpostLogger when constructing a new one.
type LoggerOptFn func(*SignpostLogger)

// WithEnv sets the environment SignpostLogger is operating in.
func WithEnv(env string) LoggerOptFn {
	return func(l *SignpostLogger) {
		l.env = env
	}
}

// WithLevel sets the log level SignpostLogger uses.
//
// An unknown level is ignored.
func WithLevel(level LogLevel) LoggerOptFn {
	return func(l *SignpostLogger) {
		if level == LogLevelUnk {
			return
		}

		l.ll = level
	}
}

// WithLogger sets the log.Logger SignpostLogger uses.
func WithLogger(log *log.Logger) LoggerOptFn {
	return func(l *SignpostLogger) {
		l.l = log
	}
}

// WithOutput sets where SignpostLogger writes to, keeping the standard flags.
func WithOutput(w io.Writer) LoggerOptFn {
	return func(l *SignpostLogger) {
		l.l = log.New(w, "", log.LstdFlags)
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) LoggerOptFn {
	return func(l *SignpostLogger) {
		l.skip = skip
	}
}
