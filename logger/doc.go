/*
Package logger provides logging functionality to a signpost app by defining the required behavior in [Logger]
and providing an implementation of it with [SignpostLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
[SignpostLogger] accepts a [LogLevel] through [WithLevel],
and if initialized with [LogLevelWarn],
only [*SignpostLogger.Warn], [*SignpostLogger.Error], and [*SignpostLogger.Fatal] produce messages.

Log messages emitted by [SignpostLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [WARN] route/builder.go:98 'skipping page' log_context: {"data":{"module":"broken","path":"/broken"}}

The log context is a JSON-encoded [LogContext].
It allows for including additional data inessential to the message proper,
but provides a fuller picture of the application state at the time of logging.

# SentryLogger

When a Sentry DSN is available, [NewSentryLogger] wraps a [SignpostLogger]
so that warnings and errors carrying a [LogContext.Error] are also shipped to Sentry.
*/
package logger
