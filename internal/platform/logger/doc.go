// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Output goes to stdout, or is appended to a log file when
// one is configured. Request-scoped loggers travel in the context.
package logger
