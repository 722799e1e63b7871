// Package logger provides structured logging for the application.
//
// It builds a log/slog JSON logger with a configurable level and carries
// request-scoped loggers (enriched with trace and user ids by the HTTP
// middleware) through context.Context.
package logger
