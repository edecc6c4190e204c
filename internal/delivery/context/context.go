// Package context carries per-request values (request ID, client namespace,
// request-scoped logger) through echo.Context and context.Context.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	KeyRequestID ContextKey = "request_id"
	KeyClientID  ContextKey = "client_id"
	KeyLogger    ContextKey = "logger"

	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"
)

func echoString(c echo.Context, key ContextKey) string {
	s, _ := c.Get(string(key)).(string)

	return s
}

// GetRequestID returns the request ID of c, or a fresh UUID when the
// request-ID middleware did not run.
func GetRequestID(c echo.Context) string {
	if id := echoString(c, KeyRequestID); id != "" {
		return id
	}

	return uuid.New().String()
}

// SetRequestID sets the request ID in echo.Context.
func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(KeyRequestID), requestID)
}

// SetClientID stores the client namespace resolved from the client token.
func SetClientID(c echo.Context, clientID string) {
	c.Set(string(KeyClientID), clientID)
}

// GetClientID returns the client namespace set by the client token middleware.
func GetClientID(c echo.Context) (string, bool) {
	id := echoString(c, KeyClientID)

	return id, id != ""
}

// GetRequestIDFromContext returns "" when ctx carries no request ID.
func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)

	return id
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// GetLoggerOrDefault returns the request-scoped logger, or fallback outside a request.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, KeyLogger, logger)
}
