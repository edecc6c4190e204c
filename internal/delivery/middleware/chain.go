package middleware

import (
	"log/slog"

	"keystore/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// Base is the chain every keystore HTTP server starts with. The request ID
// middleware runs before the access log so each line carries the ID.
func Base(logger *slog.Logger, cfg *config.Config) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echomiddleware.Recover(),
		NewRequestIDMiddleware(logger).Process,
		NewLoggerMiddleware(logger, cfg).Handle,
	}
}
