package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"keystore/config"
	deliverycontext "keystore/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestEcho(t *testing.T, debug bool) (*echo.Echo, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	e := echo.New()
	e.Use(NewRequestIDMiddleware(logger).Process)
	e.Use(NewLoggerMiddleware(logger, cfg).Handle)
	e.GET("/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, deliverycontext.GetRequestIDFromContext(c.Request().Context()))
	})
	e.GET("/missing", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	return e, &buf
}

func TestRequestIDMiddleware_ReusesWellFormedHeader(t *testing.T) {
	e, _ := createTestEcho(t, false)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(deliverycontext.HeaderXRequestID, "  req-42  ")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, "req-42", rec.Body.String())
}

func TestRequestIDMiddleware_ReplacesMalformedHeader(t *testing.T) {
	e, _ := createTestEcho(t, false)

	for _, bad := range []string{"has space", strings.Repeat("x", maxRequestIDLength+1), "tab\there"} {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(deliverycontext.HeaderXRequestID, bad)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		got := rec.Header().Get(deliverycontext.HeaderXRequestID)
		assert.NotEqual(t, strings.TrimSpace(bad), got)
		assert.Len(t, got, 36)
	}
}

func TestLoggerMiddleware_LogsFailuresOnly(t *testing.T) {
	e, buf := createTestEcho(t, false)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, buf.String(), `"status":404`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"request_id"`)
}

func TestLoggerMiddleware_DebugLogsEverything(t *testing.T) {
	e, buf := createTestEcho(t, true)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"route":"/ok"`)
}

func TestStatusLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, statusLevel(http.StatusOK))
	assert.Equal(t, slog.LevelWarn, statusLevel(http.StatusConflict))
	assert.Equal(t, slog.LevelError, statusLevel(http.StatusServiceUnavailable))
}
