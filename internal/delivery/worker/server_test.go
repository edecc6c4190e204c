package worker

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"keystore/config"
	"keystore/internal/delivery/worker/handler"
	"keystore/internal/domain/service"
	"keystore/internal/infra/persistence/memory"
	"keystore/internal/infra/pubsub"
	"keystore/internal/state"
	"keystore/internal/usecase"
	"keystore/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestWorker(t *testing.T) (*echo.Echo, usecase.ActivityUsecase) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.Env = "local"
	cfg.ApplyDefaults()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider := state.NewProvider(state.ProviderParams{
		Repo:     memory.NewStateRepository(),
		Notifier: state.NewNotifier(),
		Logger:   logger,
	})
	activityUC := impl.NewActivityService(impl.ActivityServiceParams{Provider: provider, Logger: logger})
	pushHandler := handler.NewPushHandler(handler.PushHandlerParams{Config: cfg, Logger: logger, ActivityUC: activityUC})

	return newEchoServer(cfg, logger, pushHandler), activityUC
}

func push(t *testing.T, e *echo.Echo, event *service.StateChangeEvent) int {
	t.Helper()

	data, err := json.Marshal(event)
	require.NoError(t, err)
	var msg pubsub.PushMessage
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = event.EventID
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec.Code
}

func TestWorker_Health(t *testing.T) {
	e, _ := createTestWorker(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWorker_PushAggregatesActivity(t *testing.T) {
	e, activityUC := createTestWorker(t)

	assert.Equal(t, http.StatusOK, push(t, e, &service.StateChangeEvent{EventID: "e1", Namespace: "c1", Collection: "cart"}))
	assert.Equal(t, http.StatusOK, push(t, e, &service.StateChangeEvent{EventID: "e1", Namespace: "c1", Collection: "cart"}))
	assert.Equal(t, http.StatusOK, push(t, e, &service.StateChangeEvent{EventID: "e2", Namespace: "c1", Collection: "wishlist"}))

	activity, err := activityUC.Activity(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cart": 1, "wishlist": 1}, activity.Changes)
	assert.Equal(t, "e2", activity.LastEventID)
}
