package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"keystore/config"
	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/constants"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/service"
	"keystore/internal/infra/pubsub"
	"keystore/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// PushHandler folds pushed state-change events into per-client activity.
//
// The status code is the ack: 2xx acknowledges the message, 503 asks Pub/Sub
// to redeliver it. Only storage failures are worth a redelivery; an event the
// activity usecase rejects will be rejected again, so it is acknowledged.
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	activityUC     usecase.ActivityUsecase
}

type PushHandlerParams struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	ActivityUC usecase.ActivityUsecase
}

func NewPushHandler(params PushHandlerParams) *PushHandler {
	// The local publisher posts without credentials.
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		activityUC:     params.ActivityUC,
	}
}

func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			logger.Warn("[Worker] Rejected unauthenticated push", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		logger.Error("[Worker] Malformed push envelope", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := decodeEvent(&pushMsg)
	if err != nil {
		logger.Error("[Worker] Malformed state change event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, event)
	logger = h.logger.With(slog.String(constants.AttrRequestID, requestID))
	ctx = deliverycontext.WithLogger(deliverycontext.WithRequestID(ctx, requestID), logger)

	activity, err := h.activityUC.RecordChange(ctx, event)
	if err != nil {
		retry := isRetryable(err)
		logger.Error("[Worker] Failed to record state change",
			slog.String("event_id", event.EventID),
			slog.String("namespace", event.Namespace),
			slog.Bool("retry", retry),
			slog.Any("error", err),
		)
		if retry {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	logger.Debug("[Worker] Activity updated",
		slog.String("event_id", event.EventID),
		slog.String("namespace", activity.Namespace),
		slog.String("collection", event.Collection),
		slog.Int("collections", len(activity.Changes)),
	)

	return c.NoContent(http.StatusOK)
}

// decodeEvent unpacks the base64 payload. Events published before EventID was
// stamped fall back to the Pub/Sub message ID, which is stable across redeliveries.
func decodeEvent(pushMsg *pubsub.PushMessage) (*service.StateChangeEvent, error) {
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "message data is not base64")
	}

	var event service.StateChangeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "message data is not a state change event")
	}
	if event.EventID == "" {
		event.EventID = pushMsg.Message.MessageID
	}

	return &event, nil
}

// extractRequestID keeps the storefront request's ID across the hop to the
// worker: message attribute, then event body, then the push request itself.
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *pubsub.PushMessage, event *service.StateChangeEvent) string {
	for _, id := range []string{
		pushMsg.Message.Attributes[constants.AttrRequestID],
		event.RequestID,
		deliverycontext.GetRequestIDFromContext(ctx),
	} {
		if id != "" {
			return id
		}
	}

	return uuid.New().String()
}

func isRetryable(err error) bool {
	var storageErr *domainerrors.StorageExecuteError

	return errors.As(err, &storageErr)
}

// verifyPubSubToken validates the Google-signed OIDC token on authenticated
// push subscriptions. The audience is the push endpoint URL.
func verifyPubSubToken(req *http.Request) error {
	token, ok := strings.CutPrefix(req.Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !ok || token == "" {
		return errors.New("missing bearer token")
	}

	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}

	payload, err := idtoken.Validate(req.Context(), token, scheme+"://"+req.Host+req.URL.Path)
	if err != nil {
		return errors.Wrap(err, "invalid push token")
	}
	if !googleIssuers[payload.Issuer] {
		return errors.Errorf("unexpected issuer %q", payload.Issuer)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return errors.New("push service account email not verified")
	}

	return nil
}
