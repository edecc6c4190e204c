package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/service"

	"github.com/pkg/errors"
)

const localPublishTimeout = 10 * time.Second

// localHTTPPublisher posts events straight to a state worker's /push endpoint
// so development runs without a Pub/Sub emulator.
type localHTTPPublisher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: localPublishTimeout},
		logger:   logger,
	}
}

func (p *localHTTPPublisher) PublishStateChange(ctx context.Context, event *service.StateChangeEvent) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	body, err := json.Marshal(newPushMessage(event, data, time.Now()))
	if err != nil {
		return errors.WithStack(err)
	}

	if err := p.post(ctx, body, event.RequestID); err != nil {
		return err
	}

	p.logger.Debug("[LocalPubSub] State change pushed",
		slog.String("endpoint", p.endpoint),
		slog.String("event_id", event.EventID),
		slog.String("collection", event.Collection),
	)

	return nil
}

// post treats any non-2xx reply as a failed delivery, like a push subscription would.
func (p *localHTTPPublisher) post(ctx context.Context, body []byte, requestID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return errors.Errorf("state worker rejected push: status %d", resp.StatusCode)
	}

	return nil
}

func (p *localHTTPPublisher) Close() error {
	return nil
}
