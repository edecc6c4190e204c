// Package pubsub publishes client state changes to observers outside the
// storefront process: nowhere, a local push endpoint, or a Google Pub/Sub topic.
package pubsub

import (
	"context"
	"log/slog"

	"keystore/config"
	"keystore/internal/domain/constants"
	"keystore/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// noopPublisher drops every event; used when pubsub.provider is empty
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishStateChange(_ context.Context, event *service.StateChangeEvent) error {
	p.logger.Debug("[NoopPubSub] Event publishing disabled, skipping",
		slog.String("namespace", event.Namespace),
		slog.String("collection", event.Collection),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher creates the configured EventPublisher and closes it on stop
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	publisher, err := newPublisher(params.Ctx, params.Config.PubSub, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing EventPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

func newPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("PubSub not configured, state changes stay in-process")

		return &noopPublisher{logger: logger}, nil
	}

	if err := validatePubSubConfig(cfg); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		logger.Info("Publishing state changes to local push endpoint",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil
	default:
		logger.Info("Publishing state changes to Google Pub/Sub",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)
	}
}

func validatePubSubConfig(cfg *config.PubSubConfig) error {
	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return errors.New("pubsub.localEndpoint is required for the local provider")
		}
	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return errors.New("pubsub.projectId and pubsub.topicId are required for the google provider")
		}
	default:
		return errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}

	return nil
}

// Module provides the publisher and starts the state change forwarder
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher, NewForwarder),
	fx.Invoke(func(*Forwarder) {}),
)
