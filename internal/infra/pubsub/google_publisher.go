package pubsub

import (
	"context"
	"fmt"
	"log/slog"

	"keystore/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePubSubPublisher publishes state changes to a Cloud Pub/Sub topic,
// ordered per namespace.
type googlePubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	logger    *slog.Logger
}

func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := ensureTopic(ctx, client, projectID, topicID); err != nil {
		client.Close()

		return nil, err
	}

	publisher := client.Publisher(topicID)
	// A subscriber must never apply an older cart write after a newer one.
	publisher.EnableMessageOrdering = true

	logger.Info("Google Pub/Sub publisher initialized",
		slog.String("project_id", projectID),
		slog.String("topic_id", topicID),
	)

	return &googlePubSubPublisher{client: client, publisher: publisher, logger: logger}, nil
}

// ensureTopic fails startup early when the topic is missing or not visible to
// the service account.
func ensureTopic(ctx context.Context, client *pubsub.Client, projectID, topicID string) error {
	name := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: name}); err != nil {
		return errors.Wrapf(err, "topic %s is not reachable", name)
	}

	return nil
}

func (p *googlePubSubPublisher) PublishStateChange(ctx context.Context, event *service.StateChangeEvent) error {
	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	serverID, err := p.publisher.Publish(ctx, &pubsub.Message{
		Data:        data,
		Attributes:  messageAttributes(event),
		OrderingKey: event.Namespace,
	}).Get(ctx)
	if err != nil {
		// An ordering key stays paused after a failure until resumed.
		p.publisher.ResumePublish(event.Namespace)

		return errors.Wrapf(err, "publish %s/%s", event.Namespace, event.Collection)
	}

	p.logger.Debug("[GooglePubSub] State change published",
		slog.String("event_id", event.EventID),
		slog.String("collection", event.Collection),
		slog.String("server_id", serverID),
	)

	return nil
}

func (p *googlePubSubPublisher) Close() error {
	if p.publisher != nil {
		p.publisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
