package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"keystore/internal/domain/constants"
	"keystore/internal/domain/service"

	"github.com/pkg/errors"
)

const localSubscription = "projects/local/subscriptions/state-changes"

// PushMessage is the body Pub/Sub POSTs to a push subscription endpoint. The
// state worker decodes it; the local publisher fakes it.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// encodeEvent is the message payload shared by every publisher. Events
// without a timestamp are stamped with the publish time.
func encodeEvent(event *service.StateChangeEvent) ([]byte, error) {
	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(event)

	return data, errors.WithStack(err)
}

// messageAttributes are the routing attributes set on every published message
func messageAttributes(event *service.StateChangeEvent) map[string]string {
	attributes := map[string]string{
		constants.AttrEventID:    event.EventID,
		constants.AttrNamespace:  event.Namespace,
		constants.AttrCollection: event.Collection,
	}
	if event.RequestID != "" {
		attributes[constants.AttrRequestID] = event.RequestID
	}

	return attributes
}

// newPushMessage wraps an encoded event the way a push subscription delivers it.
func newPushMessage(event *service.StateChangeEvent, data []byte, publishedAt time.Time) PushMessage {
	msg := PushMessage{Subscription: localSubscription}
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.MessageID = event.EventID
	msg.Message.PublishTime = publishedAt.UTC().Format(time.RFC3339)
	msg.Message.Attributes = messageAttributes(event)

	return msg
}
