package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/constants"
	"keystore/internal/domain/service"
	"keystore/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishStateChange(ctx context.Context, event *service.StateChangeEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestForwarder_PublishesNotifiedChanges(t *testing.T) {
	publisher := new(mockPublisher)
	notifier := state.NewNotifier()

	var (
		mu     sync.Mutex
		events []*service.StateChangeEvent
	)
	publisher.On("PublishStateChange", mock.Anything, mock.AnythingOfType("*service.StateChangeEvent")).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, args.Get(1).(*service.StateChangeEvent))
		}).
		Return(nil)

	f := newForwarder(publisher, notifier, discardLogger())
	require.NoError(t, f.Start(context.Background()))

	ctx := deliverycontext.WithRequestID(context.Background(), "req-1")
	notifier.Notify(ctx, state.Change{Namespace: "client-a", Collection: state.Cart})
	notifier.Notify(ctx, state.Change{Namespace: "client-a", Collection: state.Wishlist})

	require.NoError(t, f.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, "client-a", events[0].Namespace)
	assert.Equal(t, "cart", events[0].Collection)
	assert.Equal(t, "wishlist", events[1].Collection)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.NotEmpty(t, events[0].EventID)
	assert.NotEqual(t, events[0].EventID, events[1].EventID)
	publisher.AssertNumberOfCalls(t, "PublishStateChange", 2)
}

func TestForwarder_PublishErrorsDoNotStopForwarding(t *testing.T) {
	publisher := new(mockPublisher)
	notifier := state.NewNotifier()

	publisher.On("PublishStateChange", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	publisher.On("PublishStateChange", mock.Anything, mock.Anything).Return(nil).Once()

	f := newForwarder(publisher, notifier, discardLogger())
	require.NoError(t, f.Start(context.Background()))

	notifier.Notify(context.Background(), state.Change{Namespace: "a", Collection: state.Cart})
	notifier.Notify(context.Background(), state.Change{Namespace: "a", Collection: state.Cart})

	require.NoError(t, f.Stop(context.Background()))
	publisher.AssertNumberOfCalls(t, "PublishStateChange", 2)
}

func TestForwarder_IgnoresChangesAfterStop(t *testing.T) {
	publisher := new(mockPublisher)
	notifier := state.NewNotifier()

	f := newForwarder(publisher, notifier, discardLogger())
	require.NoError(t, f.Start(context.Background()))
	require.NoError(t, f.Stop(context.Background()))

	notifier.Notify(context.Background(), state.Change{Namespace: "a", Collection: state.Cart})
	f.enqueue(context.Background(), state.Change{Namespace: "a", Collection: state.Cart})

	publisher.AssertNotCalled(t, "PublishStateChange", mock.Anything, mock.Anything)
	assert.NoError(t, f.Stop(context.Background()))
}

func TestLocalHTTPPublisher_PostsPushEnvelope(t *testing.T) {
	var received PushMessage
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get(deliverycontext.HeaderXRequestID)
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	event := &service.StateChangeEvent{
		RequestID:  "req-9",
		EventID:    "evt-1",
		Namespace:  "client-b",
		Collection: "cart",
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	require.NoError(t, publisher.PublishStateChange(context.Background(), event))

	assert.Equal(t, "req-9", header)
	assert.Equal(t, "evt-1", received.Message.MessageID)
	assert.Equal(t, "client-b", received.Message.Attributes[constants.AttrNamespace])
	assert.Equal(t, localSubscription, received.Subscription)

	raw, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var decoded service.StateChangeEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, *event, decoded)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	err := publisher.PublishStateChange(context.Background(), &service.StateChangeEvent{EventID: "e"})
	assert.Error(t, err)
}

func TestNoopPublisher(t *testing.T) {
	p := &noopPublisher{logger: discardLogger()}

	assert.NoError(t, p.PublishStateChange(context.Background(), &service.StateChangeEvent{}))
	assert.NoError(t, p.Close())
}
