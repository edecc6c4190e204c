package pubsub

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/domain/lifecycle"
	"keystore/internal/domain/service"
	"keystore/internal/state"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const forwarderBufferSize = 256

// Forwarder publishes every state store write as a StateChangeEvent. Writes
// never wait on the broker: events are queued and published by one goroutine,
// and dropped with a warning when the queue is full.
type Forwarder struct {
	publisher service.EventPublisher
	notifier  *state.Notifier
	logger    *slog.Logger

	mu          sync.Mutex
	closed      bool
	events      chan *service.StateChangeEvent
	done        chan struct{}
	unsubscribe func()
}

// ForwarderParams holds dependencies for Forwarder, injected by Fx
type ForwarderParams struct {
	fx.In

	Lc        fx.Lifecycle
	Publisher service.EventPublisher
	Notifier  *state.Notifier
	Logger    *slog.Logger
}

// NewForwarder creates a Forwarder and ties it to the application lifecycle
func NewForwarder(params ForwarderParams) *Forwarder {
	f := newForwarder(params.Publisher, params.Notifier, params.Logger)

	params.Lc.Append(fx.Hook{
		OnStart: f.Start,
		OnStop:  f.Stop,
	})

	return f
}

func newForwarder(publisher service.EventPublisher, notifier *state.Notifier, logger *slog.Logger) *Forwarder {
	return &Forwarder{
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		events:    make(chan *service.StateChangeEvent, forwarderBufferSize),
		done:      make(chan struct{}),
	}
}

// Start subscribes to the notifier and begins publishing
func (f *Forwarder) Start(_ context.Context) error {
	f.unsubscribe = f.notifier.Subscribe(f.enqueue)
	go f.run()

	return nil
}

// Stop unsubscribes and drains the queue before returning
func (f *Forwarder) Stop(ctx context.Context) error {
	if f.unsubscribe != nil {
		f.unsubscribe()
	}

	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	f.mu.Unlock()

	select {
	case <-f.done:
	case <-ctx.Done():
		f.logger.Warn("State change forwarder stopped before draining")
	}

	return nil
}

func (f *Forwarder) enqueue(ctx context.Context, change state.Change) {
	event := &service.StateChangeEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventID:    uuid.NewString(),
		Namespace:  change.Namespace,
		Collection: string(change.Collection),
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	select {
	case f.events <- event:
	default:
		deliverycontext.GetLoggerOrDefault(ctx, f.logger).Warn("Dropping state change event, queue full",
			slog.String("namespace", event.Namespace),
			slog.String("collection", event.Collection),
		)
	}
}

func (f *Forwarder) run() {
	defer close(f.done)

	for event := range f.events {
		ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		if event.RequestID != "" {
			ctx = deliverycontext.WithRequestID(ctx, event.RequestID)
		}

		if err := f.publisher.PublishStateChange(ctx, event); err != nil {
			f.logger.Error("Failed to publish state change",
				slog.String("request_id", event.RequestID),
				slog.String("event_id", event.EventID),
				slog.String("collection", event.Collection),
				slog.Any("error", err),
			)
		}
		cancel()
	}
}
