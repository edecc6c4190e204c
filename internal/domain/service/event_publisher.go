package service

import (
	"context"
)

// StateChangeEvent announces that a client collection was rewritten
type StateChangeEvent struct {
	RequestID  string `json:"request_id,omitempty"` // For distributed tracing
	EventID    string `json:"event_id"`
	Namespace  string `json:"namespace"`
	Collection string `json:"collection"`
	OccurredAt string `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishStateChange publishes a state change for observers outside the process
	PublishStateChange(ctx context.Context, event *StateChangeEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
