package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClientSession identifies one client state namespace.
type ClientSession struct {
	ClientID  uuid.UUID
	Token     string
	ExpiresAt time.Time
}

// ClientUsecase hands out and resolves client tokens.
type ClientUsecase interface {
	// StartSession creates a fresh namespace and signs a token naming it.
	StartSession(ctx context.Context) (*ClientSession, error)

	// ResolveClient returns the namespace named by a token.
	ResolveClient(ctx context.Context, token string) (string, error)
}
