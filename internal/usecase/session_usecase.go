package usecase

import (
	"context"

	"keystore/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Avatar          string
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string
	Password string
}

// SessionUsecase reconciles client state with persisted accounts.
// Every method operates on the namespace named by clientID.
type SessionUsecase interface {
	// Register creates an account and logs it in. The guest cart is adopted.
	Register(ctx context.Context, clientID string, input RegisterInput) (*entity.UserAccount, error)

	// Login merges the guest cart into the account cart and starts the session.
	Login(ctx context.Context, clientID string, input LoginInput) (*entity.UserAccount, error)

	// Logout writes the session back to the account and clears it. Logging out
	// a guest is a no-op.
	Logout(ctx context.Context, clientID string) error

	// SyncUserData forces the session user's mutable fields into the account.
	SyncUserData(ctx context.Context, clientID string) error

	// CurrentUser returns the sanitized session user.
	CurrentUser(ctx context.Context, clientID string) (*entity.UserAccount, error)

	// UpdateSettings replaces the client settings, syncing them when logged in.
	UpdateSettings(ctx context.Context, clientID string, settings entity.Settings) (*entity.Settings, error)
}
