package service

import (
	"time"

	"github.com/google/uuid"
)

// ClientTokenService issues and verifies the tokens that name a client's state namespace.
type ClientTokenService interface {
	// IssueClientToken signs a token for clientID and returns it with its expiry.
	IssueClientToken(clientID uuid.UUID) (token string, expiresAt time.Time, err error)

	// ParseClientToken validates a token and returns the client ID it names.
	ParseClientToken(token string) (uuid.UUID, error)
}
