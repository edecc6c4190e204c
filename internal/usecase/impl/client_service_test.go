package impl

import (
	"context"
	"testing"

	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/infra/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientService_StartSessionAndResolve(t *testing.T) {
	cfg := newTestConfig()
	cfg.SecretKey.Access = "test-secret"

	tokens, err := auth.NewClientTokenService(cfg)
	require.NoError(t, err)

	srv := NewClientService(ClientServiceParams{TokenService: tokens, Logger: newDiscardLogger()})

	session, err := srv.StartSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.False(t, session.ExpiresAt.IsZero())

	namespace, err := srv.ResolveClient(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ClientID.String(), namespace)

	_, err = srv.ResolveClient(context.Background(), session.Token+"x")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidClientToken)

	_, err = srv.ResolveClient(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidClientToken)
}
