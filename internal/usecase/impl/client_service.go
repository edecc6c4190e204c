package impl

import (
	"context"
	"log/slog"

	deliverycontext "keystore/internal/delivery/context"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/domain/service"
	"keystore/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// clientService implements the ClientUsecase interface.
type clientService struct {
	tokenService service.ClientTokenService
	logger       *slog.Logger
}

// ClientServiceParams holds dependencies for ClientService, injected by Fx.
type ClientServiceParams struct {
	fx.In

	TokenService service.ClientTokenService
	Logger       *slog.Logger
}

// NewClientService is the constructor for clientService.
func NewClientService(params ClientServiceParams) usecase.ClientUsecase {
	return &clientService{
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// StartSession issues a token for a new client namespace.
func (srv *clientService) StartSession(ctx context.Context) (*usecase.ClientSession, error) {
	clientID := uuid.New()

	token, expiresAt, err := srv.tokenService.IssueClientToken(clientID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Client session started",
		slog.String("client_id", clientID.String()),
	)

	return &usecase.ClientSession{
		ClientID:  clientID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveClient verifies the token and returns its namespace.
func (srv *clientService) ResolveClient(ctx context.Context, token string) (string, error) {
	clientID, err := srv.tokenService.ParseClientToken(token)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Rejected client token", slog.Any("error", err))

		return "", errors.WithStack(domainerrors.ErrInvalidClientToken)
	}

	return clientID.String(), nil
}
