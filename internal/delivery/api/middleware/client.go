package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "keystore/internal/delivery/context"
	domainerrors "keystore/internal/domain/errors"
	"keystore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// ClientMiddlewareParams holds dependencies for ClientMiddleware, injected by Fx.
type ClientMiddlewareParams struct {
	fx.In

	ClientUC  usecase.ClientUsecase
	SessionUC usecase.SessionUsecase
	Logger    *slog.Logger
}

// ClientMiddleware resolves the client namespace from the client token and
// gates routes that need a logged-in user.
type ClientMiddleware struct {
	clientUC  usecase.ClientUsecase
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewClientMiddleware is the constructor for ClientMiddleware.
func NewClientMiddleware(params ClientMiddlewareParams) *ClientMiddleware {
	return &ClientMiddleware{
		clientUC:  params.ClientUC,
		sessionUC: params.SessionUC,
		logger:    params.Logger,
	}
}

// Authenticate requires a valid client token and stores its namespace on the context.
func (m *ClientMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			return errors.WithStack(domainerrors.ErrInvalidClientToken)
		}

		ctx := c.Request().Context()
		clientID, err := m.clientUC.ResolveClient(ctx, strings.TrimSpace(token))
		if err != nil {
			return err
		}

		deliverycontext.SetClientID(c, clientID)

		logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger).With(slog.String("client_id", clientID))
		c.SetRequest(c.Request().WithContext(deliverycontext.WithLogger(ctx, logger)))

		return next(c)
	}
}

// RequireUser rejects guests. It must be used AFTER Authenticate.
func (m *ClientMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		clientID, ok := deliverycontext.GetClientID(c)
		if !ok {
			return errors.WithStack(domainerrors.ErrInvalidClientToken)
		}

		if _, err := m.sessionUC.CurrentUser(c.Request().Context(), clientID); err != nil {
			return err
		}

		return next(c)
	}
}
