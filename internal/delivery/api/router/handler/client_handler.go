package handler

import (
	"log/slog"
	"net/http"
	"time"

	"keystore/internal/delivery/api/response"
	"keystore/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ClientHandlerParams holds dependencies for ClientHandler, injected by Fx.
type ClientHandlerParams struct {
	fx.In

	ClientUC   usecase.ClientUsecase
	ActivityUC usecase.ActivityUsecase
	Logger     *slog.Logger
}

// ClientHandler issues client tokens and reports client activity.
type ClientHandler struct {
	clientUC   usecase.ClientUsecase
	activityUC usecase.ActivityUsecase
	logger     *slog.Logger
}

// NewClientHandler is the constructor for ClientHandler.
func NewClientHandler(params ClientHandlerParams) *ClientHandler {
	return &ClientHandler{
		clientUC:   params.ClientUC,
		activityUC: params.ActivityUC,
		logger:     params.Logger,
	}
}

// SessionResponse carries a new client token.
type SessionResponse struct {
	ClientID  string    `json:"clientId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StartSession creates a new client namespace.
func (h *ClientHandler) StartSession(c echo.Context) error {
	session, err := h.clientUC.StartSession(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, SessionResponse{
		ClientID:  session.ClientID.String(),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Activity returns the change summary the state worker keeps for this client.
func (h *ClientHandler) Activity(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	activity, err := h.activityUC.Activity(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, activity)
}
