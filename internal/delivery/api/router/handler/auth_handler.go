package handler

import (
	"log/slog"
	"net/http"

	"keystore/internal/delivery/api/response"
	"keystore/internal/domain/entity"
	"keystore/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	SessionUC usecase.SessionUsecase
	Logger    *slog.Logger
}

// AuthHandler exposes login, registration and account settings.
type AuthHandler struct {
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		sessionUC: params.SessionUC,
		logger:    params.Logger,
	}
}

// RegisterRequest is the registration form. Password rules are checked by the use case.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Avatar          string `json:"avatar" validate:"omitempty,max=512"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SettingsRequest replaces the account settings.
type SettingsRequest struct {
	Notifications bool `json:"notifications"`
	Newsletter    bool `json:"newsletter"`
	DarkMode      bool `json:"darkMode"`
}

// Register creates an account and logs it in on this client.
func (h *AuthHandler) Register(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	var req RegisterRequest
	if handled, err := bindAndValidate(c, &req, "Invalid registration input"); handled {
		return err
	}

	user, err := h.sessionUC.Register(c.Request().Context(), id, usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Avatar:          req.Avatar,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, user)
}

// Login starts a session on this client.
func (h *AuthHandler) Login(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	var req LoginRequest
	if handled, err := bindAndValidate(c, &req, "Invalid login input"); handled {
		return err
	}

	user, err := h.sessionUC.Login(c.Request().Context(), id, usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// Logout ends the session on this client.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	if err := h.sessionUC.Logout(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Sync writes the session back to the account.
func (h *AuthHandler) Sync(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	if err := h.sessionUC.SyncUserData(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Account synced"})
}

// Me returns the logged-in user.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	user, err := h.sessionUC.CurrentUser(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, user)
}

// UpdateSettings replaces the client settings.
func (h *AuthHandler) UpdateSettings(c echo.Context) error {
	id, err := clientID(c)
	if err != nil {
		return err
	}

	var req SettingsRequest
	if handled, err := bindAndValidate(c, &req, "Invalid settings input"); handled {
		return err
	}

	settings, err := h.sessionUC.UpdateSettings(c.Request().Context(), id, entity.Settings{
		Notifications: req.Notifications,
		Newsletter:    req.Newsletter,
		DarkMode:      req.DarkMode,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, settings)
}
