// Package handler contains the HTTP handlers of the storefront API.
package handler

import (
	"net/http"

	"keystore/internal/delivery/api/response"
	"keystore/internal/delivery/api/validator"
	deliverycontext "keystore/internal/delivery/context"
	domainerrors "keystore/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// clientID returns the namespace resolved by the client middleware.
func clientID(c echo.Context) (string, error) {
	id, ok := deliverycontext.GetClientID(c)
	if !ok {
		return "", errors.WithStack(domainerrors.ErrInvalidClientToken)
	}

	return id, nil
}

// bindAndValidate binds the request body into req and runs struct validation.
// On failure the error response has already been written and handled is true.
func bindAndValidate(c echo.Context, req any, bindMessage string) (handled bool, err error) {
	if err := c.Bind(req); err != nil {
		return true, response.BadRequest(c, "INVALID_INPUT", bindMessage)
	}

	if err := c.Validate(req); err != nil {
		if fields := validator.FieldErrors(err); fields != nil {
			return true, response.ValidationError(c, fields)
		}

		return true, response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	return false, nil
}
