package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Store and token internals never reach the client: anything outside the
// domain taxonomy collapses to a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, domain.ErrUserExists.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, domain.ErrAccountDisabled.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, domain.ErrTooManyAttempts.Error()
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return http.StatusBadRequest, domain.ErrResetTokenInvalid.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrRoleNotFound):
		return http.StatusNotFound, domain.ErrRoleNotFound.Error()
	case errors.Is(err, domain.ErrRoleNotGranted):
		return http.StatusNotFound, domain.ErrRoleNotGranted.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
