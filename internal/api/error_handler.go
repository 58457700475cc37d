package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
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
	case errors.Is(err, domain.ErrProtocolLocked):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, "not authorized"
	case errors.Is(err, domain.ErrInstructionsNotCorrect):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrOrderNotTerminal),
		errors.Is(err, domain.ErrInsufficientPoints),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidBalancePreMint),
		errors.Is(err, domain.ErrInvalidBalancePostMint):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrProtocolNotInitialized),
		errors.Is(err, domain.ErrCapabilityNotFound),
		errors.Is(err, domain.ErrRestaurantNotFound),
		errors.Is(err, domain.ErrInventoryNotFound),
		errors.Is(err, domain.ErrMenuItemNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrCredentialNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrRewardNotFound),
		errors.Is(err, domain.ErrMintNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, domain.ErrProtocolExists),
		errors.Is(err, domain.ErrCapabilityExists),
		errors.Is(err, domain.ErrRestaurantExists),
		errors.Is(err, domain.ErrInventoryExists),
		errors.Is(err, domain.ErrMenuItemExists),
		errors.Is(err, domain.ErrCustomerExists),
		errors.Is(err, domain.ErrOrderExists),
		errors.Is(err, domain.ErrRewardExists),
		errors.Is(err, domain.ErrMintExists),
		errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
