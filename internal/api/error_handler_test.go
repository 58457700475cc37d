package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

func TestHTTPErrorHandlerMapping(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"protocol locked", domain.ErrProtocolLocked, http.StatusServiceUnavailable},
		{"unauthorized", domain.ErrUnauthorized, http.StatusForbidden},
		{"bad grant", domain.ErrInstructionsNotCorrect, http.StatusForbidden},
		{"invalid transition", domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"not terminal", domain.ErrOrderNotTerminal, http.StatusUnprocessableEntity},
		{"insufficient points", domain.ErrInsufficientPoints, http.StatusUnprocessableEntity},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"dirty pre-mint balance", domain.ErrInvalidBalancePreMint, http.StatusUnprocessableEntity},
		{"order not found", domain.ErrOrderNotFound, http.StatusNotFound},
		{"restaurant not found", domain.ErrRestaurantNotFound, http.StatusNotFound},
		{"protocol uninitialized", domain.ErrProtocolNotInitialized, http.StatusNotFound},
		{"customer exists", domain.ErrCustomerExists, http.StatusConflict},
		{"protocol exists", domain.ErrProtocolExists, http.StatusConflict},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"wrapped domain error", fmt.Errorf("place order: %w", domain.ErrOrderExists), http.StatusConflict},
		{"echo error passthrough", echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json body: %v", err)
			}
			if body["error"] == "" {
				t.Fatal("error envelope missing message")
			}
		})
	}
}

func TestHTTPErrorHandlerHidesInternalDetails(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("mongo: connection refused at 10.0.0.3"), c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal detail leaked to client: %q", body["error"])
	}
}
