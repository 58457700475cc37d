package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
)

type stubProtocolService struct {
	initializeFn func(ctx context.Context, actor string) error
	toggleFn     func(ctx context.Context, actor string) (bool, error)
	statusFn     func(ctx context.Context) (*domain.Protocol, error)
}

func (s *stubProtocolService) Initialize(ctx context.Context, actor string) error {
	return s.initializeFn(ctx, actor)
}

func (s *stubProtocolService) ToggleLock(ctx context.Context, actor string) (bool, error) {
	return s.toggleFn(ctx, actor)
}

func (s *stubProtocolService) Status(ctx context.Context) (*domain.Protocol, error) {
	return s.statusFn(ctx)
}

func TestProtocolHandler_Initialize(t *testing.T) {
	e := newTestEcho()
	stub := &stubProtocolService{
		initializeFn: func(ctx context.Context, actor string) error {
			if actor != "multisig-key" {
				t.Fatalf("unexpected actor: %s", actor)
			}
			return nil
		},
	}
	handler := NewProtocolHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/protocol", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor", "multisig-key")

	if err := handler.Initialize(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["locked"] != true {
		t.Fatalf("expected locked=true in response, got %+v", resp)
	}
}

func TestProtocolHandler_Initialize_MissingActor(t *testing.T) {
	e := newTestEcho()
	stub := &stubProtocolService{
		initializeFn: func(ctx context.Context, actor string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewProtocolHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/protocol", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// No actor injected: the token carried no identity.

	err := handler.Initialize(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestProtocolHandler_Toggle(t *testing.T) {
	e := newTestEcho()
	stub := &stubProtocolService{
		toggleFn: func(ctx context.Context, actor string) (bool, error) {
			return false, nil
		},
	}
	handler := NewProtocolHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/protocol/toggle", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor", "multisig-key")

	if err := handler.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["locked"] != false {
		t.Fatalf("expected locked=false in response, got %+v", resp)
	}
}

func TestProtocolHandler_Toggle_Unauthorized(t *testing.T) {
	e := newTestEcho()
	stub := &stubProtocolService{
		toggleFn: func(ctx context.Context, actor string) (bool, error) {
			return false, domain.ErrUnauthorized
		},
	}
	handler := NewProtocolHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/v1/protocol/toggle", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("actor", "stranger-key")

	if err := handler.Toggle(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestProtocolHandler_Status(t *testing.T) {
	e := newTestEcho()
	stub := &stubProtocolService{
		statusFn: func(ctx context.Context) (*domain.Protocol, error) {
			return &domain.Protocol{Locked: true}, nil
		},
	}
	handler := NewProtocolHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/protocol", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Status(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
