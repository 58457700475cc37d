package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// ProtocolHandler exposes the global kill switch.
type ProtocolHandler struct {
	service ports.ProtocolService
}

func NewProtocolHandler(service ports.ProtocolService) *ProtocolHandler {
	return &ProtocolHandler{service: service}
}

type protocolResponse struct {
	Locked bool `json:"locked"`
}

// Initialize handles POST /v1/protocol. The record is created locked.
//
// @Summary      Initialize the protocol (multisig only)
// @Tags         protocol
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  protocolResponse
// @Failure      403  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/protocol [post]
func (h *ProtocolHandler) Initialize(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Initialize(c.Request().Context(), actor); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, protocolResponse{Locked: true})
}

// Toggle handles POST /v1/protocol/toggle, flipping the gate.
//
// @Summary      Toggle the protocol lock (multisig only)
// @Tags         protocol
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  protocolResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/protocol/toggle [post]
func (h *ProtocolHandler) Toggle(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	locked, err := h.service.ToggleLock(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protocolResponse{Locked: locked})
}

// Status handles GET /v1/protocol.
//
// @Summary      Read the protocol lock state
// @Tags         protocol
// @Produce      json
// @Success      200  {object}  protocolResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/protocol [get]
func (h *ProtocolHandler) Status(c echo.Context) error {
	p, err := h.service.Status(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, protocolResponse{Locked: p.Locked})
}
