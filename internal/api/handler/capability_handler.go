package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// CapabilityHandler manages the admin and employee capability records.
type CapabilityHandler struct {
	service ports.CapabilityService
}

func NewCapabilityHandler(service ports.CapabilityService) *CapabilityHandler {
	return &CapabilityHandler{service: service}
}

type createCapabilityRequest struct {
	OwnerKey string `json:"owner_key" validate:"required"`
	Username string `json:"username"  validate:"required,min=2,max=64"`
}

type capabilityResponse struct {
	OwnerKey      string `json:"owner_key"`
	RestaurantRef string `json:"restaurant_ref,omitempty"`
	Username      string `json:"username"`
}

// CreateAdmin handles POST /v1/admins.
//
// @Summary      Grant a protocol-wide admin capability
// @Tags         capabilities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCapabilityRequest  true  "New admin"
// @Success      201   {object}  capabilityResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admins [post]
func (h *CapabilityHandler) CreateAdmin(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createCapabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	admin, err := h.service.CreateAdmin(c.Request().Context(), actor, req.OwnerKey, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, capabilityResponse{OwnerKey: admin.OwnerKey, Username: admin.Username})
}

// RemoveAdmin handles DELETE /v1/admins/:key.
//
// @Summary      Revoke a protocol-wide admin capability (multisig only)
// @Tags         capabilities
// @Security     BearerAuth
// @Param        key  path  string  true  "Admin owner key"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admins/{key} [delete]
func (h *CapabilityHandler) RemoveAdmin(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveAdmin(c.Request().Context(), actor, c.Param("key")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateRestaurantAdmin handles POST /v1/restaurants/:ref/admins.
func (h *CapabilityHandler) CreateRestaurantAdmin(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createCapabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	admin, err := h.service.CreateRestaurantAdmin(c.Request().Context(), actor, c.Param("ref"), req.OwnerKey, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, capabilityResponse{
		OwnerKey:      admin.OwnerKey,
		RestaurantRef: admin.RestaurantRef,
		Username:      admin.Username,
	})
}

// RemoveRestaurantAdmin handles DELETE /v1/restaurants/:ref/admins/:key.
func (h *CapabilityHandler) RemoveRestaurantAdmin(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveRestaurantAdmin(c.Request().Context(), actor, c.Param("ref"), c.Param("key")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateEmployee handles POST /v1/restaurants/:ref/employees.
func (h *CapabilityHandler) CreateEmployee(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createCapabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	emp, err := h.service.CreateEmployee(c.Request().Context(), actor, c.Param("ref"), req.OwnerKey, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, capabilityResponse{
		OwnerKey:      emp.OwnerKey,
		RestaurantRef: emp.RestaurantRef,
		Username:      emp.Username,
	})
}

// RemoveEmployee handles DELETE /v1/restaurants/:ref/employees/:key.
func (h *CapabilityHandler) RemoveEmployee(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveEmployee(c.Request().Context(), actor, c.Param("ref"), c.Param("key")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
