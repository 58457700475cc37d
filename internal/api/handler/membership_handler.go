package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// MembershipHandler enrolls customers and exposes credential reads.
type MembershipHandler struct {
	service ports.MembershipService
}

func NewMembershipHandler(service ports.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

type enrollRequest struct {
	CustomerKey string `json:"customer_key" validate:"required"`
	ID          string `json:"id"           validate:"required"`
	MetadataURI string `json:"metadata_uri"`
}

// Enroll handles POST /v1/restaurants/:ref/customers.
//
// @Summary      Enroll a customer (restaurant admin only)
// @Tags         membership
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ref   path      string         true  "Restaurant reference"
// @Param        body  body      enrollRequest  true  "Customer details"
// @Success      201   {object}  ports.CredentialView
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/restaurants/{ref}/customers [post]
func (h *MembershipHandler) Enroll(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.Enroll(c.Request().Context(), actor, c.Param("ref"), ports.EnrollCustomerInput{
		CustomerKey: req.CustomerKey,
		ID:          req.ID,
		MetadataURI: req.MetadataURI,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// GetCredential handles GET /v1/restaurants/:ref/customers/:key/credential.
func (h *MembershipHandler) GetCredential(c echo.Context) error {
	view, err := h.service.GetCredential(c.Request().Context(), c.Param("key"), c.Param("ref"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
