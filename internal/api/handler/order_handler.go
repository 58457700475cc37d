package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// OrderHandler drives the order lifecycle over HTTP.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type placeOrderRequest struct {
	OrderRef string   `json:"order_ref" validate:"required"`
	Items    []string `json:"items"     validate:"required,min=1"`
	Total    float64  `json:"total"     validate:"gt=0"`
}

type placeOrderResponse struct {
	OrderRef     string `json:"order_ref"`
	Status       int    `json:"status"`
	Total        float64 `json:"total"`
	PointsEarned uint64 `json:"points_earned"`
	PointBalance uint64 `json:"point_balance"`
	CreatedAt    int64  `json:"created_at"`
}

type updateOrderStatusRequest struct {
	Status *int `json:"status" validate:"required"`
}

type orderResponse struct {
	OrderRef      string   `json:"order_ref"`
	RestaurantRef string   `json:"restaurant_ref"`
	CustomerKey   string   `json:"customer_key"`
	Items         []string `json:"items"`
	Total         float64  `json:"total"`
	Status        int      `json:"status"`
	CreatedAt     int64    `json:"created_at"`
	UpdatedAt     int64    `json:"updated_at"`
}

// Place handles POST /v1/restaurants/:ref/orders. The authenticated actor is
// the ordering customer.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ref   path      string             true  "Restaurant reference"
// @Param        body  body      placeOrderRequest  true  "Order details"
// @Success      201   {object}  placeOrderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/restaurants/{ref}/orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.Place(c.Request().Context(), actor, c.Param("ref"), ports.PlaceOrderInput{
		OrderRef: req.OrderRef,
		Items:    req.Items,
		Total:    req.Total,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, placeOrderResponse{
		OrderRef:     result.OrderRef,
		Status:       int(result.Status),
		Total:        result.Total,
		PointsEarned: result.PointsEarned,
		PointBalance: result.PointBalance,
		CreatedAt:    result.CreatedAt,
	})
}

// UpdateStatus handles PATCH /v1/restaurants/:ref/orders/:order/status.
// Employee or scoped-admin only; the state machine rejects illegal jumps.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Status == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "status is required")
	}

	order, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("ref"), c.Param("order"),
		domain.OrderStatus(*req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /v1/restaurants/:ref/orders/:order/cancel. Only the
// order's own customer may cancel, and only while pending.
func (h *OrderHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	order, err := h.service.Cancel(c.Request().Context(), actor, c.Param("ref"), c.Param("order"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Close handles DELETE /v1/restaurants/:ref/orders/:order. Removes a
// terminal order record.
func (h *OrderHandler) Close(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Close(c.Request().Context(), actor, c.Param("ref"), c.Param("order")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/restaurants/:ref/orders/:order.
func (h *OrderHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	order, err := h.service.Get(c.Request().Context(), actor, c.Param("ref"), c.Param("order"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(o *domain.CustomerOrder) orderResponse {
	return orderResponse{
		OrderRef:      o.OrderID,
		RestaurantRef: o.RestaurantRef,
		CustomerKey:   o.CustomerKey,
		Items:         o.Items,
		Total:         o.Total,
		Status:        int(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
