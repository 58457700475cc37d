package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// RestaurantHandler manages tenant records.
type RestaurantHandler struct {
	service ports.RestaurantService
}

func NewRestaurantHandler(service ports.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

type createRestaurantRequest struct {
	Reference        string `json:"reference" validate:"required,min=2,max=64"`
	Name             string `json:"name"      validate:"required"`
	Symbol           string `json:"symbol"    validate:"required,max=16"`
	URL              string `json:"url"`
	OwnerKey         string `json:"owner_key" validate:"required"`
	CurrencyDecimals int    `json:"currency_decimals" validate:"gte=0,max=12"`
}

type restaurantResponse struct {
	Reference     string `json:"reference"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	URL           string `json:"url,omitempty"`
	OwnerKey      string `json:"owner_key"`
	CustomerCount int64  `json:"customer_count"`
}

// Create handles POST /v1/restaurants.
//
// @Summary      Register a restaurant tenant (protocol admin only)
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRestaurantRequest  true  "Restaurant details"
// @Success      201   {object}  restaurantResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/restaurants [post]
func (h *RestaurantHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	restaurant, err := h.service.Create(c.Request().Context(), actor, ports.CreateRestaurantInput{
		Reference:        req.Reference,
		Name:             req.Name,
		Symbol:           req.Symbol,
		URL:              req.URL,
		OwnerKey:         req.OwnerKey,
		CurrencyDecimals: req.CurrencyDecimals,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRestaurantResponse(restaurant))
}

// Close handles DELETE /v1/restaurants/:ref.
func (h *RestaurantHandler) Close(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Close(c.Request().Context(), actor, c.Param("ref")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/restaurants/:ref. Public read.
func (h *RestaurantHandler) Get(c echo.Context) error {
	restaurant, err := h.service.Get(c.Request().Context(), c.Param("ref"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRestaurantResponse(restaurant))
}

func toRestaurantResponse(r *domain.Restaurant) restaurantResponse {
	return restaurantResponse{
		Reference:     r.Reference,
		Name:          r.Name,
		Symbol:        r.Symbol,
		URL:           r.URL,
		OwnerKey:      r.OwnerKey,
		CustomerCount: r.CustomerCount,
	}
}
