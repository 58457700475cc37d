package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// CatalogHandler manages inventory and menu records for one restaurant.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type inventoryRequest struct {
	SKU      string  `json:"sku"      validate:"required"`
	Category string  `json:"category" validate:"required"`
	Name     string  `json:"name"     validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Stock    float64 `json:"stock"    validate:"gte=0"`
}

type inventoryResponse struct {
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     float64 `json:"stock"`
	LastOrder int64   `json:"last_order"`
}

type menuItemRequest struct {
	SKU         string   `json:"sku"      validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Name        string   `json:"name"     validate:"required"`
	Price       float64  `json:"price"    validate:"gte=0"`
	Ingredients []string `json:"ingredients"`
	Active      bool     `json:"active"`
}

type menuItemActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type menuItemResponse struct {
	SKU         string   `json:"sku"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Ingredients []string `json:"ingredients"`
	Active      bool     `json:"active"`
}

// AddInventory handles POST /v1/restaurants/:ref/inventory.
func (h *CatalogHandler) AddInventory(c echo.Context) error {
	actor, req, err := bindInventory(c)
	if err != nil {
		return err
	}

	item, err := h.service.AddInventory(c.Request().Context(), actor, c.Param("ref"), toInventoryInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toInventoryResponse(item))
}

// UpdateInventory handles PUT /v1/restaurants/:ref/inventory/:sku. Full
// replace: every field comes from the request, only last_order survives.
func (h *CatalogHandler) UpdateInventory(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req inventoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// The SKU is addressed by the path, not the body.
	req.SKU = c.Param("sku")
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.UpdateInventory(c.Request().Context(), actor, c.Param("ref"), toInventoryInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInventoryResponse(item))
}

// RemoveInventory handles DELETE /v1/restaurants/:ref/inventory/:sku.
func (h *CatalogHandler) RemoveInventory(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveInventory(c.Request().Context(), actor, c.Param("ref"), c.Param("sku")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddMenuItem handles POST /v1/restaurants/:ref/menu.
func (h *CatalogHandler) AddMenuItem(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.AddMenuItem(c.Request().Context(), actor, c.Param("ref"), ports.MenuItemInput{
		SKU:         req.SKU,
		Category:    req.Category,
		Name:        req.Name,
		Price:       req.Price,
		Ingredients: req.Ingredients,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMenuItemResponse(item))
}

// SetMenuItemActive handles PATCH /v1/restaurants/:ref/menu/:sku/active.
// Single-field mutation: only the flag changes, never the rest of the record.
func (h *CatalogHandler) SetMenuItemActive(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req menuItemActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Active == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "active is required")
	}

	if err := h.service.SetMenuItemActive(c.Request().Context(), actor, c.Param("ref"), c.Param("sku"), *req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveMenuItem handles DELETE /v1/restaurants/:ref/menu/:sku.
func (h *CatalogHandler) RemoveMenuItem(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveMenuItem(c.Request().Context(), actor, c.Param("ref"), c.Param("sku")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMenu handles GET /v1/restaurants/:ref/menu. Public read of active items.
func (h *CatalogHandler) ListMenu(c echo.Context) error {
	items, err := h.service.ListMenu(c.Request().Context(), c.Param("ref"))
	if err != nil {
		return err
	}

	resp := make([]menuItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toMenuItemResponse(item))
	}
	return c.JSON(http.StatusOK, resp)
}

func bindInventory(c echo.Context) (string, inventoryRequest, error) {
	actor, err := ctxActor(c)
	if err != nil {
		return "", inventoryRequest{}, err
	}

	var req inventoryRequest
	if err := c.Bind(&req); err != nil {
		return "", inventoryRequest{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return "", inventoryRequest{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return actor, req, nil
}

func toInventoryInput(r inventoryRequest) ports.InventoryInput {
	return ports.InventoryInput{
		SKU:      r.SKU,
		Category: r.Category,
		Name:     r.Name,
		Price:    r.Price,
		Stock:    r.Stock,
	}
}

func toInventoryResponse(item *domain.InventoryItem) inventoryResponse {
	return inventoryResponse{
		SKU:       item.SKU,
		Category:  item.Category,
		Name:      item.Name,
		Price:     item.Price,
		Stock:     item.Stock,
		LastOrder: item.LastOrder,
	}
}

func toMenuItemResponse(item *domain.MenuItem) menuItemResponse {
	return menuItemResponse{
		SKU:         item.SKU,
		Category:    item.Category,
		Name:        item.Name,
		Price:       item.Price,
		Ingredients: item.Ingredients,
		Active:      item.Active,
	}
}
