package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// CatalogService manages inventory and menu records. Every mutation is gated
// and requires restaurant-admin scope.
type CatalogService struct {
	catalog    ports.CatalogRepository
	capability ports.CapabilityService
	gate       Gate
	logger     zerolog.Logger
}

func NewCatalogService(catalog ports.CatalogRepository, capability ports.CapabilityService, gate Gate, logger zerolog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, capability: capability, gate: gate, logger: logger}
}

// AddInventory creates a stock record with last_order zeroed.
func (s *CatalogService) AddInventory(ctx context.Context, actor, restaurantRef string, input ports.InventoryInput) (*domain.InventoryItem, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}

	item := &domain.InventoryItem{
		SKU:           input.SKU,
		RestaurantRef: restaurantRef,
		Category:      input.Category,
		Name:          input.Name,
		Price:         input.Price,
		Stock:         input.Stock,
		LastOrder:     0,
	}
	if err := s.catalog.CreateInventory(ctx, item); err != nil {
		return nil, fmt.Errorf("add inventory: %w", err)
	}
	s.logger.Info().Str("sku", input.SKU).Str("restaurant", restaurantRef).Msg("inventory item added")
	return item, nil
}

// UpdateInventory replaces every field of the record. Full-replace semantics
// are intentional: callers send the complete item, not a patch. Only
// last_order is carried over from the stored record.
func (s *CatalogService) UpdateInventory(ctx context.Context, actor, restaurantRef string, input ports.InventoryInput) (*domain.InventoryItem, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}

	existing, err := s.catalog.GetInventory(ctx, input.SKU, restaurantRef)
	if err != nil {
		return nil, err
	}

	item := &domain.InventoryItem{
		SKU:           input.SKU,
		RestaurantRef: restaurantRef,
		Category:      input.Category,
		Name:          input.Name,
		Price:         input.Price,
		Stock:         input.Stock,
		LastOrder:     existing.LastOrder,
	}
	if err := s.catalog.ReplaceInventory(ctx, item); err != nil {
		return nil, fmt.Errorf("update inventory: %w", err)
	}
	return item, nil
}

// RemoveInventory deletes a stock record.
func (s *CatalogService) RemoveInventory(ctx context.Context, actor, restaurantRef, sku string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return err
	}
	if err := s.catalog.DeleteInventory(ctx, sku, restaurantRef); err != nil {
		return fmt.Errorf("remove inventory: %w", err)
	}
	s.logger.Info().Str("sku", sku).Str("restaurant", restaurantRef).Msg("inventory item removed")
	return nil
}

// AddMenuItem creates a sellable item.
func (s *CatalogService) AddMenuItem(ctx context.Context, actor, restaurantRef string, input ports.MenuItemInput) (*domain.MenuItem, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}

	item := &domain.MenuItem{
		SKU:           input.SKU,
		RestaurantRef: restaurantRef,
		Category:      input.Category,
		Name:          input.Name,
		Price:         input.Price,
		Ingredients:   input.Ingredients,
		Active:        input.Active,
	}
	if err := s.catalog.CreateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add menu item: %w", err)
	}
	s.logger.Info().Str("sku", input.SKU).Str("restaurant", restaurantRef).Msg("menu item added")
	return item, nil
}

// SetMenuItemActive flips only the active flag, leaving every other field
// untouched. Distinct from full replace so a flag flip can never lose data.
func (s *CatalogService) SetMenuItemActive(ctx context.Context, actor, restaurantRef, sku string, active bool) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return err
	}
	if err := s.catalog.SetMenuItemActive(ctx, sku, restaurantRef, active); err != nil {
		return fmt.Errorf("set menu item active: %w", err)
	}
	return nil
}

// RemoveMenuItem deletes a sellable item.
func (s *CatalogService) RemoveMenuItem(ctx context.Context, actor, restaurantRef, sku string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return err
	}
	if err := s.catalog.DeleteMenuItem(ctx, sku, restaurantRef); err != nil {
		return fmt.Errorf("remove menu item: %w", err)
	}
	return nil
}

// ListMenu returns the active menu. Public read, not gated.
func (s *CatalogService) ListMenu(ctx context.Context, restaurantRef string) ([]*domain.MenuItem, error) {
	return s.catalog.ListActiveMenu(ctx, restaurantRef)
}
