package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

const defaultCurrencyDecimals = 6

// RestaurantService manages tenant records. Creating a tenant also creates its
// currency mint in the token subsystem; orders settle in that currency.
type RestaurantService struct {
	restaurants ports.RestaurantRepository
	capability  ports.CapabilityService
	tokens      ports.TokenLedger
	gate        Gate
	logger      zerolog.Logger
}

func NewRestaurantService(
	restaurants ports.RestaurantRepository,
	capability ports.CapabilityService,
	tokens ports.TokenLedger,
	gate Gate,
	logger zerolog.Logger,
) *RestaurantService {
	return &RestaurantService{
		restaurants: restaurants,
		capability:  capability,
		tokens:      tokens,
		gate:        gate,
		logger:      logger,
	}
}

// Create registers a tenant on behalf of its owner. Protocol admin only.
func (s *RestaurantService) Create(ctx context.Context, actor string, input ports.CreateRestaurantInput) (*domain.Restaurant, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	if err := s.capability.RequireProtocolAdmin(ctx, actor); err != nil {
		return nil, err
	}

	decimals := input.CurrencyDecimals
	if decimals <= 0 {
		decimals = defaultCurrencyDecimals
	}

	restaurant := &domain.Restaurant{
		Reference:        input.Reference,
		Name:             input.Name,
		Symbol:           input.Symbol,
		OwnerKey:         input.OwnerKey,
		URL:              input.URL,
		CurrencyDecimals: decimals,
		CustomerCount:    0,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.restaurants.Create(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	currencyMint := domain.MintKey(domain.RestaurantKey(input.Reference))
	if err := s.tokens.CreateMint(ctx, currencyMint, decimals, map[string]string{
		"name":       input.Name,
		"symbol":     input.Symbol,
		"uri":        input.URL,
		"restaurant": input.Reference,
	}); err != nil {
		return nil, fmt.Errorf("create currency mint: %w", err)
	}

	s.logger.Info().
		Str("restaurant", input.Reference).
		Str("owner", input.OwnerKey).
		Msg("restaurant created")
	return restaurant, nil
}

// Close removes a tenant record. Protocol admin only.
func (s *RestaurantService) Close(ctx context.Context, actor, reference string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return err
	}
	if err := s.capability.RequireProtocolAdmin(ctx, actor); err != nil {
		return err
	}
	if err := s.restaurants.Delete(ctx, reference); err != nil {
		return fmt.Errorf("close restaurant: %w", err)
	}
	s.logger.Info().Str("restaurant", reference).Msg("restaurant closed")
	return nil
}

// Get returns a tenant record. Public read.
func (s *RestaurantService) Get(ctx context.Context, reference string) (*domain.Restaurant, error) {
	return s.restaurants.Get(ctx, reference)
}
