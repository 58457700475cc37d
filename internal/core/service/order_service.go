package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/api/metrics"
	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// pointsPerCurrencyUnit converts an order total into accrued reward points:
// floor(total * 10).
const pointsPerCurrencyUnit = 10

// OrderService drives the order lifecycle. Placement settles currency through
// the token ledger and accrues points on the membership credential; status
// moves only forward through the transition table.
type OrderService struct {
	orders      ports.OrderRepository
	customers   ports.CustomerRepository
	restaurants ports.RestaurantRepository
	catalog     ports.CatalogRepository
	capability  ports.CapabilityService
	tokens      ports.TokenLedger
	publisher   ports.OrderPublisher
	gate        Gate
	logger      zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	customers ports.CustomerRepository,
	restaurants ports.RestaurantRepository,
	catalog ports.CatalogRepository,
	capability ports.CapabilityService,
	tokens ports.TokenLedger,
	publisher ports.OrderPublisher,
	gate Gate,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		customers:   customers,
		restaurants: restaurants,
		catalog:     catalog,
		capability:  capability,
		tokens:      tokens,
		publisher:   publisher,
		gate:        gate,
		logger:      logger,
	}
}

// accruedPoints computes the points earned at placement.
func accruedPoints(total float64) uint64 {
	if total <= 0 {
		return 0
	}
	return uint64(math.Floor(total * pointsPerCurrencyUnit))
}

// currencyUnits scales a decimal total into the currency's base units.
// One precision model only: always the restaurant currency's declared
// decimals, never a hard-coded native-unit scale.
func currencyUnits(total float64, decimals int) uint64 {
	if total <= 0 {
		return 0
	}
	return uint64(math.Round(total * math.Pow10(decimals)))
}

// Place creates a pending order, transfers currency from the customer to the
// restaurant owner, and accrues reward points on the customer's credential.
// Accrual happens at placement, not completion: a later cancellation does not
// claw points back.
func (s *OrderService) Place(ctx context.Context, customerKey, restaurantRef string, input ports.PlaceOrderInput) (*ports.OrderResult, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("place_order").Inc()
		return nil, err
	}

	profile, err := s.customers.GetProfile(ctx, customerKey, restaurantRef)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.restaurants.Get(ctx, restaurantRef)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.CustomerOrder{
		OrderID:       input.OrderRef,
		RestaurantRef: restaurantRef,
		CustomerKey:   customerKey,
		Items:         input.Items,
		Total:         input.Total,
		Status:        domain.OrderPending,
		CreatedAt:     now.UnixMilli(),
		UpdatedAt:     0,
	}
	// The order record's derived address doubles as the duplicate guard, so
	// it is written before currency moves.
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	currencyMint := domain.MintKey(domain.RestaurantKey(restaurantRef))
	units := currencyUnits(input.Total, restaurant.CurrencyDecimals)
	if err := s.tokens.Transfer(ctx, currencyMint, customerKey, restaurant.OwnerKey, units); err != nil {
		// Roll the order record back so a failed payment leaves no state.
		if delErr := s.orders.Delete(ctx, input.OrderRef, restaurantRef); delErr != nil {
			s.logger.Error().Err(delErr).Str("order", input.OrderRef).Msg("failed to roll back order after payment failure")
		}
		return nil, fmt.Errorf("place order: payment: %w", err)
	}

	points := accruedPoints(input.Total)
	balance, err := s.customers.AddPoints(ctx, profile.CredentialRef, points)
	if err != nil {
		// Payment settled; points drift is logged, not rolled back.
		s.logger.Error().Err(err).Str("credential", profile.CredentialRef).Msg("failed to accrue points")
	}

	for _, sku := range input.Items {
		if err := s.catalog.TouchInventoryLastOrder(ctx, sku, restaurantRef, now.Unix()); err != nil {
			s.logger.Debug().Err(err).Str("sku", sku).Msg("failed to touch inventory last_order")
		}
	}

	s.publish(ctx, order)
	metrics.OrdersPlacedTotal.WithLabelValues(restaurantRef).Inc()
	metrics.PointsAccruedTotal.WithLabelValues(restaurantRef).Add(float64(points))
	s.logger.Info().
		Str("order", input.OrderRef).
		Str("restaurant", restaurantRef).
		Str("customer", customerKey).
		Float64("total", input.Total).
		Uint64("points", points).
		Msg("order placed")

	return &ports.OrderResult{
		OrderRef:     input.OrderRef,
		Status:       domain.OrderPending,
		Total:        input.Total,
		PointsEarned: points,
		PointBalance: balance,
		CreatedAt:    order.CreatedAt,
	}, nil
}

// UpdateStatus applies an admin-driven transition. Restaurant-admin scoped.
func (s *OrderService) UpdateStatus(ctx context.Context, actor, restaurantRef, orderRef string, status domain.OrderStatus) (*domain.CustomerOrder, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("update_order_status").Inc()
		return nil, err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}
	return s.transition(ctx, restaurantRef, orderRef, status)
}

// Cancel moves a pending order to cancelled. Only the order's stored customer
// may cancel; accrued points stay.
func (s *OrderService) Cancel(ctx context.Context, customerKey, restaurantRef, orderRef string) (*domain.CustomerOrder, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("cancel_order").Inc()
		return nil, err
	}
	order, err := s.orders.Get(ctx, orderRef, restaurantRef)
	if err != nil {
		return nil, err
	}
	if order.CustomerKey != customerKey {
		return nil, domain.ErrUnauthorized
	}
	return s.transition(ctx, restaurantRef, orderRef, domain.OrderCancelled)
}

// Close removes a terminal order record. Restaurant-admin scoped; reclaimed
// resources route to the admin side, never the customer.
func (s *OrderService) Close(ctx context.Context, actor, restaurantRef, orderRef string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("close_order").Inc()
		return err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return err
	}
	order, err := s.orders.Get(ctx, orderRef, restaurantRef)
	if err != nil {
		return err
	}
	if !order.Status.Terminal() {
		return domain.ErrOrderNotTerminal
	}
	if err := s.orders.Delete(ctx, orderRef, restaurantRef); err != nil {
		return fmt.Errorf("close order: %w", err)
	}
	s.logger.Info().Str("order", orderRef).Str("restaurant", restaurantRef).Msg("order closed")
	return nil
}

// Get returns an order to its customer or a scoped admin.
func (s *OrderService) Get(ctx context.Context, actor, restaurantRef, orderRef string) (*domain.CustomerOrder, error) {
	order, err := s.orders.Get(ctx, orderRef, restaurantRef)
	if err != nil {
		return nil, err
	}
	if order.CustomerKey == actor {
		return order, nil
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}
	return order, nil
}

// transition validates and applies a single state-machine step. updated_at
// strictly increases across transitions.
func (s *OrderService) transition(ctx context.Context, restaurantRef, orderRef string, to domain.OrderStatus) (*domain.CustomerOrder, error) {
	order, err := s.orders.Get(ctx, orderRef, restaurantRef)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w (from %d to %d)", domain.ErrInvalidTransition, order.Status, to)
	}

	updatedAt := time.Now().UTC().UnixMilli()
	if updatedAt <= order.UpdatedAt {
		updatedAt = order.UpdatedAt + 1
	}
	if err := s.orders.UpdateStatus(ctx, orderRef, restaurantRef, order.Status, to, updatedAt); err != nil {
		return nil, fmt.Errorf("order transition: %w", err)
	}

	from := order.Status
	order.Status = to
	order.UpdatedAt = updatedAt
	s.publish(ctx, order)
	metrics.OrderTransitionsTotal.WithLabelValues(strconv.Itoa(int(from)), strconv.Itoa(int(to))).Inc()
	s.logger.Info().
		Str("order", orderRef).
		Int("from", int(from)).
		Int("to", int(to)).
		Msg("order status updated")
	return order, nil
}

// publish emits the lifecycle event; broker failures never fail the operation.
func (s *OrderService) publish(ctx context.Context, order *domain.CustomerOrder) {
	if s.publisher == nil {
		return
	}
	event := ports.OrderEvent{
		OrderRef:      order.OrderID,
		RestaurantRef: order.RestaurantRef,
		CustomerKey:   order.CustomerKey,
		Status:        int(order.Status),
		Total:         order.Total,
		Timestamp:     time.Now().UTC().Unix(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("order", order.OrderID).Msg("failed to publish order event")
	}
}
