package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/api/metrics"
	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// CapabilityService is the trust root. It derives, creates, and verifies the
// capability records every privileged mutation depends on. The trust tree has
// two levels below the multisig: protocol admins, then per-restaurant admins
// and employees.
type CapabilityService struct {
	caps        ports.CapabilityRepository
	restaurants ports.RestaurantRepository
	gate        Gate
	multisig    string
	logger      zerolog.Logger
}

func NewCapabilityService(
	caps ports.CapabilityRepository,
	restaurants ports.RestaurantRepository,
	gate Gate,
	multisigKey string,
	logger zerolog.Logger,
) *CapabilityService {
	return &CapabilityService{
		caps:        caps,
		restaurants: restaurants,
		gate:        gate,
		multisig:    multisigKey,
		logger:      logger,
	}
}

// CreateAdmin creates a protocol-wide admin capability. The actor must already
// hold an AdminRecord or be the multisig itself.
func (s *CapabilityService) CreateAdmin(ctx context.Context, actor, newAdminKey, username string) (*domain.Admin, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	if err := s.RequireProtocolAdmin(ctx, actor); err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		OwnerKey:  newAdminKey,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.caps.CreateAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info().Str("admin", newAdminKey).Str("username", username).Msg("admin capability created")
	return admin, nil
}

// RemoveAdmin destroys a protocol-wide admin capability. Only the multisig may
// do this; reclaimed resources route to the multisig, never to the removed
// admin. (The admin's own signature is deliberately NOT sufficient here.)
func (s *CapabilityService) RemoveAdmin(ctx context.Context, actor, adminKey string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return err
	}
	if actor != s.multisig {
		metrics.CapabilityDenialsTotal.WithLabelValues("remove_admin").Inc()
		return domain.ErrUnauthorized
	}
	if err := s.caps.DeleteAdmin(ctx, adminKey); err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	s.logger.Info().Str("admin", adminKey).Msg("admin capability removed")
	return nil
}

// CreateRestaurantAdmin creates an admin capability scoped to one restaurant.
// Only the restaurant's stored owner may create it.
func (s *CapabilityService) CreateRestaurantAdmin(ctx context.Context, actor, restaurantRef, adminKey, username string) (*domain.RestaurantAdmin, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	restaurant, err := s.restaurants.Get(ctx, restaurantRef)
	if err != nil {
		return nil, err
	}
	if actor != restaurant.OwnerKey {
		metrics.CapabilityDenialsTotal.WithLabelValues("create_restaurant_admin").Inc()
		return nil, domain.ErrUnauthorized
	}

	admin := &domain.RestaurantAdmin{
		OwnerKey:      adminKey,
		RestaurantRef: restaurantRef,
		Username:      username,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.caps.CreateRestaurantAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("create restaurant admin: %w", err)
	}
	s.logger.Info().
		Str("admin", adminKey).
		Str("restaurant", restaurantRef).
		Msg("restaurant admin capability created")
	return admin, nil
}

// RemoveRestaurantAdmin destroys a restaurant-scoped admin capability.
// Restaurant owner only; reclaimed resources route back to the owner.
func (s *CapabilityService) RemoveRestaurantAdmin(ctx context.Context, actor, restaurantRef, adminKey string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return err
	}
	restaurant, err := s.restaurants.Get(ctx, restaurantRef)
	if err != nil {
		return err
	}
	if actor != restaurant.OwnerKey {
		metrics.CapabilityDenialsTotal.WithLabelValues("remove_restaurant_admin").Inc()
		return domain.ErrUnauthorized
	}
	if err := s.caps.DeleteRestaurantAdmin(ctx, adminKey, restaurantRef); err != nil {
		return fmt.Errorf("remove restaurant admin: %w", err)
	}
	s.logger.Info().Str("admin", adminKey).Str("restaurant", restaurantRef).Msg("restaurant admin capability removed")
	return nil
}

// CreateEmployee creates the low-privilege capability. A matching restaurant
// admin authorizes it; the multisig works as a bootstrap path.
func (s *CapabilityService) CreateEmployee(ctx context.Context, actor, restaurantRef, employeeKey, username string) (*domain.Employee, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	if err := s.requireRestaurantAdminOrMultisig(ctx, actor, restaurantRef, "create_employee"); err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		OwnerKey:      employeeKey,
		RestaurantRef: restaurantRef,
		Username:      username,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.caps.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	s.logger.Info().Str("employee", employeeKey).Str("restaurant", restaurantRef).Msg("employee capability created")
	return employee, nil
}

// RemoveEmployee destroys an employee capability under the same authority that
// creates one.
func (s *CapabilityService) RemoveEmployee(ctx context.Context, actor, restaurantRef, employeeKey string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return err
	}
	if err := s.requireRestaurantAdminOrMultisig(ctx, actor, restaurantRef, "remove_employee"); err != nil {
		return err
	}
	if err := s.caps.DeleteEmployee(ctx, employeeKey, restaurantRef); err != nil {
		return fmt.Errorf("remove employee: %w", err)
	}
	s.logger.Info().Str("employee", employeeKey).Str("restaurant", restaurantRef).Msg("employee capability removed")
	return nil
}

// RequireProtocolAdmin verifies the actor is the multisig or holds an
// AdminRecord at the derived address.
func (s *CapabilityService) RequireProtocolAdmin(ctx context.Context, actor string) error {
	if actor == s.multisig {
		return nil
	}
	_, err := s.caps.GetAdmin(ctx, actor)
	if errors.Is(err, domain.ErrCapabilityNotFound) {
		metrics.CapabilityDenialsTotal.WithLabelValues("protocol_admin").Inc()
		return domain.ErrUnauthorized
	}
	return err
}

// RequireRestaurantAdmin verifies the actor holds a RestaurantAdminRecord
// whose stored restaurant_ref equals the target restaurant. Protocol-level
// admins outrank restaurant scope and pass as well.
func (s *CapabilityService) RequireRestaurantAdmin(ctx context.Context, actor, restaurantRef string) error {
	record, err := s.caps.GetRestaurantAdmin(ctx, actor, restaurantRef)
	if err == nil {
		// The stored reference, not the derived address, is the scoping
		// invariant.
		if record.RestaurantRef != restaurantRef {
			metrics.CapabilityDenialsTotal.WithLabelValues("restaurant_scope").Inc()
			return domain.ErrUnauthorized
		}
		return nil
	}
	if !errors.Is(err, domain.ErrCapabilityNotFound) {
		return err
	}
	if perr := s.RequireProtocolAdmin(ctx, actor); perr == nil {
		return nil
	}
	metrics.CapabilityDenialsTotal.WithLabelValues("restaurant_admin").Inc()
	return domain.ErrUnauthorized
}

func (s *CapabilityService) requireRestaurantAdminOrMultisig(ctx context.Context, actor, restaurantRef, op string) error {
	if actor == s.multisig {
		return nil
	}
	record, err := s.caps.GetRestaurantAdmin(ctx, actor, restaurantRef)
	if err == nil && record.RestaurantRef == restaurantRef {
		return nil
	}
	if err != nil && !errors.Is(err, domain.ErrCapabilityNotFound) {
		return err
	}
	metrics.CapabilityDenialsTotal.WithLabelValues(op).Inc()
	return domain.ErrUnauthorized
}
