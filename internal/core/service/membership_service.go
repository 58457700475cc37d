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

// MembershipService enrolls customers. Enrollment creates the profile record
// and mints exactly one membership credential token into the customer's
// holding account, verified with pre/post balance snapshots around the mint.
type MembershipService struct {
	customers   ports.CustomerRepository
	restaurants ports.RestaurantRepository
	capability  ports.CapabilityService
	tokens      ports.TokenLedger
	gate        Gate
	logger      zerolog.Logger
}

func NewMembershipService(
	customers ports.CustomerRepository,
	restaurants ports.RestaurantRepository,
	capability ports.CapabilityService,
	tokens ports.TokenLedger,
	gate Gate,
	logger zerolog.Logger,
) *MembershipService {
	return &MembershipService{
		customers:   customers,
		restaurants: restaurants,
		capability:  capability,
		tokens:      tokens,
		gate:        gate,
		logger:      logger,
	}
}

// Enroll creates the (customer, restaurant) profile and mints the membership
// credential with a zero point balance. Admin initiated.
func (s *MembershipService) Enroll(ctx context.Context, actor, restaurantRef string, input ports.EnrollCustomerInput) (*ports.CredentialView, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		return nil, err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}
	if _, err := s.restaurants.Get(ctx, restaurantRef); err != nil {
		return nil, err
	}

	credentialRef := domain.CustomerKey(input.CustomerKey, restaurantRef)
	mintKey := domain.MintKey(credentialRef)
	now := time.Now().UTC()

	// The profile's derived address is the uniqueness guard: a second
	// enrollment for the same (customer, restaurant) fails here, before any
	// token side effect.
	profile := &domain.CustomerProfile{
		ID:            input.ID,
		RestaurantRef: restaurantRef,
		OwnerKey:      input.CustomerKey,
		CredentialRef: credentialRef,
		MemberSince:   now,
	}
	if err := s.customers.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("enroll customer: %w", err)
	}

	credential := &domain.MembershipCredential{
		ID:           credentialRef,
		MintKey:      mintKey,
		RewardPoints: 0,
	}
	if err := s.customers.CreateCredential(ctx, credential); err != nil {
		s.rollbackEnrollment(ctx, input.CustomerKey, restaurantRef, "")
		return nil, fmt.Errorf("enroll customer: credential: %w", err)
	}

	// The mint key derives from the credential, so a mint left behind by an
	// earlier failed enrollment of this same pair is this mint; reuse it.
	if err := s.tokens.CreateMint(ctx, mintKey, 0, map[string]string{
		"name":          "Membership",
		"uri":           input.MetadataURI,
		"restaurant":    restaurantRef,
		"customer":      input.CustomerKey,
		"reward_points": "0",
	}); err != nil && !errors.Is(err, domain.ErrMintExists) {
		s.rollbackEnrollment(ctx, input.CustomerKey, restaurantRef, credentialRef)
		return nil, fmt.Errorf("enroll customer: create mint: %w", err)
	}

	if err := mintExactlyOne(ctx, s.tokens, mintKey, input.CustomerKey); err != nil {
		s.rollbackEnrollment(ctx, input.CustomerKey, restaurantRef, credentialRef)
		return nil, err
	}

	// customer_count is an eventually-consistent counter: drift is tolerated
	// and the value is never used for authorization.
	if err := s.restaurants.IncrementCustomerCount(ctx, restaurantRef); err != nil {
		s.logger.Warn().Err(err).Str("restaurant", restaurantRef).Msg("failed to bump customer count")
	}

	metrics.EnrollmentsTotal.WithLabelValues(restaurantRef).Inc()
	s.logger.Info().
		Str("customer", input.CustomerKey).
		Str("restaurant", restaurantRef).
		Str("credential", credentialRef).
		Msg("customer enrolled")

	return &ports.CredentialView{
		CredentialRef: credentialRef,
		MintKey:       mintKey,
		RewardPoints:  0,
		MemberSince:   now.Unix(),
	}, nil
}

// rollbackEnrollment removes the records a failed enrollment left behind so
// the (customer, restaurant) pair can enroll again. An orphan profile would
// otherwise turn every retry into ErrCustomerExists.
func (s *MembershipService) rollbackEnrollment(ctx context.Context, ownerKey, restaurantRef, credentialRef string) {
	if credentialRef != "" {
		if err := s.customers.DeleteCredential(ctx, credentialRef); err != nil {
			s.logger.Error().Err(err).
				Str("credential", credentialRef).
				Msg("failed to roll back credential")
		}
	}
	if err := s.customers.DeleteProfile(ctx, ownerKey, restaurantRef); err != nil {
		s.logger.Error().Err(err).
			Str("customer", ownerKey).
			Str("restaurant", restaurantRef).
			Msg("failed to roll back profile")
	}
}

// GetCredential returns the customer's credential and point balance.
func (s *MembershipService) GetCredential(ctx context.Context, customerKey, restaurantRef string) (*ports.CredentialView, error) {
	profile, err := s.customers.GetProfile(ctx, customerKey, restaurantRef)
	if err != nil {
		return nil, err
	}
	credential, err := s.customers.GetCredential(ctx, profile.CredentialRef)
	if err != nil {
		return nil, err
	}
	return &ports.CredentialView{
		CredentialRef: credential.ID,
		MintKey:       credential.MintKey,
		RewardPoints:  credential.RewardPoints,
		MemberSince:   profile.MemberSince.Unix(),
	}, nil
}
