package service

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"lukechampine.com/blake3"

	"github.com/tablechain/restaurant-protocol/internal/api/metrics"
	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// RewardService manages reward items and the two paths that hand a reward
// credential to a customer: point redemption and signed airdrop grants.
type RewardService struct {
	rewards     ports.RewardRepository
	customers   ports.CustomerRepository
	restaurants ports.RestaurantRepository
	capability  ports.CapabilityService
	tokens      ports.TokenLedger
	grants      ports.GrantStore
	gate        Gate
	signingKey  ed25519.PublicKey
	logger      zerolog.Logger
}

func NewRewardService(
	rewards ports.RewardRepository,
	customers ports.CustomerRepository,
	restaurants ports.RestaurantRepository,
	capability ports.CapabilityService,
	tokens ports.TokenLedger,
	grants ports.GrantStore,
	gate Gate,
	signingKey ed25519.PublicKey,
	logger zerolog.Logger,
) *RewardService {
	return &RewardService{
		rewards:     rewards,
		customers:   customers,
		restaurants: restaurants,
		capability:  capability,
		tokens:      tokens,
		grants:      grants,
		gate:        gate,
		signingKey:  signingKey,
		logger:      logger,
	}
}

// Create registers a reward item and its companion mint. The mint metadata
// embeds the reward fields once, at creation, and stays consistent with them.
func (s *RewardService) Create(ctx context.Context, actor, restaurantRef string, input ports.CreateRewardInput) (*domain.RewardItem, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("create_reward").Inc()
		return nil, err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}
	restaurant, err := s.restaurants.Get(ctx, restaurantRef)
	if err != nil {
		return nil, err
	}

	mintKey := domain.MintKey(domain.RewardKey(input.RewardRef, restaurantRef))
	reward := &domain.RewardItem{
		RewardRef:     input.RewardRef,
		RestaurantRef: restaurantRef,
		Category:      input.Category,
		RewardPoints:  input.Cost,
		MintKey:       mintKey,
		URI:           input.URI,
	}
	if err := s.rewards.Create(ctx, reward); err != nil {
		return nil, fmt.Errorf("create reward: %w", err)
	}

	if err := s.tokens.CreateMint(ctx, mintKey, 0, map[string]string{
		"name":          "Reward for " + restaurant.Name,
		"symbol":        "TREAT",
		"uri":           input.URI,
		"category":      input.Category,
		"restaurant":    restaurantRef,
		"reward_points": strconv.FormatUint(input.Cost, 10),
		"reward_item":   input.RewardRef,
	}); err != nil {
		return nil, fmt.Errorf("create reward mint: %w", err)
	}

	s.logger.Info().
		Str("reward", input.RewardRef).
		Str("restaurant", restaurantRef).
		Uint64("cost", input.Cost).
		Msg("reward created")
	return reward, nil
}

// Remove deletes a reward item. Restaurant-admin scoped.
func (s *RewardService) Remove(ctx context.Context, actor, restaurantRef, rewardRef string) error {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("remove_reward").Inc()
		return err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return err
	}
	if err := s.rewards.Delete(ctx, rewardRef, restaurantRef); err != nil {
		return fmt.Errorf("remove reward: %w", err)
	}
	s.logger.Info().Str("reward", rewardRef).Str("restaurant", restaurantRef).Msg("reward removed")
	return nil
}

// Redeem spends points for a reward credential. The guarded decrement is the
// underflow protection: insufficient points abort before any token mint, and
// the balance is untouched.
func (s *RewardService) Redeem(ctx context.Context, customerKey, restaurantRef, rewardRef string) (*ports.RedeemResult, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("redeem_reward").Inc()
		return nil, err
	}

	reward, err := s.rewards.Get(ctx, rewardRef, restaurantRef)
	if err != nil {
		return nil, err
	}
	profile, err := s.customers.GetProfile(ctx, customerKey, restaurantRef)
	if err != nil {
		return nil, err
	}

	// Verify the holding account is clean before spending anything, so the
	// failure order is: dirty account, then insufficient points, then mint.
	before, err := s.tokens.Balance(ctx, reward.MintKey, customerKey)
	if err != nil {
		return nil, fmt.Errorf("redeem reward: pre-mint balance: %w", err)
	}
	if before != 0 {
		return nil, domain.ErrInvalidBalancePreMint
	}

	balance, err := s.customers.SpendPoints(ctx, profile.CredentialRef, reward.RewardPoints)
	if err != nil {
		return nil, err
	}

	if err := mintExactlyOne(ctx, s.tokens, reward.MintKey, customerKey); err != nil {
		// Refund the spent points: a ledger failure must not leave the
		// customer with fewer points and no reward.
		if _, addErr := s.customers.AddPoints(ctx, profile.CredentialRef, reward.RewardPoints); addErr != nil {
			s.logger.Error().Err(addErr).
				Str("credential", profile.CredentialRef).
				Uint64("points", reward.RewardPoints).
				Msg("failed to refund points after mint failure")
		}
		return nil, fmt.Errorf("redeem reward: %w", err)
	}

	// Propagate the customer's new balance into the minted token's metadata
	// for off-chain auditability. The creation-time fields stay untouched.
	if err := s.tokens.UpdateMetadataField(ctx, reward.MintKey, "holder_points_balance", strconv.FormatUint(balance, 10)); err != nil {
		s.logger.Warn().Err(err).Str("reward", rewardRef).Msg("failed to update reward metadata")
	}

	metrics.PointsRedeemedTotal.WithLabelValues(restaurantRef).Add(float64(reward.RewardPoints))
	metrics.RewardMintsTotal.WithLabelValues("redeem").Inc()
	s.logger.Info().
		Str("reward", rewardRef).
		Str("customer", customerKey).
		Uint64("cost", reward.RewardPoints).
		Uint64("balance", balance).
		Msg("reward redeemed")

	return &ports.RedeemResult{
		RewardRef:    rewardRef,
		MintKey:      reward.MintKey,
		PointBalance: balance,
	}, nil
}

// Airdrop grants a reward without spending points. Authorization comes from a
// co-submitted ed25519 grant, not from a capability record: the signature
// must verify against the fixed admin signing key, the signed message must
// name this customer, reward, and restaurant, the grant must not be expired,
// and each grant is consumable exactly once.
func (s *RewardService) Airdrop(ctx context.Context, actor, restaurantRef, rewardRef, customerKey string, grant ports.AirdropGrant) (*ports.RedeemResult, error) {
	if err := s.gate.RequireUnlocked(ctx); err != nil {
		metrics.GateRejectionsTotal.WithLabelValues("airdrop_reward").Inc()
		return nil, err
	}
	if err := s.capability.RequireRestaurantAdmin(ctx, actor, restaurantRef); err != nil {
		return nil, err
	}

	reward, err := s.rewards.Get(ctx, rewardRef, restaurantRef)
	if err != nil {
		return nil, err
	}
	profile, err := s.customers.GetProfile(ctx, customerKey, restaurantRef)
	if err != nil {
		return nil, err
	}

	grantID, err := s.verifyGrant(ctx, grant, customerKey, rewardRef, restaurantRef)
	if err != nil {
		return nil, err
	}

	if err := mintExactlyOne(ctx, s.tokens, reward.MintKey, customerKey); err != nil {
		// Hand the grant back so a transient ledger failure does not burn
		// it; the pre-mint balance check already blocks a double credential.
		if relErr := s.grants.Release(ctx, grantID); relErr != nil {
			s.logger.Error().Err(relErr).
				Str("reward", rewardRef).
				Str("customer", customerKey).
				Msg("failed to release grant after mint failure")
		}
		return nil, fmt.Errorf("airdrop reward: %w", err)
	}

	credential, err := s.customers.GetCredential(ctx, profile.CredentialRef)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.UpdateMetadataField(ctx, reward.MintKey, "holder_points_balance", strconv.FormatUint(credential.RewardPoints, 10)); err != nil {
		s.logger.Warn().Err(err).Str("reward", rewardRef).Msg("failed to update reward metadata")
	}

	metrics.RewardMintsTotal.WithLabelValues("airdrop").Inc()
	s.logger.Info().
		Str("reward", rewardRef).
		Str("customer", customerKey).
		Msg("reward airdropped")

	return &ports.RedeemResult{
		RewardRef:    rewardRef,
		MintKey:      reward.MintKey,
		PointBalance: credential.RewardPoints,
	}, nil
}

// verifyGrant checks signature, binding, expiry, and one-shot consumption,
// returning the consumed grant's id so a failed mint can release it. Every
// failure mode collapses to ErrInstructionsNotCorrect; the caller learns the
// grant is bad, not which check tripped.
func (s *RewardService) verifyGrant(ctx context.Context, grant ports.AirdropGrant, customerKey, rewardRef, restaurantRef string) (string, error) {
	if len(grant.Message) == 0 || len(grant.Signature) != ed25519.SignatureSize {
		return "", domain.ErrInstructionsNotCorrect
	}
	if !ed25519.Verify(s.signingKey, grant.Message, grant.Signature) {
		return "", domain.ErrInstructionsNotCorrect
	}

	msg, err := domain.DecodeAirdropMessage(grant.Message)
	if err != nil {
		return "", err
	}
	if msg.CustomerKey != customerKey || msg.RewardRef != rewardRef || msg.RestaurantRef != restaurantRef {
		return "", domain.ErrInstructionsNotCorrect
	}
	if msg.Expiry < time.Now().UTC().Unix() {
		return "", domain.ErrInstructionsNotCorrect
	}

	sum := blake3.Sum256(grant.Signature)
	grantID := hex.EncodeToString(sum[:])
	ok, err := s.grants.Consume(ctx, grantID)
	if err != nil {
		return "", fmt.Errorf("consume grant: %w", err)
	}
	if !ok {
		return "", domain.ErrInstructionsNotCorrect
	}
	return grantID, nil
}
