package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// Gate is the read side of the protocol kill switch. Every mutating service
// method calls RequireUnlocked before touching any record.
type Gate interface {
	RequireUnlocked(ctx context.Context) error
}

// ProtocolService owns the global kill switch. Initialization locks the
// protocol: a fresh deployment does nothing until the multisig unlocks it.
type ProtocolService struct {
	repo     ports.ProtocolRepository
	multisig string
	logger   zerolog.Logger
}

func NewProtocolService(repo ports.ProtocolRepository, multisigKey string, logger zerolog.Logger) *ProtocolService {
	return &ProtocolService{repo: repo, multisig: multisigKey, logger: logger}
}

// Initialize creates the protocol record with Locked=true. Multisig only.
func (s *ProtocolService) Initialize(ctx context.Context, actor string) error {
	if actor != s.multisig {
		return domain.ErrUnauthorized
	}
	if err := s.repo.Create(ctx, &domain.Protocol{Locked: true}); err != nil {
		return err
	}
	s.logger.Info().Msg("protocol initialized (locked)")
	return nil
}

// ToggleLock flips the gate and returns the new state. Multisig only. This is
// the one mutation that must work while the protocol is locked.
func (s *ProtocolService) ToggleLock(ctx context.Context, actor string) (bool, error) {
	if actor != s.multisig {
		return false, domain.ErrUnauthorized
	}
	p, err := s.repo.Get(ctx)
	if err != nil {
		return false, err
	}
	if err := s.repo.SetLocked(ctx, !p.Locked); err != nil {
		return false, err
	}
	s.logger.Info().Bool("locked", !p.Locked).Msg("protocol lock toggled")
	return !p.Locked, nil
}

// Status returns the current gate state.
func (s *ProtocolService) Status(ctx context.Context) (*domain.Protocol, error) {
	return s.repo.Get(ctx)
}

// RequireUnlocked fails with ErrProtocolLocked when the gate is engaged. An
// uninitialized protocol counts as locked: the system is inert until the
// multisig has both initialized and unlocked it.
func (s *ProtocolService) RequireUnlocked(ctx context.Context) error {
	p, err := s.repo.Get(ctx)
	if errors.Is(err, domain.ErrProtocolNotInitialized) {
		return domain.ErrProtocolLocked
	}
	if err != nil {
		return err
	}
	if p.Locked {
		return domain.ErrProtocolLocked
	}
	return nil
}
