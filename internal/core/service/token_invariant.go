package service

import (
	"context"
	"fmt"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

// mintExactlyOne is the read-modify-verify block shared by membership and
// reward mints: the holding account must be empty before the mint and hold
// exactly one token after it. Each side violation gets its own error so the
// caller can tell a dirty account from a failed mint.
func mintExactlyOne(ctx context.Context, tokens ports.TokenLedger, mintKey, holderKey string) error {
	before, err := tokens.Balance(ctx, mintKey, holderKey)
	if err != nil {
		return fmt.Errorf("pre-mint balance: %w", err)
	}
	if before != 0 {
		return domain.ErrInvalidBalancePreMint
	}
	if err := tokens.MintTo(ctx, mintKey, holderKey, 1); err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	after, err := tokens.Balance(ctx, mintKey, holderKey)
	if err != nil {
		return fmt.Errorf("post-mint balance: %w", err)
	}
	if after != 1 {
		return domain.ErrInvalidBalancePostMint
	}
	return nil
}
