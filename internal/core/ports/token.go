package ports

import "context"

// TokenLedger is the external token subsystem the core drives but does not
// own. The core only specifies when these calls happen and which invariants
// must hold around them (pre/post balance checks on credential mints, one-time
// metadata writes at creation).
type TokenLedger interface {
	// CreateMint registers a new mint with the given decimal precision and
	// immutable creation metadata.
	CreateMint(ctx context.Context, mintKey string, decimals int, metadata map[string]string) error
	// MintTo credits amount units of mintKey to the holder's account.
	MintTo(ctx context.Context, mintKey, holderKey string, amount uint64) error
	// Balance returns the holder's balance for mintKey (0 when no holding
	// account exists yet).
	Balance(ctx context.Context, mintKey, holderKey string) (uint64, error)
	// Transfer moves units from one holder to another, failing when the
	// source balance is insufficient.
	Transfer(ctx context.Context, mintKey, fromKey, toKey string, units uint64) error
	// UpdateMetadataField overwrites a single metadata field on the mint.
	UpdateMetadataField(ctx context.Context, mintKey, field, value string) error
}
