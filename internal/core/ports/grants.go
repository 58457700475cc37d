package ports

import "context"

// GrantStore tracks consumed airdrop grants. A grant authorizes exactly one
// mint; Consume returns false when the grant was already spent. Release
// returns a consumed grant so a mint failure after consumption does not burn
// a still valid grant.
type GrantStore interface {
	Consume(ctx context.Context, grantID string) (bool, error)
	Release(ctx context.Context, grantID string) error
}
