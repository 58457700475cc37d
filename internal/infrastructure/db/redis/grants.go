package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Consumed grants only need to survive as long as a signed grant could still
// be replayed; grants carry their own expiry well inside this window.
const grantTTL = 30 * 24 * time.Hour

// GrantStore tracks spent airdrop grants in Redis.
// Key format: grant:<grant_id>
type GrantStore struct {
	client *redis.Client
}

// NewGrantStore creates a GrantStore wrapping the given Redis client.
func NewGrantStore(client *redis.Client) *GrantStore {
	return &GrantStore{client: client}
}

// Consume marks the grant spent and reports whether this call was the first
// to do so. SETNX makes the check and the mark a single atomic operation, so
// two racing redemptions of the same grant can never both succeed.
func (g *GrantStore) Consume(ctx context.Context, grantID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(grantID), "1", grantTTL).Result()
	if err != nil {
		return false, fmt.Errorf("grant consume: %w", err)
	}
	return ok, nil
}

// Release drops the consumption mark so the grant can be consumed again.
// Called when the mint the grant authorized failed after consumption.
func (g *GrantStore) Release(ctx context.Context, grantID string) error {
	if err := g.client.Del(ctx, g.key(grantID)).Err(); err != nil {
		return fmt.Errorf("grant release: %w", err)
	}
	return nil
}

func (g *GrantStore) key(grantID string) string {
	return fmt.Sprintf("grant:%s", grantID)
}
