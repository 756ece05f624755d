package denylist

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shopcart/internal/shop/store"
	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "shop:revoked:"

var _ Denylist = (*Redis)(nil)

// Redis keeps revocations in Redis so every instance behind a load balancer
// sees them. Entries expire through Redis TTLs.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: denylist revoke: %w", store.ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("%w: denylist lookup: %w", store.ErrUnavailable, err)
	}
	return n > 0, nil
}

// Ping checks the Redis connection for readiness probes.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: denylist ping: %w", store.ErrUnavailable, err)
	}
	return nil
}
