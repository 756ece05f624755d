// Package denylist records revoked access tokens until they would have
// expired anyway.
package denylist

import (
	"context"
	"time"
)

// Denylist is keyed by the token's jti claim.
type Denylist interface {
	// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op
	// since the token can no longer verify.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
