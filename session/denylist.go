package session

import (
	"context"
	"time"

	"Gin_postgres_library_api/cache"
)

// Denylist remembers revoked token ids until the tokens would have expired anyway.
type Denylist struct {
	store cache.Store
	now   func() time.Time
}

func NewDenylist(store cache.Store) *Denylist {
	return &Denylist{store: store, now: time.Now}
}

func revokedKey(jti string) string { return "auth:revoked:" + jti }

func (d *Denylist) Revoke(ctx context.Context, c *Claims) error {
	if c.ExpiresAt == nil {
		return nil
	}
	ttl := c.ExpiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.store.Set(ctx, revokedKey(c.ID), []byte(c.Subject), ttl)
}

func (d *Denylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok, err := d.store.Get(ctx, revokedKey(jti))
	return ok, err
}
