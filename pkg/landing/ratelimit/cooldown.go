// Package ratelimit holds the OTP resend cooldown and the per-IP throttle for
// the form API.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/ideamans/leadgate/pkg/shared/kvs"
)

// Cooldown blocks a key for a fixed period once started. Keys live in kvs
// with a TTL, so expiry needs no sweeping.
type Cooldown struct {
	kvs    kvs.Store
	period time.Duration
}

// NewCooldown creates a cooldown of period over store.
func NewCooldown(period time.Duration, store kvs.Store) *Cooldown {
	return &Cooldown{kvs: store, period: period}
}

// Period returns the configured cooldown length.
func (c *Cooldown) Period() time.Duration {
	return c.period
}

// Remaining returns how long key stays blocked, 0 when it is free.
func (c *Cooldown) Remaining(ctx context.Context, key string) (time.Duration, error) {
	if c.period <= 0 {
		return 0, nil
	}
	ttl, err := c.kvs.TTL(ctx, key)
	if errors.Is(err, kvs.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ttl, nil
}

// Active reports whether key is blocked. Store errors leave the key free so a
// broken store never locks visitors out.
func (c *Cooldown) Active(ctx context.Context, key string) bool {
	remaining, err := c.Remaining(ctx, key)
	return err == nil && remaining > 0
}

// Start blocks key for the period. It reports false when key was already blocked.
func (c *Cooldown) Start(ctx context.Context, key string) (bool, error) {
	if c.period <= 0 {
		return true, nil
	}
	return c.kvs.SetNX(ctx, key, []byte(time.Now().UTC().Format(time.RFC3339)), c.period)
}

// Clear lifts the block on key.
func (c *Cooldown) Clear(ctx context.Context, key string) error {
	return c.kvs.Delete(ctx, key)
}
