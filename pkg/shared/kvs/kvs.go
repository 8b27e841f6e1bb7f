// Package kvs provides the key-value store behind visitor sessions and OTP
// cooldowns, with an in-memory backend and a Redis backend.
package kvs

import (
	"context"
	"errors"
	"time"
)

// Store is a key-value store with per-key TTL.
// All implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A ttl <= 0 means the key does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores a value only when the key is absent (or expired).
	// It reports whether the value was stored.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// TTL returns the remaining lifetime of a key, 0 when it never expires.
	// Returns ErrNotFound if the key does not exist or has expired.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Count returns the number of live keys with the given prefix.
	Count(ctx context.Context, prefix string) (int, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources. Later operations return ErrClosed.
	Close() error
}

// Common errors
var (
	// ErrNotFound is returned when a key is not found or has expired.
	ErrNotFound = errors.New("kvs: key not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("kvs: store is closed")
)

// Config selects and configures a store backend.
type Config struct {
	// Type is "memory" (default) or "redis".
	Type string `yaml:"type" json:"type"`

	// Namespace prefixes every key, "namespace:" for Redis.
	Namespace string `yaml:"namespace" json:"namespace"`

	Memory MemoryConfig `yaml:"memory" json:"memory"`
	Redis  RedisConfig  `yaml:"redis" json:"redis"`
}

// MemoryConfig configures the in-memory store.
type MemoryConfig struct {
	// CleanupInterval is how often expired keys are swept. Default: 1 minute.
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	// PoolSize is the maximum number of connections (0 = go-redis default)
	PoolSize int `yaml:"pool_size" json:"pool_size"`
}

// New creates a store for cfg.
func New(cfg Config) (Store, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryStore(cfg.Namespace, cfg.Memory)
	case "redis":
		return NewRedisStore(cfg.Namespace, cfg.Redis)
	default:
		return nil, errors.New("kvs: unsupported store type: " + cfg.Type)
	}
}
