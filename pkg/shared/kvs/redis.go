package kvs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed Store. Keys are prefixed with "namespace:".
type RedisStore struct {
	prefix string
	client *redis.Client

	mu     sync.RWMutex
	closed bool
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(namespace string, cfg RedisConfig) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("kvs/redis: failed to connect to %s: %w", cfg.Addr, err)
	}

	prefix := ""
	if namespace != "" {
		prefix = namespace + ":"
	}

	return &RedisStore{prefix: prefix, client: client}, nil
}

func (r *RedisStore) prefixedKey(key string) string {
	return r.prefix + key
}

func (r *RedisStore) isClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// Get retrieves a value by key.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if r.isClosed() {
		return nil, ErrClosed
	}

	result, err := r.client.Get(ctx, r.prefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kvs/redis: get failed: %w", err)
	}
	return result, nil
}

// Set stores a value with optional TTL.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if r.isClosed() {
		return ErrClosed
	}
	if ttl < 0 {
		ttl = 0
	}

	if err := r.client.Set(ctx, r.prefixedKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("kvs/redis: set failed: %w", err)
	}
	return nil
}

// SetNX stores a value only if the key is absent.
func (r *RedisStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if r.isClosed() {
		return false, ErrClosed
	}
	if ttl < 0 {
		ttl = 0
	}

	ok, err := r.client.SetNX(ctx, r.prefixedKey(key), value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("kvs/redis: setnx failed: %w", err)
	}
	return ok, nil
}

// TTL returns the remaining lifetime of key.
func (r *RedisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	if r.isClosed() {
		return 0, ErrClosed
	}

	d, err := r.client.PTTL(ctx, r.prefixedKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("kvs/redis: pttl failed: %w", err)
	}
	switch {
	case d == -2:
		return 0, ErrNotFound
	case d == -1:
		return 0, nil
	default:
		return d, nil
	}
}

// Delete removes a key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if r.isClosed() {
		return ErrClosed
	}

	if err := r.client.Del(ctx, r.prefixedKey(key)).Err(); err != nil {
		return fmt.Errorf("kvs/redis: delete failed: %w", err)
	}
	return nil
}

// Count returns the number of keys with the given prefix, using SCAN.
func (r *RedisStore) Count(ctx context.Context, prefix string) (int, error) {
	if r.isClosed() {
		return 0, ErrClosed
	}

	count := 0
	iter := r.client.Scan(ctx, 0, r.prefixedKey(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("kvs/redis: count failed: %w", err)
	}
	return count, nil
}

// Ping checks the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	if r.isClosed() {
		return ErrClosed
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("kvs/redis: ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("kvs/redis: close failed: %w", err)
	}
	return nil
}
