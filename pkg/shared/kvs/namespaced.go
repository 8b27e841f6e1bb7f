package kvs

import (
	"context"
	"time"
)

// NamespacedStore prepends a prefix to every key so several logical stores
// (sessions, cooldowns) can share one backend.
//
//	base, _ := kvs.New(cfg)
//	sessions := kvs.NewNamespacedStore(base, "session:")
//	cooldowns := kvs.NewNamespacedStore(base, "cooldown:")
type NamespacedStore struct {
	store  Store
	prefix string
}

// NewNamespacedStore wraps store. An empty prefix returns store itself.
func NewNamespacedStore(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &NamespacedStore{store: store, prefix: prefix}
}

func (n *NamespacedStore) key(k string) string { return n.prefix + k }

// Get retrieves a value by key.
func (n *NamespacedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.key(key))
}

// Set stores a value with optional TTL.
func (n *NamespacedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return n.store.Set(ctx, n.key(key), value, ttl)
}

// SetNX stores a value only if the key is absent.
func (n *NamespacedStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	return n.store.SetNX(ctx, n.key(key), value, ttl)
}

// TTL returns the remaining lifetime of key.
func (n *NamespacedStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	return n.store.TTL(ctx, n.key(key))
}

// Delete removes a key.
func (n *NamespacedStore) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.key(key))
}

// Count counts keys under the namespace with the given prefix.
func (n *NamespacedStore) Count(ctx context.Context, prefix string) (int, error) {
	return n.store.Count(ctx, n.key(prefix))
}

// Ping pings the underlying store.
func (n *NamespacedStore) Ping(ctx context.Context) error {
	return n.store.Ping(ctx)
}

// Close is a no-op; the owner of the base store closes it.
func (n *NamespacedStore) Close() error {
	return nil
}
