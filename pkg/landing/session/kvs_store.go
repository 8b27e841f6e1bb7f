package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ideamans/leadgate/pkg/shared/kvs"
)

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// KVSStore stores sessions as JSON in a kvs.Store. Every write refreshes the TTL.
type KVSStore struct {
	kvs kvs.Store
	ttl time.Duration
	now func() time.Time
}

// NewKVSStore creates a session store. A ttl <= 0 defaults to 30 minutes.
func NewKVSStore(store kvs.Store, ttl time.Duration) *KVSStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &KVSStore{kvs: store, ttl: ttl, now: time.Now}
}

// Get retrieves a session by ID.
func (s *KVSStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.kvs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, kvs.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("session: failed to get from KVS: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	if !sess.State.Valid() {
		return nil, fmt.Errorf("session: stored state %q is invalid", sess.State)
	}

	return &sess, nil
}

// Set stores the session, stamping UpdatedAt.
func (s *KVSStore) Set(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		return errors.New("session: empty id")
	}
	sess.UpdatedAt = s.now()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := s.kvs.Set(ctx, sess.ID, data, s.ttl); err != nil {
		return fmt.Errorf("session: failed to set in KVS: %w", err)
	}
	return nil
}

// Delete removes a session by ID.
func (s *KVSStore) Delete(ctx context.Context, id string) error {
	if err := s.kvs.Delete(ctx, id); err != nil {
		return fmt.Errorf("session: failed to delete from KVS: %w", err)
	}
	return nil
}

// Count returns the number of live sessions.
func (s *KVSStore) Count(ctx context.Context) (int, error) {
	n, err := s.kvs.Count(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("session: failed to count: %w", err)
	}
	return n, nil
}
