package session

import (
	"context"
	"errors"
)

// Load returns the stored session for id, or a new idle session with that id
// when none exists. An invalid id yields a session with a fresh id.
func Load(ctx context.Context, store Store, id string) (*Session, error) {
	if !ValidID(id) {
		return New(), nil
	}

	sess, err := store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return &Session{ID: id, State: StateIdle}, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}
