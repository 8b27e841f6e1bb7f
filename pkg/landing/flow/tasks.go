package flow

import (
	"context"
	"sync"
)

// Tasks runs at most one task per key. Starting a task cancels the one
// already running under the same key, and the older one reports ErrSuperseded.
type Tasks struct {
	mu      sync.Mutex
	running map[string]*task
	closed  bool
}

type task struct {
	cancel     context.CancelFunc
	superseded bool
}

// NewTasks creates an empty task group.
func NewTasks() *Tasks {
	return &Tasks{running: make(map[string]*task)}
}

// Run executes fn under key and waits for it.
func (t *Tasks) Run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	me := &task{cancel: cancel}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return context.Canceled
	}
	if prev, ok := t.running[key]; ok {
		prev.superseded = true
		prev.cancel()
	}
	t.running[key] = me
	t.mu.Unlock()

	err := fn(taskCtx)

	t.mu.Lock()
	superseded := me.superseded
	if t.running[key] == me {
		delete(t.running, key)
	}
	t.mu.Unlock()

	if superseded {
		return ErrSuperseded
	}
	return err
}

// InFlight reports whether a task is running under key.
func (t *Tasks) InFlight(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.running[key]
	return ok
}

// Close cancels every running task and refuses new ones.
func (t *Tasks) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for _, running := range t.running {
		running.cancel()
	}
}

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
