package remote

import (
	"context"
	"net/url"
	"time"
)

// Observer receives one call per performed action.
type Observer interface {
	ObserveRemote(action Action, outcome string, elapsed time.Duration)
}

// InstrumentedClient reports every call to an Observer.
type InstrumentedClient struct {
	next     Client
	observer Observer
	now      func() time.Time
}

// NewInstrumentedClient wraps next. A nil observer returns next unchanged.
func NewInstrumentedClient(next Client, observer Observer) Client {
	if observer == nil {
		return next
	}
	return &InstrumentedClient{next: next, observer: observer, now: time.Now}
}

// Perform delegates and records the outcome and duration.
func (c *InstrumentedClient) Perform(ctx context.Context, action Action, fields url.Values) (*Response, error) {
	start := c.now()
	resp, err := c.next.Perform(ctx, action, fields)
	c.observer.ObserveRemote(action, Outcome(err), c.now().Sub(start))
	return resp, err
}
