package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// BreakerSettings configures the circuit breaker in front of the endpoint.
type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// Interval clears the failure counts while closed. 0 never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// BreakerClient fails fast with ErrUnavailable while the endpoint keeps failing.
// Rejections and cancellations do not count as failures.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps next with a circuit breaker.
func NewBreakerClient(next Client, s BreakerSettings, logger logging.Logger) *BreakerClient {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewSimpleLogger("remote-breaker", logging.LevelInfo, false)
	}

	settings := gobreaker.Settings{
		Name:        "remote-endpoint",
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerClient{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Perform runs the action through the breaker.
func (b *BreakerClient) Perform(ctx context.Context, action Action, fields url.Values) (*Response, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Perform(ctx, action, fields)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, _ := result.(*Response)
	return resp, err
}

// State returns "closed", "half-open" or "open".
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}
