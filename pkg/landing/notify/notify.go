// Package notify delivers submitted leads to follow-up channels. Delivery
// never changes what the visitor sees.
package notify

import (
	"context"
	"errors"

	"github.com/ideamans/leadgate/pkg/landing/lead"
)

// Notifier delivers one submitted lead.
type Notifier interface {
	Notify(ctx context.Context, l lead.Lead) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, l lead.Lead) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, l lead.Lead) error {
	return f(ctx, l)
}

// Multi notifies every channel and joins their errors.
type Multi []Notifier

// Notify calls each notifier in order, even after a failure.
func (m Multi) Notify(ctx context.Context, l lead.Lead) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every lead.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, lead.Lead) error { return nil }

// Combine returns the notifiers as one, Nop when there are none.
func Combine(notifiers ...Notifier) Notifier {
	var live Multi
	for _, n := range notifiers {
		if n != nil {
			live = append(live, n)
		}
	}
	switch len(live) {
	case 0:
		return Nop{}
	case 1:
		return live[0]
	default:
		return live
	}
}
