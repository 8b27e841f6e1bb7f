// Package factory builds the landing handler and its components from config.
package factory

import (
	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/core"
	"github.com/ideamans/leadgate/pkg/landing/metrics"
	"github.com/ideamans/leadgate/pkg/landing/notify"
	"github.com/ideamans/leadgate/pkg/landing/ratelimit"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// Stores are the key-value stores that outlive a config reload.
type Stores struct {
	Session  kvs.Store
	Cooldown kvs.Store
}

// Close closes both stores.
func (s Stores) Close() error {
	var firstErr error
	for _, store := range []kvs.Store{s.Session, s.Cooldown} {
		if store == nil {
			continue
		}
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Factory is a small DI container for the landing service. Embed
// DefaultFactory to override single components.
type Factory interface {
	// CreateHandler builds a complete handler over stores created once by
	// CreateKVSStores. m may be nil.
	CreateHandler(cfg *config.Config, stores Stores, m *metrics.Metrics, logger logging.Logger) (*core.Handler, error)

	// CreateKVSStores creates the session and cooldown stores.
	CreateKVSStores(cfg *config.Config) (Stores, error)

	// CreateRemoteClient creates the endpoint client: HTTP, circuit breaker,
	// then instrumentation when observer is non-nil.
	CreateRemoteClient(cfg config.RemoteConfig, observer remote.Observer) remote.Client

	// CreateNotifier creates the post-submit notifier. It never returns nil.
	CreateNotifier(cfg *config.Config, translator *i18n.Translator) (notify.Notifier, error)

	// CreateRateLimiter creates the per-IP limiter, or nil when disabled.
	CreateRateLimiter(cfg config.RateLimitConfig) *ratelimit.IPLimiter

	// CreateTranslator creates an i18n translator.
	CreateTranslator() *i18n.Translator
}
