package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/core"
	"github.com/ideamans/leadgate/pkg/landing/flow"
	"github.com/ideamans/leadgate/pkg/landing/metrics"
	"github.com/ideamans/leadgate/pkg/landing/notify"
	"github.com/ideamans/leadgate/pkg/landing/notify/email"
	"github.com/ideamans/leadgate/pkg/landing/notify/telegram"
	"github.com/ideamans/leadgate/pkg/landing/ratelimit"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/landing/session"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// DefaultFactory is the default implementation of Factory.
type DefaultFactory struct {
	host   string
	port   int
	logger logging.Logger
}

// NewDefaultFactory creates a new DefaultFactory
func NewDefaultFactory(host string, port int, logger logging.Logger) *DefaultFactory {
	return &DefaultFactory{
		host:   host,
		port:   port,
		logger: logger,
	}
}

// CreateHandler creates the handler with every component wired.
func (f *DefaultFactory) CreateHandler(cfg *config.Config, stores Stores, m *metrics.Metrics, logger logging.Logger) (*core.Handler, error) {
	return buildHandler(f, cfg, stores, m, logger)
}

// buildHandler wires a handler from the components f creates, so a factory
// embedding DefaultFactory gets its overrides used.
func buildHandler(f Factory, cfg *config.Config, stores Stores, m *metrics.Metrics, logger logging.Logger) (*core.Handler, error) {
	translator := f.CreateTranslator()

	var observer remote.Observer
	if m != nil {
		observer = m
	}
	client := f.CreateRemoteClient(cfg.Remote, observer)

	notifier, err := f.CreateNotifier(cfg, translator)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	sessions := session.NewKVSStore(stores.Session, cfg.Session.GetTTL())
	cooldown := ratelimit.NewCooldown(cfg.Flow.GetCooldown(), stores.Cooldown)

	ctrl := flow.NewController(sessions, client, cooldown, flow.Options{
		RequireAgreement: cfg.Flow.GetRequireAgreement(),
		RedirectURL:      cfg.Flow.RedirectURL,
		RedirectDelay:    cfg.Flow.GetRedirectDelay(),
		NotifyTimeout:    cfg.Flow.GetNotifyTimeout(),
	}, logger)
	ctrl.SetNotifier(notifier)
	if m != nil {
		ctrl.SetObserver(m)
	}

	limiter := f.CreateRateLimiter(cfg.RateLimit)
	h, err := core.New(cfg, ctrl, translator, limiter, m, logger)
	if err != nil {
		if limiter != nil {
			limiter.Close()
		}
		_ = ctrl.Close(context.Background())
		return nil, fmt.Errorf("failed to create handler: %w", err)
	}
	h.SetReadyCheck(func(ctx context.Context) error {
		return errors.Join(stores.Session.Ping(ctx), stores.Cooldown.Ping(ctx))
	})
	return h, nil
}

// CreateKVSStores creates the stores from kvs.default with per-use namespaces,
// or from the dedicated kvs.session / kvs.cooldown overrides.
func (f *DefaultFactory) CreateKVSStores(cfg *config.Config) (Stores, error) {
	cfg.KVS.Namespaces.SetDefaults()

	sessionStore, err := f.createStore("session", cfg.KVS.Session, cfg.KVS.Default, cfg.KVS.Namespaces.Session)
	if err != nil {
		return Stores{}, err
	}
	cooldownStore, err := f.createStore("cooldown", cfg.KVS.Cooldown, cfg.KVS.Default, cfg.KVS.Namespaces.Cooldown)
	if err != nil {
		_ = sessionStore.Close()
		return Stores{}, err
	}
	return Stores{Session: sessionStore, Cooldown: cooldownStore}, nil
}

func (f *DefaultFactory) createStore(name string, dedicated *kvs.Config, def kvs.Config, namespace string) (kvs.Store, error) {
	if dedicated != nil {
		store, err := kvs.New(*dedicated)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s KVS: %w", name, err)
		}
		f.logger.Debug("KVS initialized (dedicated)", "use", name, "type", dedicated.Type, "namespace", dedicated.Namespace)
		return store, nil
	}

	c := def
	c.Namespace = namespace
	store, err := kvs.New(c)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s KVS: %w", name, err)
	}
	f.logger.Debug("KVS initialized (default)", "use", name, "type", c.Type, "namespace", c.Namespace)
	return store, nil
}

// CreateRemoteClient creates the endpoint client chain.
func (f *DefaultFactory) CreateRemoteClient(cfg config.RemoteConfig, observer remote.Observer) remote.Client {
	opts := []remote.HTTPOption{
		remote.WithTimeout(cfg.GetTimeout()),
		remote.WithLogger(f.logger),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, remote.WithUserAgent(cfg.UserAgent))
	}

	var client remote.Client = remote.NewHTTPClient(cfg.Endpoint, opts...)
	if !cfg.Breaker.Disabled {
		client = remote.NewBreakerClient(client, remote.BreakerSettings{
			MaxFailures: cfg.Breaker.MaxFailures,
			Interval:    cfg.Breaker.GetInterval(),
			Timeout:     cfg.Breaker.GetTimeout(),
		}, f.logger)
	}
	if observer != nil {
		client = remote.NewInstrumentedClient(client, observer)
	}
	return client
}

// CreateNotifier creates the email and Telegram notifiers that are enabled.
func (f *DefaultFactory) CreateNotifier(cfg *config.Config, translator *i18n.Translator) (notify.Notifier, error) {
	var notifiers []notify.Notifier

	if cfg.Notify.Email.Enabled {
		sender, err := email.NewSender(cfg.Notify.Email)
		if err != nil {
			return nil, err
		}
		tmpl := email.NewAckTemplate(
			cfg.Service.Name,
			cfg.Service.LogoURL,
			cfg.Service.LogoWidth,
			cfg.Service.IconURL,
			f.baseURL(cfg.Service),
		)
		notifiers = append(notifiers, email.NewNotifier(sender, tmpl, translator, i18n.DefaultLanguage, f.logger))
		f.logger.Debug("Email notifier enabled", "sender", cfg.Notify.Email.SenderType)
	}

	if cfg.Notify.Telegram.Enabled {
		tg, err := telegram.New(cfg.Notify.Telegram, cfg.Service.Name, nil, f.logger)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
		f.logger.Debug("Telegram notifier enabled", "chat", cfg.Notify.Telegram.ChatID)
	}

	return notify.Combine(notifiers...), nil
}

// CreateRateLimiter creates the per-IP limiter for the form API.
func (f *DefaultFactory) CreateRateLimiter(cfg config.RateLimitConfig) *ratelimit.IPLimiter {
	if cfg.Disabled {
		return nil
	}
	return ratelimit.NewIPLimiter(cfg.PerMinute, cfg.Burst, cfg.TrustForwarded)
}

// CreateTranslator creates an i18n translator
func (f *DefaultFactory) CreateTranslator() *i18n.Translator {
	return i18n.NewTranslator()
}

// baseURL is the public URL linked from emails.
func (f *DefaultFactory) baseURL(svc config.ServiceConfig) string {
	if svc.BaseURL != "" {
		return svc.BaseURL
	}
	host := f.host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	// Use HTTPS by default, except for local development hosts
	scheme := "https"
	if host == "localhost" || host == "127.0.0.1" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, f.port)
}
