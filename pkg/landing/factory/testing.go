package factory

import (
	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/core"
	"github.com/ideamans/leadgate/pkg/landing/metrics"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// TestingFactory is a factory for tests. It embeds DefaultFactory and always
// uses in-memory stores and a MockClient instead of the HTTP endpoint.
type TestingFactory struct {
	*DefaultFactory
	Client *remote.MockClient
}

// NewTestingFactory creates a TestingFactory whose endpoint accepts everything.
func NewTestingFactory(host string, port int) *TestingFactory {
	logger := logging.NewSimpleLogger("test", logging.LevelInfo, false)
	return NewTestingFactoryWithLogger(host, port, logger)
}

// NewTestingFactoryWithLogger creates a TestingFactory with a custom logger.
func NewTestingFactoryWithLogger(host string, port int, logger logging.Logger) *TestingFactory {
	return &TestingFactory{
		DefaultFactory: NewDefaultFactory(host, port, logger),
		Client:         &remote.MockClient{},
	}
}

// CreateHandler wires the handler with the testing components.
func (f *TestingFactory) CreateHandler(cfg *config.Config, stores Stores, m *metrics.Metrics, logger logging.Logger) (*core.Handler, error) {
	return buildHandler(f, cfg, stores, m, logger)
}

// CreateKVSStores creates in-memory stores regardless of configuration.
func (f *TestingFactory) CreateKVSStores(cfg *config.Config) (Stores, error) {
	cfg.KVS.Namespaces.SetDefaults()

	sessionStore, err := kvs.New(kvs.Config{Type: "memory", Namespace: cfg.KVS.Namespaces.Session})
	if err != nil {
		return Stores{}, err
	}
	cooldownStore, err := kvs.New(kvs.Config{Type: "memory", Namespace: cfg.KVS.Namespaces.Cooldown})
	if err != nil {
		_ = sessionStore.Close()
		return Stores{}, err
	}
	return Stores{Session: sessionStore, Cooldown: cooldownStore}, nil
}

// CreateRemoteClient returns the factory's MockClient, instrumented when
// observer is non-nil.
func (f *TestingFactory) CreateRemoteClient(cfg config.RemoteConfig, observer remote.Observer) remote.Client {
	if observer != nil {
		return remote.NewInstrumentedClient(f.Client, observer)
	}
	return f.Client
}
