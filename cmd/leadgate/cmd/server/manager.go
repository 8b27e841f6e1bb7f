package server

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/core"
	"github.com/ideamans/leadgate/pkg/landing/factory"
	"github.com/ideamans/leadgate/pkg/landing/metrics"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/shared/filewatcher"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// drainTimeout bounds how long a replaced handler may finish its requests and tasks.
const drainTimeout = 30 * time.Second

// generation is one built handler and the requests it is serving.
type generation struct {
	handler  *core.Handler
	inflight atomic.Int64
}

// HandlerManager owns the live landing handler and swaps it on config reload.
// Stores, metrics and the development stub endpoint are created once and
// survive reloads.
type HandlerManager struct {
	current  atomic.Pointer[generation]
	draining atomic.Bool
	retiring sync.WaitGroup

	configPath string
	factory    factory.Factory
	stores     factory.Stores
	kvsConfig  config.KVSConfig
	metrics    *metrics.Metrics
	logger     logging.Logger

	stubOnce sync.Once
	stub     *remote.StubEndpoint
	reloadMu sync.Mutex
}

// NewHandlerManager creates a manager from the config file at configPath.
// defaultCfg is used instead when configPath is empty.
func NewHandlerManager(configPath string, defaultCfg *config.Config, f factory.Factory, logger logging.Logger) (*HandlerManager, error) {
	if logger == nil {
		logger = logging.NewSimpleLogger("handler-manager", logging.LevelInfo, true)
	}

	cfg := defaultCfg
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cfg == nil {
		return nil, fmt.Errorf("no configuration available")
	}

	stores, err := f.CreateKVSStores(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create KVS stores: %w", err)
	}

	m := &HandlerManager{
		configPath: configPath,
		factory:    f,
		stores:     stores,
		kvsConfig:  cfg.KVS,
		logger:     logger,
	}
	if cfg.Metrics.IsEnabled() {
		m.metrics = metrics.New()
	}

	h, err := m.build(cfg)
	if err != nil {
		_ = stores.Close()
		m.stopStub()
		return nil, fmt.Errorf("failed to build initial handler: %w", err)
	}
	m.current.Store(&generation{handler: h})

	logger.Info("Handler manager initialized", "config_path", configPath)
	return m, nil
}

// loadConfig loads and validates a config file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.NewFileLoader(path).Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build creates a handler for cfg, pointing an empty development endpoint at
// the local stub.
func (m *HandlerManager) build(cfg *config.Config) (*core.Handler, error) {
	if cfg.Remote.Endpoint == "" && cfg.Server.Development {
		stub := m.ensureStub(cfg.Remote.StubOTP)
		if stub == nil {
			return nil, fmt.Errorf("failed to start stub endpoint")
		}
		cfg.Remote.Endpoint = stub.URL()
		m.logger.Warn("Using STUB form endpoint (for development only)", "url", cfg.Remote.Endpoint, "otp", cfg.Remote.StubOTP)
	}

	return m.factory.CreateHandler(cfg, m.stores, m.metrics, m.logger)
}

func (m *HandlerManager) ensureStub(code string) *remote.StubEndpoint {
	m.stubOnce.Do(func() {
		m.stub = remote.NewStubEndpoint(code, m.logger.WithModule("stub"))
	})
	return m.stub
}

func (m *HandlerManager) stopStub() {
	if m.stub != nil {
		m.stub.Stop()
	}
}

// Stub returns the development stub endpoint, or nil when none was started.
func (m *HandlerManager) Stub() *remote.StubEndpoint {
	return m.stub
}

// Current returns the live handler.
func (m *HandlerManager) Current() *core.Handler {
	return m.current.Load().handler
}

// OnFileChange implements filewatcher.ChangeListener.
func (m *HandlerManager) OnFileChange(event filewatcher.ChangeEvent) {
	if event.Error != nil {
		m.logger.Error("File change event error", "error", event.Error)
		return
	}

	m.logger.Info("Config content change detected, starting reload", "path", event.Path)
	m.reload(event.Path)
}

// reload replaces the live handler. A config that fails to load, validate or
// build leaves the current handler in place.
func (m *HandlerManager) reload(path string) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	cfg, err := loadConfig(path)
	if err != nil {
		m.logger.Error("Failed to reload configuration", "error", err, "path", path)
		m.logger.Error("Keeping current handler configuration")
		return
	}

	if !reflect.DeepEqual(cfg.KVS, m.kvsConfig) {
		m.logger.Warn("KVS configuration changed; restart to apply it")
	}

	next, err := m.build(cfg)
	if err != nil {
		m.logger.Error("Failed to rebuild handler", "error", err)
		m.logger.Error("Keeping current handler configuration")
		return
	}

	prev := m.current.Swap(&generation{handler: next})
	m.logger.Info("Configuration reloaded successfully")

	if prev != nil {
		m.retire(prev)
	}
}

// retire closes a replaced handler once its in-flight requests finish.
func (m *HandlerManager) retire(g *generation) {
	m.retiring.Add(1)
	go func() {
		defer m.retiring.Done()

		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()

		if !waitIdle(ctx, g) {
			m.logger.Warn("Replaced handler still busy, closing anyway", "inflight", g.inflight.Load())
		}
		if err := g.handler.Close(ctx); err != nil {
			m.logger.Warn("Replaced handler did not drain cleanly", "error", err)
		}
	}()
}

// waitIdle polls until g serves no requests. It reports false when ctx ends first.
func waitIdle(ctx context.Context, g *generation) bool {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for g.inflight.Load() > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}

// SetDraining makes /ready report 503 so load balancers stop routing here.
func (m *HandlerManager) SetDraining() {
	m.draining.Store(true)
}

// Handler returns an http.Handler that always serves through the live handler.
func (m *HandlerManager) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.draining.Load() && r.URL.Path == core.PathReady {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("DRAINING"))
			return
		}
		g := m.acquire()
		defer g.inflight.Add(-1)
		g.handler.ServeHTTP(w, r)
	})
}

// acquire counts a request against the live generation. A generation swapped
// out between the load and the count is released and the load retried, so
// retire never sees it idle while a request is about to use it.
func (m *HandlerManager) acquire() *generation {
	for {
		g := m.current.Load()
		g.inflight.Add(1)
		if m.current.Load() == g {
			return g
		}
		g.inflight.Add(-1)
	}
}

// Close drains the live handler and releases the stores and stub.
func (m *HandlerManager) Close(ctx context.Context) error {
	m.retiring.Wait()

	var err error
	if g := m.current.Load(); g != nil {
		err = g.handler.Close(ctx)
	}
	if cerr := m.stores.Close(); cerr != nil && err == nil {
		err = cerr
	}
	m.stopStub()
	return err
}
