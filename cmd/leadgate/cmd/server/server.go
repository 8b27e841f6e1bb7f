package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/factory"
	"github.com/ideamans/leadgate/pkg/shared/filewatcher"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// Config represents the configuration for running the server
type Config struct {
	ConfigPath string
	Host       string // From command-line flag
	Port       int    // From command-line flag
	HostSet    bool   // Whether host was explicitly set via flag
	PortSet    bool   // Whether port was explicitly set via flag
	Logger     logging.Logger
	Version    string
}

// ResolvedConfig represents the final resolved configuration
type ResolvedConfig struct {
	Host string
	Port int
}

// Addr returns host:port.
func (r ResolvedConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// Run starts the server and blocks until ctx ends, a signal arrives or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewSimpleLogger("main", logging.LevelInfo, true)
	}

	logger.Info("Starting leadgate", "version", cfg.Version)

	var defaultCfg *config.Config
	configPath := cfg.ConfigPath
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			logger.Warn("Config file not found, using default configuration", "path", configPath)
			configPath = ""
		}
	} else {
		logger.Warn("No config file specified, using default configuration")
	}
	if configPath == "" {
		logDefaultConfigWarnings(logger)
		defaultCfg = DefaultConfig()
	}

	resolved := resolveServerConfig(cfg, configPath, logger)

	f := factory.NewDefaultFactory(resolved.Host, resolved.Port, logger)
	manager, err := NewHandlerManager(configPath, defaultCfg, f, logger)
	if err != nil {
		return formatConfigError(err)
	}
	logger.Info("Handler manager initialized successfully")

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if configPath != "" {
		watcher, err := filewatcher.NewWatcher(configPath, 100*time.Millisecond)
		if err != nil {
			_ = manager.Close(context.Background())
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer func() { _ = watcher.Close() }()

		watcher.AddListener(manager)
		go func() {
			if err := watcher.Start(sigCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("File watcher error", "error", err)
			}
		}()
		logger.Info("File watcher initialized for hot reload", "config_file", configPath)
	}

	server := &http.Server{
		Addr:              resolved.Addr(),
		Handler:           manager.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(sigCtx, server, manager, shutdownTimeout(configPath, defaultCfg), logger)
}

// serve runs server until ctx ends, then drains the manager.
func serve(ctx context.Context, server *http.Server, manager *HandlerManager, timeout time.Duration, logger logging.Logger) error {
	logger.Info("Starting server", "addr", server.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		} else {
			errChan <- nil
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received, stopping server...")
		manager.SetDraining()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		runErr = <-errChan
	case runErr = <-errChan:
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := manager.Close(closeCtx); err != nil {
		logger.Warn("Handler did not drain cleanly", "error", err)
	}

	if runErr != nil {
		logger.Error("Server stopped with error", "error", runErr)
		return runErr
	}
	logger.Info("Server stopped successfully")
	return nil
}

// shutdownTimeout reads server.shutdown_timeout from the active config.
func shutdownTimeout(configPath string, defaultCfg *config.Config) time.Duration {
	if configPath == "" {
		return defaultCfg.Server.GetShutdownTimeout()
	}
	cfg, err := config.NewFileLoader(configPath).Load()
	if err != nil {
		return config.ServerConfig{}.GetShutdownTimeout()
	}
	return cfg.Server.GetShutdownTimeout()
}

// resolveServerConfig resolves the final host and port configuration
// Priority: Command-line flags > Config file > Default values
func resolveServerConfig(cfg Config, configPath string, logger logging.Logger) ResolvedConfig {
	resolved := ResolvedConfig{
		Host: cfg.Host,
		Port: cfg.Port,
	}

	var fileCfg config.ServerConfig
	if configPath != "" {
		loaded, err := config.NewFileLoader(configPath).Load()
		if err != nil {
			logger.Warn("Failed to load server config from file, using defaults", "error", err)
		} else {
			fileCfg = loaded.Server
		}
	}

	if !cfg.HostSet && fileCfg.Host != "" {
		resolved.Host = fileCfg.Host
		logger.Info("Using host from config file", "host", resolved.Host)
	} else if cfg.HostSet {
		logger.Info("Using host from command-line flag", "host", resolved.Host)
	}

	if !cfg.PortSet && fileCfg.Port != 0 {
		resolved.Port = fileCfg.Port
		logger.Info("Using port from config file", "port", resolved.Port)
	} else if cfg.PortSet {
		logger.Info("Using port from command-line flag", "port", resolved.Port)
	}

	return resolved
}

// formatConfigError turns load and validation failures into a readable message
func formatConfigError(err error) error {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		var b strings.Builder
		fmt.Fprintf(&b, "Configuration validation failed with %d error(s):\n", len(verr.Errors))
		for i, e := range verr.Errors {
			fmt.Fprintf(&b, "  %d. %v\n", i+1, e)
		}
		b.WriteString("\nPlease fix the errors above in your configuration file.")
		return errors.New(b.String())
	}

	if errors.Is(err, config.ErrConfigFileNotFound) {
		return fmt.Errorf("%v - please create a configuration file or specify the correct path with --config flag", err)
	}

	return fmt.Errorf("failed to initialize landing handler: %v", err)
}
