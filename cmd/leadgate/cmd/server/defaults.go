package server

import (
	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// DefaultConfig returns a development configuration for running without a
// config file. The form endpoint is the local stub.
func DefaultConfig() *config.Config {
	cfg := &config.Config{
		Service: config.ServiceConfig{
			Name:        "SkilledUp.Tech",
			Description: "Industry-ready courses with placement support",
		},
		Server: config.ServerConfig{
			Development: true,
		},
		Remote: config.RemoteConfig{
			StubOTP: "123456",
		},
		Logging: config.LoggingConfig{
			Level: "info",
		},
		KVS: config.KVSConfig{
			Default: kvs.Config{
				Type: "memory",
			},
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

// logDefaultConfigWarnings reminds operators that defaults are for development only
func logDefaultConfigWarnings(logger logging.Logger) {
	logger.Warn("========================================")
	logger.Warn("WARNING: Using default configuration")
	logger.Warn("DO NOT USE IN PRODUCTION")
	logger.Warn("========================================")
	logger.Warn("Default values in use:")
	logger.Warn("  - Form endpoint: local stub (auto-started)")
	logger.Warn("  - Stub OTP: 123456 for every mobile")
	logger.Warn("  - Storage: in-memory, lost on restart")
	logger.Warn("========================================")
}
