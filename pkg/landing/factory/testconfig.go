package factory

import (
	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
)

// CreateTestConfig creates a minimal valid configuration for testing
func CreateTestConfig() *config.Config {
	cfg := &config.Config{
		Service: config.ServiceConfig{
			Name: "Test Service",
		},
		Server: config.ServerConfig{
			Development: true,
		},
		Remote: config.RemoteConfig{
			Endpoint: "http://127.0.0.1:1/exec",
		},
		Flow: config.FlowConfig{
			Cooldown: "1m",
		},
		Session: config.SessionConfig{
			TTL: "10m",
			Cookie: config.CookieConfig{
				Name:     "_test_session",
				SameSite: "lax",
			},
		},
		KVS: config.KVSConfig{
			Default: kvs.Config{
				Type: "memory",
			},
		},
		Logging: config.LoggingConfig{
			Level: "info",
		},
	}
	config.ApplyDefaults(cfg)
	return cfg
}

// CreateTestConfigWithNotify creates a test config with the mock email sender enabled
func CreateTestConfigWithNotify() *config.Config {
	cfg := CreateTestConfig()
	cfg.Notify.Email = config.EmailConfig{
		Enabled:    true,
		SenderType: "mock",
		From:       "noreply@example.com",
		FromName:   "Test Service",
	}
	return cfg
}
