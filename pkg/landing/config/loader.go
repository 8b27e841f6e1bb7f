package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ideamans/leadgate/pkg/landing/chrome"
	"github.com/ideamans/leadgate/pkg/landing/session"
	sharedconfig "github.com/ideamans/leadgate/pkg/shared/config"
)

// DefaultRedirectURL is where visitors go after a successful submit.
const DefaultRedirectURL = "https://skilledup.tech/category-list.php?c=11&t=0"

// Loader is an interface for loading configuration
type Loader interface {
	Load() (*Config, error)
}

// FileLoader loads configuration from a YAML or JSON file
type FileLoader struct {
	path string
}

// NewFileLoader creates a new FileLoader
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Path returns the file this loader reads.
func (l *FileLoader) Path() string {
	return l.path
}

// Load reads and parses the configuration file
// Supports both YAML (.yaml, .yml) and JSON (.json) formats
// Format is automatically detected from file extension
// Environment variables in the format ${VAR} or ${VAR:-default} are expanded
func (l *FileLoader) Load() (*Config, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, l.path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(l.path))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes config bytes in the format named by ext and applies defaults.
func Parse(data []byte, ext string) (*Config, error) {
	data = sharedconfig.ExpandEnvBytes(data)

	var cfg Config
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults sets default values for optional fields
func ApplyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "SkilledUp.Tech"
	}

	if cfg.Flow.RedirectURL == "" {
		cfg.Flow.RedirectURL = DefaultRedirectURL
	}

	if cfg.Session.Cookie.Name == "" {
		cfg.Session.Cookie.Name = session.DefaultCookieName
	}

	if cfg.Session.Cookie.SameSite == "" {
		cfg.Session.Cookie.SameSite = "lax"
	}

	if cfg.Remote.StubOTP == "" {
		cfg.Remote.StubOTP = "123456"
	}

	if cfg.Remote.Breaker.MaxFailures == 0 {
		cfg.Remote.Breaker.MaxFailures = 5
	}

	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 30
	}

	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}

	if cfg.KVS.Default.Type == "" {
		cfg.KVS.Default.Type = "memory"
	}
	cfg.KVS.Namespaces.SetDefaults()

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if len(cfg.Page.Testimonials) == 0 {
		cfg.Page.Testimonials = chrome.DefaultTestimonials()
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
