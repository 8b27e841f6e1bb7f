package config

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ideamans/leadgate/pkg/landing/chrome"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
)

// Config represents the application configuration
type Config struct {
	Service   ServiceConfig   `yaml:"service" json:"service"`
	Server    ServerConfig    `yaml:"server" json:"server"`
	Remote    RemoteConfig    `yaml:"remote" json:"remote"`
	Flow      FlowConfig      `yaml:"flow" json:"flow"`
	Session   SessionConfig   `yaml:"session" json:"session"`
	KVS       KVSConfig       `yaml:"kvs" json:"kvs"`
	RateLimit RateLimitConfig `yaml:"ratelimit" json:"ratelimit"`
	Notify    NotifyConfig    `yaml:"notify" json:"notify"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Page      PageConfig      `yaml:"page" json:"page"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
}

// ServiceConfig contains service-level settings
type ServiceConfig struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	BaseURL     string `yaml:"base_url" json:"base_url"`     // Public URL of the landing page, used in emails
	LogoURL     string `yaml:"logo_url" json:"logo_url"`     // Logo shown in the acknowledgement email
	LogoWidth   string `yaml:"logo_width" json:"logo_width"` // e.g. "120px"
	IconURL     string `yaml:"icon_url" json:"icon_url"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string `yaml:"host" json:"host"`                         // Overridden by --host
	Port            int    `yaml:"port" json:"port"`                         // Overridden by --port
	Development     bool   `yaml:"development" json:"development"`           // Allows running without a remote endpoint (local stub)
	ShutdownTimeout string `yaml:"shutdown_timeout" json:"shutdown_timeout"` // default: 30s
}

// GetShutdownTimeout returns the graceful shutdown deadline
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	return durationOr(s.ShutdownTimeout, 30*time.Second)
}

// RemoteConfig describes the form endpoint
type RemoteConfig struct {
	Endpoint  string        `yaml:"endpoint" json:"endpoint"`     // Form endpoint URL; empty runs the local stub in development
	Timeout   string        `yaml:"timeout" json:"timeout"`       // Per-request timeout (default: 15s)
	UserAgent string        `yaml:"user_agent" json:"user_agent"` // Optional User-Agent header
	Breaker   BreakerConfig `yaml:"breaker" json:"breaker"`
	StubOTP   string        `yaml:"stub_otp" json:"stub_otp"` // OTP accepted by the local stub (default: 123456)
}

// GetTimeout returns the per-request timeout
func (r RemoteConfig) GetTimeout() time.Duration {
	return durationOr(r.Timeout, 15*time.Second)
}

// BreakerConfig contains circuit breaker settings
type BreakerConfig struct {
	Disabled    bool   `yaml:"disabled" json:"disabled"`
	MaxFailures uint32 `yaml:"max_failures" json:"max_failures"` // Consecutive failures before opening (default: 5)
	Interval    string `yaml:"interval" json:"interval"`         // Closed-state counter reset interval (default: 0, never)
	Timeout     string `yaml:"timeout" json:"timeout"`           // Open-state duration (default: 30s)
}

// GetInterval returns the counter reset interval
func (b BreakerConfig) GetInterval() time.Duration {
	return durationOr(b.Interval, 0)
}

// GetTimeout returns how long the breaker stays open
func (b BreakerConfig) GetTimeout() time.Duration {
	return durationOr(b.Timeout, 30*time.Second)
}

// FlowConfig contains the OTP form behavior
type FlowConfig struct {
	Cooldown         string `yaml:"cooldown" json:"cooldown"`                   // Minimum time between OTP requests (default: 60s)
	RequireAgreement *bool  `yaml:"require_agreement" json:"require_agreement"` // Terms checkbox required to submit (default: true)
	RedirectURL      string `yaml:"redirect_url" json:"redirect_url"`           // Where the page goes after a submit
	RedirectDelay    string `yaml:"redirect_delay" json:"redirect_delay"`       // default: 1.5s
	NotifyTimeout    string `yaml:"notify_timeout" json:"notify_timeout"`       // Bound for background notifications (default: 30s)
}

// GetCooldown returns the OTP cooldown
func (f FlowConfig) GetCooldown() time.Duration {
	return durationOr(f.Cooldown, 60*time.Second)
}

// GetRequireAgreement reports whether the terms checkbox is required
func (f FlowConfig) GetRequireAgreement() bool {
	if f.RequireAgreement == nil {
		return true
	}
	return *f.RequireAgreement
}

// GetRedirectDelay returns the delay before redirecting after a submit
func (f FlowConfig) GetRedirectDelay() time.Duration {
	return durationOr(f.RedirectDelay, 1500*time.Millisecond)
}

// GetNotifyTimeout returns the background notification bound
func (f FlowConfig) GetNotifyTimeout() time.Duration {
	return durationOr(f.NotifyTimeout, 30*time.Second)
}

// SessionConfig contains visitor session settings
// Note: Session storage backend is configured via kvs.default or kvs.session
type SessionConfig struct {
	TTL    string       `yaml:"ttl" json:"ttl"` // Idle lifetime of a flow session (default: 30m)
	Cookie CookieConfig `yaml:"cookie" json:"cookie"`
}

// GetTTL returns the session lifetime
func (s SessionConfig) GetTTL() time.Duration {
	return durationOr(s.TTL, 30*time.Minute)
}

// CookieConfig contains session cookie settings
type CookieConfig struct {
	Name     string `yaml:"name" json:"name"`
	Secure   bool   `yaml:"secure" json:"secure"`
	SameSite string `yaml:"samesite" json:"samesite"`
}

// GetSameSite returns the SameSite cookie attribute based on configuration
func (c CookieConfig) GetSameSite() http.SameSite {
	switch strings.ToLower(c.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// KVSConfig contains the KVS configuration with optional overrides.
// A single backend is shared with namespace isolation unless an override is set.
type KVSConfig struct {
	Default    kvs.Config      `yaml:"default" json:"default"`
	Session    *kvs.Config     `yaml:"session,omitempty" json:"session,omitempty"`     // If nil, uses Default with the session namespace
	Cooldown   *kvs.Config     `yaml:"cooldown,omitempty" json:"cooldown,omitempty"`   // If nil, uses Default with the cooldown namespace
	Namespaces NamespaceConfig `yaml:"namespaces" json:"namespaces"`
}

// NamespaceConfig defines the key prefixes for each use case when sharing a KVS
type NamespaceConfig struct {
	Session  string `yaml:"session" json:"session"`   // Default: "session"
	Cooldown string `yaml:"cooldown" json:"cooldown"` // Default: "cooldown"
}

// SetDefaults sets default namespace names if not specified
func (n *NamespaceConfig) SetDefaults() {
	if n.Session == "" {
		n.Session = "session"
	}
	if n.Cooldown == "" {
		n.Cooldown = "cooldown"
	}
}

// RateLimitConfig throttles the form API per client IP
type RateLimitConfig struct {
	Disabled       bool `yaml:"disabled" json:"disabled"`
	PerMinute      int  `yaml:"per_minute" json:"per_minute"`           // default: 30
	Burst          int  `yaml:"burst" json:"burst"`                     // default: 10
	TrustForwarded bool `yaml:"trust_forwarded" json:"trust_forwarded"` // Use X-Forwarded-For for the client IP
}

// NotifyConfig contains post-submit notification settings
type NotifyConfig struct {
	Email    EmailConfig    `yaml:"email" json:"email"`
	Telegram TelegramConfig `yaml:"telegram" json:"telegram"`
}

// EmailConfig contains acknowledgement email settings
type EmailConfig struct {
	Enabled    bool           `yaml:"enabled" json:"enabled"`
	SenderType string         `yaml:"sender_type" json:"sender_type"` // "smtp", "sendgrid", "resend", "file" or "mock"
	From       string         `yaml:"from" json:"from"`               // "Name <email@example.com>" or "email@example.com"
	FromName   string         `yaml:"from_name" json:"from_name"`
	SMTP       SMTPConfig     `yaml:"smtp" json:"smtp"`
	SendGrid   SendGridConfig `yaml:"sendgrid" json:"sendgrid"`
	Resend     ResendConfig   `yaml:"resend" json:"resend"`
	File       FileConfig     `yaml:"file" json:"file"`
}

// GetFromAddress parses the From field and returns the email address and display name
// Supports RFC 5322 format: "Display Name <email@example.com>" or just "email@example.com"
func (e EmailConfig) GetFromAddress() (string, string) {
	from := strings.TrimSpace(e.From)
	if from == "" {
		return "", ""
	}

	if start, end := strings.Index(from, "<"), strings.Index(from, ">"); start >= 0 && start < end {
		email := strings.TrimSpace(from[start+1 : end])
		name := strings.Trim(strings.TrimSpace(from[:start]), `"`)
		return email, name
	}

	return from, e.FromName
}

// SMTPConfig contains SMTP server settings
type SMTPConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	TLS      bool   `yaml:"tls" json:"tls"` // Implicit TLS (port 465)
}

// SendGridConfig contains SendGrid API settings
type SendGridConfig struct {
	APIKey      string `yaml:"api_key" json:"api_key"`
	EndpointURL string `yaml:"endpoint_url" json:"endpoint_url"` // Optional custom endpoint URL (default: https://api.sendgrid.com)
}

// ResendConfig contains Resend API settings
type ResendConfig struct {
	APIKey      string `yaml:"api_key" json:"api_key"`
	EndpointURL string `yaml:"endpoint_url" json:"endpoint_url"` // Optional custom endpoint URL (default: https://api.resend.com)
}

// FileConfig writes emails to a directory instead of sending them
type FileConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// TelegramConfig contains the sales alert settings
type TelegramConfig struct {
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	Token       string `yaml:"token" json:"token"`
	ChatID      int64  `yaml:"chat_id" json:"chat_id"`
	APIEndpoint string `yaml:"api_endpoint" json:"api_endpoint"` // Optional, e.g. "https://api.telegram.org/bot%s/%s"
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string             `yaml:"level" json:"level"`
	Color bool               `yaml:"color" json:"color"`
	File  *FileLoggingConfig `yaml:"file,omitempty" json:"file,omitempty"` // Optional file logging configuration
}

// FileLoggingConfig contains file logging and rotation settings
type FileLoggingConfig struct {
	Path       string `yaml:"path" json:"path"`                                   // Log file path (required)
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty" json:"max_size_mb,omitempty"` // default: 100
	MaxBackups int    `yaml:"max_backups,omitempty" json:"max_backups,omitempty"` // default: 3
	MaxAge     int    `yaml:"max_age,omitempty" json:"max_age,omitempty"`         // days, default: 28
	Compress   bool   `yaml:"compress,omitempty" json:"compress,omitempty"`
}

// PageConfig contains landing page content
type PageConfig struct {
	Testimonials []chrome.Testimonial `yaml:"testimonials" json:"testimonials"`
	LinkedInURL  string               `yaml:"linkedin_url" json:"linkedin_url"`
}

// MetricsConfig contains the prometheus endpoint settings
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled" json:"enabled"` // default: true
	Path    string `yaml:"path" json:"path"`       // default: /metrics
}

// IsEnabled reports whether /metrics is served
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// Validate checks if the configuration is valid
// Returns a ValidationError containing all validation errors found
func (c *Config) Validate() error {
	verr := NewValidationError()

	if c.Service.Name == "" {
		verr.Add(ErrServiceNameRequired)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		verr.Add(fmt.Errorf("%w: %d", ErrPortInvalid, c.Server.Port))
	}

	if c.Remote.Endpoint == "" {
		if !c.Server.Development {
			verr.Add(ErrEndpointRequired)
		}
	} else if !isHTTPURL(c.Remote.Endpoint) {
		verr.Add(fmt.Errorf("%w: %s", ErrEndpointInvalid, c.Remote.Endpoint))
	}

	if c.Flow.RedirectURL != "" && !isHTTPURL(c.Flow.RedirectURL) {
		verr.Add(fmt.Errorf("%w: %s", ErrRedirectURLInvalid, c.Flow.RedirectURL))
	}

	durations := map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"remote.timeout":          c.Remote.Timeout,
		"remote.breaker.interval": c.Remote.Breaker.Interval,
		"remote.breaker.timeout":  c.Remote.Breaker.Timeout,
		"flow.cooldown":           c.Flow.Cooldown,
		"flow.redirect_delay":     c.Flow.RedirectDelay,
		"flow.notify_timeout":     c.Flow.NotifyTimeout,
		"session.ttl":             c.Session.TTL,
	}
	for _, key := range sortedKeys(durations) {
		if err := checkDuration(durations[key]); err != nil {
			verr.Add(fmt.Errorf("%s: %w", key, err))
		}
	}

	switch strings.ToLower(c.Session.Cookie.SameSite) {
	case "", "lax", "strict":
	case "none":
		if !c.Session.Cookie.Secure {
			verr.Add(ErrSameSiteNoneInsecure)
		}
	default:
		verr.Add(fmt.Errorf("session.cookie.samesite: invalid value %q (valid: lax, strict, none)", c.Session.Cookie.SameSite))
	}

	verr.Add(validateKVS("kvs.default", &c.KVS.Default))
	if c.KVS.Session != nil {
		verr.Add(validateKVS("kvs.session", c.KVS.Session))
	}
	if c.KVS.Cooldown != nil {
		verr.Add(validateKVS("kvs.cooldown", c.KVS.Cooldown))
	}

	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		verr.Add(ErrRateLimitNegative)
	}

	verr.Add(c.validateEmail())

	if t := c.Notify.Telegram; t.Enabled {
		if t.Token == "" {
			verr.Add(ErrTelegramTokenRequired)
		}
		if t.ChatID == 0 {
			verr.Add(ErrTelegramChatIDRequired)
		}
	}

	if c.Logging.File != nil && c.Logging.File.Path == "" {
		verr.Add(ErrLogFilePathRequired)
	}

	return verr.ErrorOrNil()
}

func (c *Config) validateEmail() error {
	e := c.Notify.Email
	if !e.Enabled {
		return nil
	}

	verr := NewValidationError()
	if from, _ := e.GetFromAddress(); from == "" {
		verr.Add(ErrEmailFromRequired)
	}

	switch e.SenderType {
	case "smtp":
		if e.SMTP.Host == "" {
			verr.Add(fmt.Errorf("notify.email.smtp: host is required"))
		}
	case "sendgrid":
		if e.SendGrid.APIKey == "" {
			verr.Add(fmt.Errorf("notify.email.sendgrid: api_key is required"))
		}
	case "resend":
		if e.Resend.APIKey == "" {
			verr.Add(fmt.Errorf("notify.email.resend: api_key is required"))
		}
	case "file":
		if e.File.Dir == "" {
			verr.Add(fmt.Errorf("notify.email.file: dir is required"))
		}
	case "mock":
	default:
		verr.Add(fmt.Errorf("%w: %q (valid: smtp, sendgrid, resend, file, mock)", ErrEmailSenderInvalid, e.SenderType))
	}

	return verr.ErrorOrNil()
}

func validateKVS(key string, cfg *kvs.Config) error {
	switch cfg.Type {
	case "", "memory":
		return nil
	case "redis":
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("%s: redis addr is required", key)
		}
		return nil
	default:
		return fmt.Errorf("%s: unsupported type %q (valid: memory, redis)", key, cfg.Type)
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func checkDuration(s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// durationOr parses s, falling back to def when empty or invalid.
// Validate reports invalid values before they reach here.
func durationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
