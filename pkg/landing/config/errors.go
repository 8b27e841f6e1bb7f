package config

import "errors"

var (
	// ErrServiceNameRequired is returned when service name is not provided
	ErrServiceNameRequired = errors.New("service name is required")

	// ErrConfigFileNotFound is returned when config file is not found
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrPortInvalid is returned for a port outside 0-65535
	ErrPortInvalid = errors.New("server.port is out of range")

	// ErrEndpointRequired is returned when no remote endpoint is set outside development
	ErrEndpointRequired = errors.New("remote.endpoint is required unless server.development is enabled")

	// ErrEndpointInvalid is returned when the remote endpoint is not an http(s) URL
	ErrEndpointInvalid = errors.New("remote.endpoint must be an http(s) URL")

	// ErrRedirectURLInvalid is returned when the redirect URL is not an http(s) URL
	ErrRedirectURLInvalid = errors.New("flow.redirect_url must be an http(s) URL")

	// ErrNegativeDuration is returned for durations below zero
	ErrNegativeDuration = errors.New("duration must not be negative")

	// ErrSameSiteNoneInsecure is returned when SameSite=None is used without Secure
	ErrSameSiteNoneInsecure = errors.New("session.cookie.samesite none requires session.cookie.secure")

	// ErrRateLimitNegative is returned for negative rate limit values
	ErrRateLimitNegative = errors.New("ratelimit.per_minute and ratelimit.burst must not be negative")

	// ErrEmailFromRequired is returned when email notifications have no sender address
	ErrEmailFromRequired = errors.New("notify.email.from is required when email is enabled")

	// ErrEmailSenderInvalid is returned for an unknown sender type
	ErrEmailSenderInvalid = errors.New("notify.email.sender_type is invalid")

	// ErrTelegramTokenRequired is returned when telegram is enabled without a token
	ErrTelegramTokenRequired = errors.New("notify.telegram.token is required when telegram is enabled")

	// ErrTelegramChatIDRequired is returned when telegram is enabled without a chat
	ErrTelegramChatIDRequired = errors.New("notify.telegram.chat_id is required when telegram is enabled")

	// ErrLogFilePathRequired is returned when file logging has no path
	ErrLogFilePathRequired = errors.New("logging.file.path is required when file logging is configured")
)
