package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieConfig describes the visitor cookie that carries the session ID.
type CookieConfig struct {
	Name     string        `yaml:"name" json:"name"`
	Secure   bool          `yaml:"secure" json:"secure"`
	SameSite string        `yaml:"same_site" json:"same_site"`
	MaxAge   time.Duration `yaml:"max_age" json:"max_age"`
}

// DefaultCookieName is used when CookieConfig.Name is empty.
const DefaultCookieName = "_leadgate_session"

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

// ReadID returns the session ID from the request cookie, or "" if absent or malformed.
func ReadID(r *http.Request, cfg CookieConfig) string {
	cookie, err := r.Cookie(cfg.name())
	if err != nil || !ValidID(cookie.Value) {
		return ""
	}
	return cookie.Value
}

// WriteCookie sets the session cookie. It is always HttpOnly.
func WriteCookie(w http.ResponseWriter, cfg CookieConfig, id string) {
	cookie := &http.Cookie{
		Name:     cfg.name(),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: parseSameSite(cfg.SameSite),
	}
	if cfg.MaxAge > 0 {
		cookie.MaxAge = int(cfg.MaxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
