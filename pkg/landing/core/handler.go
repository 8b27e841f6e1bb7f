// Package core is the HTTP surface of the landing page: the page itself,
// the form API driven by the page script and plain form posts, downloads,
// static assets, health and metrics.
package core

import (
	"context"
	"net/http"

	"github.com/ideamans/leadgate/pkg/landing/chrome"
	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/flow"
	"github.com/ideamans/leadgate/pkg/landing/metrics"
	"github.com/ideamans/leadgate/pkg/landing/presenter"
	"github.com/ideamans/leadgate/pkg/landing/ratelimit"
	"github.com/ideamans/leadgate/pkg/landing/session"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// Routes.
const (
	PathIndex     = "/"
	PathSendOTP   = "/api/otp/send"
	PathVerifyOTP = "/api/otp/verify"
	PathSubmit    = "/api/lead/submit"
	PathMobile    = "/api/mobile"
	PathDownloads = "/downloads/"
	PathStatic    = "/static/"
	PathHealth    = "/health"
	PathReady     = "/ready"
)

// maxFormBytes bounds a form post body.
const maxFormBytes = 64 << 10

// ReadyFunc reports whether the backing stores are reachable.
type ReadyFunc func(ctx context.Context) error

// Handler serves the landing page and its API.
type Handler struct {
	config     *config.Config
	controller *flow.Controller
	presenter  *presenter.Presenter
	page       *Page
	translator *i18n.Translator
	cookie     session.CookieConfig
	limiter    *ratelimit.IPLimiter
	metrics    *metrics.Metrics
	downloads  chrome.Catalog
	ready      ReadyFunc
	logger     logging.Logger

	mux *http.ServeMux
}

// New creates the handler. limiter and m may be nil.
func New(
	cfg *config.Config,
	controller *flow.Controller,
	translator *i18n.Translator,
	limiter *ratelimit.IPLimiter,
	m *metrics.Metrics,
	logger logging.Logger,
) (*Handler, error) {
	logger = logger.WithModule("core")
	downloads := chrome.DefaultCatalog()

	page, err := NewPage(cfg, translator, downloads)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		config:     cfg,
		controller: controller,
		presenter:  presenter.New(page, logger),
		page:       page,
		translator: translator,
		cookie: session.CookieConfig{
			Name:     cfg.Session.Cookie.Name,
			Secure:   cfg.Session.Cookie.Secure,
			SameSite: cfg.Session.Cookie.SameSite,
			MaxAge:   cfg.Session.GetTTL(),
		},
		limiter:   limiter,
		metrics:   m,
		downloads: downloads,
		logger:    logger,
	}
	h.routes()
	return h, nil
}

// SetReadyCheck sets the readiness probe used by /ready.
func (h *Handler) SetReadyCheck(fn ReadyFunc) {
	h.ready = fn
}

// Controller returns the flow controller.
func (h *Handler) Controller() *flow.Controller {
	return h.controller
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Close stops the rate limiter and drains the controller.
func (h *Handler) Close(ctx context.Context) error {
	if h.limiter != nil {
		h.limiter.Close()
	}
	return h.controller.Close(ctx)
}

func (h *Handler) routes() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.Handle("POST "+PathSendOTP, h.throttled(h.handleSendOTP))
	mux.Handle("POST "+PathVerifyOTP, h.throttled(h.handleVerifyOTP))
	mux.Handle("POST "+PathSubmit, h.throttled(h.handleSubmit))
	mux.Handle("POST "+PathMobile, h.throttled(h.handleMobile))
	mux.HandleFunc("GET "+PathDownloads+"{name}", h.handleDownload)
	mux.Handle("GET "+PathStatic, h.staticHandler())
	mux.HandleFunc("GET "+PathHealth, h.handleHealth)
	mux.HandleFunc("GET "+PathReady, h.handleReady)

	if h.metrics != nil && h.config.Metrics.IsEnabled() {
		mux.Handle("GET "+h.config.Metrics.Path, h.metrics.Handler())
	}

	h.mux = mux
}

// throttled applies the per-IP limiter to an API handler.
func (h *Handler) throttled(fn http.HandlerFunc) http.Handler {
	if h.limiter == nil {
		return fn
	}
	return h.limiter.Middleware(fn, h.handleLimited)
}
