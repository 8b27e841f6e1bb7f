package core

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ideamans/leadgate/pkg/landing/assets"
	"github.com/ideamans/leadgate/pkg/landing/chrome"
	"github.com/ideamans/leadgate/pkg/landing/flow"
	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/landing/presenter"
	"github.com/ideamans/leadgate/pkg/landing/session"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
)

// handleIndex renders the landing page. Loading the page resets the flow.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     "lang",
			Value:    string(i18n.DetectLanguage(r)),
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		})
	}
	h.apply(w, r, flow.Intent{Kind: flow.KindPageLoad})
}

// handleSendOTP requests an OTP for name, email and mobile.
func (h *Handler) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	l := lead.FromForm(r.PostForm)
	h.apply(w, r, flow.Intent{Kind: flow.KindRequestOTP, Lead: lead.Lead{Name: l.Name, Email: l.Email, Mobile: l.Mobile}})
}

// handleVerifyOTP checks the OTP for the session's mobile.
func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	h.apply(w, r, flow.Intent{Kind: flow.KindVerifyOTP, OTP: r.PostForm.Get("otp")})
}

// handleSubmit delivers the lead.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	h.apply(w, r, flow.Intent{Kind: flow.KindSubmit, Lead: lead.FromForm(r.PostForm), Agreed: agreed(r)})
}

// handleMobile resets the flow when the visitor edits the mobile.
func (h *Handler) handleMobile(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	mobile := strings.TrimSpace(r.PostForm.Get(lead.FieldMobile))
	h.apply(w, r, flow.Intent{Kind: flow.KindMobileEdited, Lead: lead.Lead{Mobile: mobile}})
}

// apply runs one intent and renders the result.
func (h *Handler) apply(w http.ResponseWriter, r *http.Request, in flow.Intent) {
	msgs := h.messages(r)
	res := h.controller.Handle(r.Context(), session.ReadID(r, h.cookie), in, msgs)
	session.WriteCookie(w, h.cookie, res.Session.ID)

	if errors.Is(res.Err, flow.ErrCooldown) && h.metrics != nil {
		h.metrics.RateLimited("cooldown")
	}
	h.presenter.Render(w, r, statusCode(res.Err), res.View)
}

// handleLimited answers a throttled API request with the current view.
func (h *Handler) handleLimited(w http.ResponseWriter, r *http.Request) {
	if h.metrics != nil {
		h.metrics.RateLimited("ip")
	}
	h.logger.Warn("Rate limit exceeded", "ip", h.limiter.ClientIP(r), "path", r.URL.Path)

	msgs := h.messages(r)
	res := h.controller.View(r.Context(), session.ReadID(r, h.cookie), msgs)
	session.WriteCookie(w, h.cookie, res.Session.ID)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	_ = r.ParseForm()
	h.presenter.Render(w, r, http.StatusTooManyRequests, res.View.WithStatus(presenter.Failure(msgs("request.too_many"))))
}

// handleDownload serves a generated text attachment. The toast to show
// travels in the X-Toast header, percent-encoded.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	d, ok := h.downloads.Lookup(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if h.metrics != nil {
		h.metrics.Download(d.Name)
	}

	lang := i18n.DetectLanguage(r)
	w.Header().Set("Content-Type", chrome.ContentType)
	w.Header().Set("Content-Disposition", d.Disposition())
	w.Header().Set(chrome.ToastHeader, url.PathEscape(h.translator.T(lang, d.ToastKey)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(d.Body))
}

// staticHandler serves the embedded stylesheet and script.
func (h *Handler) staticHandler() http.Handler {
	files := http.StripPrefix(PathStatic, http.FileServer(http.FS(assets.Static())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000") // Cache for 1 year; URLs are versioned
		files.ServeHTTP(w, r)
	})
}

// handleHealth handles the liveness endpoint
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady handles the readiness endpoint
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			h.logger.Warn("Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}
