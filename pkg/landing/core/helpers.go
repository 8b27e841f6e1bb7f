package core

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ideamans/leadgate/pkg/landing/flow"
	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
)

// statusCode maps an intent's error to the HTTP status of its response.
// The body always carries the view, so the page script reads it either way.
func statusCode(err error) int {
	var uerr *url.Error
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, flow.ErrCooldown):
		return http.StatusTooManyRequests
	case errors.Is(err, flow.ErrSuperseded), errors.Is(err, flow.ErrStale):
		return http.StatusConflict
	case errors.Is(err, lead.ErrNameRequired),
		errors.Is(err, lead.ErrEmailInvalid),
		errors.Is(err, lead.ErrMobileInvalid),
		errors.Is(err, flow.ErrOTPNotRequested),
		errors.Is(err, flow.ErrOTPLength),
		errors.Is(err, flow.ErrAgreementRequired),
		errors.Is(err, flow.ErrNotVerified),
		errors.Is(err, remote.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, remote.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, remote.ErrHTTPStatus),
		errors.Is(err, remote.ErrMalformedResponse),
		errors.As(err, &uerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseForm reads a bounded form body. It answers 400 itself on failure.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Debug("Failed to parse form", "path", r.URL.Path, "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) messages(r *http.Request) flow.Messages {
	return flow.TranslatorMessages(h.translator, i18n.DetectLanguage(r))
}

// agreed reports whether the terms checkbox was ticked.
func agreed(r *http.Request) bool {
	switch strings.ToLower(r.PostForm.Get("agree")) {
	case "on", "1", "true", "yes":
		return true
	}
	return false
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}
