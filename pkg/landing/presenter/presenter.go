// Package presenter turns the form's render model into responses. Each
// response carries exactly one status line; a new status replaces the old one.
package presenter

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/ideamans/leadgate/pkg/shared/logging"
)

// Status line colors.
const (
	ColorProgress = "#00ff00"
	ColorNotice   = "#070707ea"
	ColorError    = "#ff4444"
)

// Tone classifies a status for styling.
type Tone string

const (
	ToneNone     Tone = ""
	ToneProgress Tone = "progress"
	ToneNotice   Tone = "notice"
	ToneError    Tone = "error"
)

// Status is the single feedback line under the form.
type Status struct {
	Message string `json:"message"`
	Color   string `json:"color"`
	Tone    Tone   `json:"tone"`
}

// Progress is shown while an action runs and after a successful submit.
func Progress(msg string) Status { return Status{Message: msg, Color: ColorProgress, Tone: ToneProgress} }

// Notice is informational feedback.
func Notice(msg string) Status { return Status{Message: msg, Color: ColorNotice, Tone: ToneNotice} }

// Failure reports a guard or remote failure.
func Failure(msg string) Status { return Status{Message: msg, Color: ColorError, Tone: ToneError} }

// Clear hides the status line.
func Clear() Status { return Status{} }

// Visible reports whether the line shows anything.
func (s Status) Visible() bool { return s.Message != "" }

// Redirect asks the page to navigate after a delay.
type Redirect struct {
	URL     string `json:"url"`
	AfterMS int64  `json:"after_ms"`
}

// View is the render model of the lead form.
type View struct {
	State  string `json:"state"`
	Status Status `json:"status"`

	ShowGetOTP   bool   `json:"show_get_otp"`
	ShowOTPEntry bool   `json:"show_otp_entry"`
	ShowOTPSent  bool   `json:"show_otp_sent"`
	OTPValue     string `json:"otp_value"`
	OTPLocked    bool   `json:"otp_locked"`
	ShowVerified bool   `json:"show_verified"`

	SubmitEnabled bool   `json:"submit_enabled"`
	SubmitLabel   string `json:"submit_label,omitempty"`
	SubmitDone    bool   `json:"submit_done"`
	ClearForm     bool   `json:"clear_form"`

	Redirect        *Redirect `json:"redirect,omitempty"`
	CooldownSeconds int       `json:"cooldown_seconds,omitempty"`
	// Superseded marks a reply whose outcome was dropped for a newer request.
	Superseded bool `json:"superseded,omitempty"`
}

// WithStatus returns a copy of v showing s.
func (v View) WithStatus(s Status) View {
	v.Status = s
	return v
}

// WantsJSON reports whether the request came from the page script rather
// than a plain form post.
func WantsJSON(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "fetch" {
		return true
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == "application/json" {
			return true
		}
	}
	return false
}

// WriteJSON writes v with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, code int, v View) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// PageRenderer re-renders the landing page with a view applied.
type PageRenderer interface {
	RenderPage(w http.ResponseWriter, r *http.Request, code int, v View) error
}

// Presenter writes views as JSON for script requests and as a full page for
// plain form posts.
type Presenter struct {
	page   PageRenderer
	logger logging.Logger
}

// New creates a Presenter. A nil page renderer makes every response JSON.
func New(page PageRenderer, logger logging.Logger) *Presenter {
	return &Presenter{page: page, logger: logger.WithModule("presenter")}
}

// Render writes v for r.
func (p *Presenter) Render(w http.ResponseWriter, r *http.Request, code int, v View) {
	if p.page == nil || WantsJSON(r) {
		WriteJSON(w, code, v)
		return
	}
	if err := p.page.RenderPage(w, r, code, v); err != nil {
		p.logger.Error("Failed to render page", "error", err, "state", v.State)
	}
}
