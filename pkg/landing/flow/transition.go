// Package flow drives the OTP-gated lead form. Decide and Resolve are pure
// transition functions over a session; Controller runs them around the
// remote calls.
package flow

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/landing/presenter"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/landing/session"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
)

// OTPLength is the number of characters a verify request must carry.
const OTPLength = 6

// Guard errors. Each one maps to exactly one status message.
var (
	ErrCooldown          = errors.New("flow: otp cooldown active")
	ErrOTPNotRequested   = errors.New("flow: otp not requested")
	ErrOTPLength         = errors.New("flow: otp has wrong length")
	ErrAgreementRequired = errors.New("flow: agreement required")
	ErrNotVerified       = errors.New("flow: mobile not verified")
	ErrSuperseded        = errors.New("flow: superseded by a newer request")
	ErrStale             = errors.New("flow: session changed while the request ran")
)

// Kind names what the visitor asked for.
type Kind string

const (
	KindRequestOTP   Kind = "request_otp"
	KindVerifyOTP    Kind = "verify_otp"
	KindSubmit       Kind = "submit"
	KindMobileEdited Kind = "mobile_edited"
	KindPageLoad     Kind = "page_load"
)

// Intent is one visitor input.
type Intent struct {
	Kind   Kind
	Lead   lead.Lead
	OTP    string
	Agreed bool
}

// Messages looks up a user-visible string by key.
type Messages func(key string, args ...interface{}) string

// TranslatorMessages binds a translator to one language.
func TranslatorMessages(t *i18n.Translator, lang i18n.Language) Messages {
	return func(key string, args ...interface{}) string {
		if len(args) == 0 {
			return t.T(lang, key)
		}
		return t.Tf(lang, key, args...)
	}
}

// Env is everything Decide and Resolve need besides the session.
type Env struct {
	Messages         Messages
	RequireAgreement bool
	// CooldownActive is true when a send_otp would be blocked right now.
	CooldownActive  bool
	CooldownSeconds int
	RedirectURL     string
	RedirectDelay   time.Duration
}

// Call is a remote action to perform.
type Call struct {
	Action remote.Action
	Fields url.Values
}

// Decision is the guard result for an intent.
type Decision struct {
	// Call is nil when nothing is sent.
	Call *Call
	// Next is the session to store before the call, nil when unchanged.
	Next *session.Session
	// View is shown right away: the guard failure or the pending status.
	View presenter.View
	// Err is the guard that blocked the intent.
	Err error
}

// ViewOf renders a session without any status.
func ViewOf(s *session.Session, msgs Messages) presenter.View {
	v := presenter.View{State: string(s.State)}
	switch s.State {
	case session.StateIdle:
		v.ShowGetOTP = true
	case session.StateOtpRequested:
		v.ShowOTPEntry = true
		v.ShowOTPSent = true
	case session.StateOtpVerified, session.StateSubmitting:
		v.ShowOTPEntry = true
		v.ShowOTPSent = true
		v.OTPValue = msgs("otp.verified")
		v.OTPLocked = true
		v.ShowVerified = true
		v.SubmitEnabled = s.State == session.StateOtpVerified
	}
	return v
}

// Decide checks an intent against the session before anything is sent.
func Decide(s *session.Session, in Intent, env Env) Decision {
	msgs := env.Messages
	switch in.Kind {
	case KindPageLoad:
		next := s.Clone()
		next.Reset()
		return Decision{Next: next, View: ViewOf(next, msgs)}

	case KindMobileEdited:
		if s.State == session.StateIdle || in.Lead.Mobile == s.Mobile {
			return Decision{View: ViewOf(s, msgs)}
		}
		next := s.Clone()
		next.Reset()
		return Decision{Next: next, View: ViewOf(next, msgs)}

	case KindRequestOTP:
		return decideRequest(s, in, env)

	case KindVerifyOTP:
		return decideVerify(s, in, env)

	case KindSubmit:
		return decideSubmit(s, in, env)
	}
	return Decision{View: ViewOf(s, msgs)}
}

func decideRequest(s *session.Session, in Intent, env Env) Decision {
	msgs := env.Messages
	if err := in.Lead.ValidateContact(); err != nil {
		return reject(s, err, contactMessage(err, msgs), msgs)
	}

	// A different mobile starts over; the same verified mobile needs nothing.
	base := s
	var next *session.Session
	if s.State != session.StateIdle && in.Lead.Mobile != s.Mobile {
		next = s.Clone()
		next.Reset()
		base = next
	} else if s.State == session.StateOtpVerified || s.State == session.StateSubmitting {
		return Decision{View: ViewOf(s, msgs)}
	}

	if env.CooldownActive {
		d := reject(base, ErrCooldown, msgs("otp.cooldown"), msgs)
		d.Next = next
		d.View.CooldownSeconds = env.CooldownSeconds
		return d
	}

	return Decision{
		Call: &Call{
			Action: remote.ActionSendOTP,
			Fields: remote.Fields(remote.ActionSendOTP, in.Lead.Mobile, "", nil),
		},
		Next: next,
		View: ViewOf(base, msgs).WithStatus(presenter.Progress(msgs("otp.sending"))),
	}
}

func decideVerify(s *session.Session, in Intent, env Env) Decision {
	msgs := env.Messages
	switch s.State {
	case session.StateOtpRequested:
	case session.StateOtpVerified, session.StateSubmitting:
		return Decision{View: ViewOf(s, msgs)}
	default:
		return reject(s, ErrOTPNotRequested, msgs("otp.request_first"), msgs)
	}

	otp := strings.TrimSpace(in.OTP)
	if utf8.RuneCountInString(otp) != OTPLength {
		d := reject(s, ErrOTPLength, msgs("otp.length"), msgs)
		d.View.OTPValue = in.OTP
		return d
	}

	v := ViewOf(s, msgs).WithStatus(presenter.Progress(msgs("otp.verifying")))
	v.OTPValue = otp
	return Decision{
		Call: &Call{
			Action: remote.ActionVerify,
			Fields: remote.Fields(remote.ActionVerify, s.Mobile, otp, nil),
		},
		View: v,
	}
}

func decideSubmit(s *session.Session, in Intent, env Env) Decision {
	msgs := env.Messages
	if env.RequireAgreement && !in.Agreed {
		return reject(s, ErrAgreementRequired, msgs("submit.agree_required"), msgs)
	}
	// Submitting is accepted so a repeated submit supersedes the one in flight.
	if s.State != session.StateOtpVerified && s.State != session.StateSubmitting {
		return reject(s, ErrNotVerified, msgs("submit.verify_first"), msgs)
	}
	if in.Lead.Mobile != "" && in.Lead.Mobile != s.Mobile {
		return reject(s, ErrNotVerified, msgs("submit.verify_first"), msgs)
	}
	l := in.Lead
	l.Mobile = s.Mobile
	if err := l.ValidateContact(); err != nil {
		return reject(s, err, contactMessage(err, msgs), msgs)
	}

	next := s.Clone()
	next.State = session.StateSubmitting
	return Decision{
		Call: &Call{
			Action: remote.ActionSubmit,
			Fields: remote.Fields(remote.ActionSubmit, s.Mobile, "", l.Sanitized().Values()),
		},
		Next: next,
		View: ViewOf(next, msgs).WithStatus(presenter.Progress(msgs("submit.submitting"))),
	}
}

// Resolve applies a remote outcome to the session the call was decided on.
// The returned session is the one to store; after a successful submit it is
// already reset while the view still reports "submitted".
func Resolve(s *session.Session, in Intent, resp *remote.Response, err error, env Env) (*session.Session, presenter.View) {
	msgs := env.Messages
	next := s.Clone()

	switch in.Kind {
	case KindRequestOTP:
		if err != nil {
			return next, ViewOf(next, msgs).WithStatus(failure(err, "otp.send_failed", msgs))
		}
		next.State = session.StateOtpRequested
		next.Mobile = in.Lead.Mobile
		v := ViewOf(next, msgs).WithStatus(presenter.Notice(msgs("otp.sent")))
		v.CooldownSeconds = env.CooldownSeconds
		return next, v

	case KindVerifyOTP:
		if err != nil {
			v := ViewOf(next, msgs).WithStatus(failure(err, "otp.verify_failed", msgs))
			v.OTPValue = ""
			return next, v
		}
		next.State = session.StateOtpVerified
		return next, ViewOf(next, msgs)

	case KindSubmit:
		if err != nil {
			next.State = session.StateOtpVerified
			return next, ViewOf(next, msgs).WithStatus(failure(err, "submit.failed", msgs))
		}
		next.Reset()
		return next, submittedView(resp, env)
	}
	return next, ViewOf(next, msgs)
}

func submittedView(resp *remote.Response, env Env) presenter.View {
	message := ""
	if resp != nil {
		message = resp.Message
	}
	text := strings.TrimSpace(env.Messages("submit.redirecting", message))
	v := presenter.View{
		State:       string(session.StateSubmitted),
		Status:      presenter.Progress(text),
		SubmitLabel: text,
		SubmitDone:  true,
		ClearForm:   true,
	}
	if env.RedirectURL != "" {
		v.Redirect = &presenter.Redirect{URL: env.RedirectURL, AfterMS: env.RedirectDelay.Milliseconds()}
	}
	return v
}

func reject(s *session.Session, err error, message string, msgs Messages) Decision {
	return Decision{View: ViewOf(s, msgs).WithStatus(presenter.Failure(message)), Err: err}
}

func contactMessage(err error, msgs Messages) string {
	switch {
	case errors.Is(err, lead.ErrNameRequired):
		return msgs("form.name_required")
	case errors.Is(err, lead.ErrEmailInvalid):
		return msgs("form.email_invalid")
	default:
		return msgs("form.mobile_invalid")
	}
}

// failure builds the status for a failed remote call. Endpoint rejections
// show the endpoint's message; everything else is prefixed per action.
func failure(err error, key string, msgs Messages) presenter.Status {
	var rejected *remote.RejectedError
	if errors.As(err, &rejected) {
		return presenter.Failure(msgs("remote.rejected", rejected.Message))
	}
	return presenter.Failure(msgs(key, reason(err, msgs)))
}

func reason(err error, msgs Messages) string {
	var status *remote.StatusError
	var urlErr *url.Error
	switch {
	case errors.As(err, &status):
		return msgs("remote.http_status", status.Code)
	case errors.Is(err, remote.ErrMalformedResponse):
		return msgs("remote.invalid_response")
	case errors.Is(err, remote.ErrUnavailable):
		return msgs("remote.unavailable")
	case errors.As(err, &urlErr):
		return urlErr.Err.Error()
	default:
		return err.Error()
	}
}
