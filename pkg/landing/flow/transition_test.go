package flow

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideamans/leadgate/pkg/landing/lead"
	"github.com/ideamans/leadgate/pkg/landing/presenter"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/landing/session"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
)

func testEnv() Env {
	return Env{
		Messages:         TranslatorMessages(i18n.NewTranslator(), i18n.English),
		RequireAgreement: true,
		CooldownSeconds:  60,
		RedirectURL:      "https://skilledup.tech/category-list.php?c=11&t=0",
		RedirectDelay:    1500 * time.Millisecond,
	}
}

func validLead() lead.Lead {
	return lead.Lead{
		Name:   "Asha",
		Email:  "asha@example.com",
		Mobile: "9876543210",
		Course: "Data Science",
		City:   "Pune",
	}
}

func sessionIn(state session.State, mobile string) *session.Session {
	return &session.Session{ID: session.NewID(), State: state, Mobile: mobile, Revision: 3}
}

func TestDecide_RequestOTPGuardOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*lead.Lead)
		wantErr error
		wantMsg string
	}{
		{"empty name wins over everything", func(l *lead.Lead) { l.Name = "  "; l.Email = "bad"; l.Mobile = "1" }, lead.ErrNameRequired, "Please enter your name."},
		{"email before mobile", func(l *lead.Lead) { l.Email = "a@b"; l.Mobile = "1" }, lead.ErrEmailInvalid, "Please enter a valid email."},
		{"nine digits", func(l *lead.Lead) { l.Mobile = "987654321" }, lead.ErrMobileInvalid, "Please enter a valid 10-digit mobile number."},
		{"eleven digits", func(l *lead.Lead) { l.Mobile = "98765432101" }, lead.ErrMobileInvalid, "Please enter a valid 10-digit mobile number."},
		{"letters", func(l *lead.Lead) { l.Mobile = "98765abcde" }, lead.ErrMobileInvalid, "Please enter a valid 10-digit mobile number."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLead()
			tt.mutate(&l)

			d := Decide(sessionIn(session.StateIdle, ""), Intent{Kind: KindRequestOTP, Lead: l}, testEnv())

			assert.Nil(t, d.Call, "invalid input must never reach the endpoint")
			assert.Nil(t, d.Next)
			assert.ErrorIs(t, d.Err, tt.wantErr)
			assert.Equal(t, presenter.Failure(tt.wantMsg), d.View.Status)
		})
	}
}

func TestDecide_RequestOTP(t *testing.T) {
	t.Run("valid contact sends otp", func(t *testing.T) {
		d := Decide(sessionIn(session.StateIdle, ""), Intent{Kind: KindRequestOTP, Lead: validLead()}, testEnv())

		require.NotNil(t, d.Call)
		assert.NoError(t, d.Err)
		assert.Equal(t, remote.ActionSendOTP, d.Call.Action)
		assert.Equal(t, url.Values{"mobile": {"9876543210"}}, d.Call.Fields)
		assert.Equal(t, presenter.Progress("Sending OTP..."), d.View.Status)
	})

	t.Run("cooldown blocks the call", func(t *testing.T) {
		env := testEnv()
		env.CooldownActive = true
		env.CooldownSeconds = 42

		d := Decide(sessionIn(session.StateOtpRequested, "9876543210"), Intent{Kind: KindRequestOTP, Lead: validLead()}, env)

		assert.Nil(t, d.Call)
		assert.ErrorIs(t, d.Err, ErrCooldown)
		assert.Equal(t, "OTP already sent. Please wait before requesting again.", d.View.Status.Message)
		assert.Equal(t, 42, d.View.CooldownSeconds)
	})

	t.Run("same verified mobile is a no-op", func(t *testing.T) {
		d := Decide(sessionIn(session.StateOtpVerified, "9876543210"), Intent{Kind: KindRequestOTP, Lead: validLead()}, testEnv())

		assert.Nil(t, d.Call)
		assert.Nil(t, d.Next)
		assert.True(t, d.View.ShowVerified)
	})

	t.Run("different mobile starts over", func(t *testing.T) {
		s := sessionIn(session.StateOtpVerified, "9000000000")
		d := Decide(s, Intent{Kind: KindRequestOTP, Lead: validLead()}, testEnv())

		require.NotNil(t, d.Call)
		require.NotNil(t, d.Next)
		assert.Equal(t, session.StateIdle, d.Next.State)
		assert.Empty(t, d.Next.Mobile)
		assert.Equal(t, session.StateOtpVerified, s.State, "input session is not mutated")
	})
}

func TestDecide_Verify(t *testing.T) {
	t.Run("requires a requested otp", func(t *testing.T) {
		d := Decide(sessionIn(session.StateIdle, ""), Intent{Kind: KindVerifyOTP, OTP: "123456"}, testEnv())
		assert.Nil(t, d.Call)
		assert.ErrorIs(t, d.Err, ErrOTPNotRequested)
		assert.Equal(t, "Please request an OTP first.", d.View.Status.Message)
	})

	for _, otp := range []string{"", "12345", "1234567"} {
		t.Run(fmt.Sprintf("length %d rejected", len(otp)), func(t *testing.T) {
			d := Decide(sessionIn(session.StateOtpRequested, "9876543210"), Intent{Kind: KindVerifyOTP, OTP: otp}, testEnv())
			assert.Nil(t, d.Call)
			assert.ErrorIs(t, d.Err, ErrOTPLength)
			assert.Equal(t, "Please enter the 6-digit OTP.", d.View.Status.Message)
		})
	}

	t.Run("verifies the session mobile", func(t *testing.T) {
		d := Decide(sessionIn(session.StateOtpRequested, "9876543210"), Intent{Kind: KindVerifyOTP, OTP: "123456", Lead: lead.Lead{Mobile: "9111111111"}}, testEnv())

		require.NotNil(t, d.Call)
		assert.Equal(t, remote.ActionVerify, d.Call.Action)
		assert.Equal(t, "9876543210", d.Call.Fields.Get("mobile"))
		assert.Equal(t, "123456", d.Call.Fields.Get("otp"))
		assert.Equal(t, presenter.Progress("Verifying OTP..."), d.View.Status)
	})
}

func TestDecide_SubmitRequiresVerification(t *testing.T) {
	for _, state := range []session.State{session.StateIdle, session.StateOtpRequested} {
		t.Run(string(state), func(t *testing.T) {
			d := Decide(sessionIn(state, "9876543210"), Intent{Kind: KindSubmit, Lead: validLead(), Agreed: true}, testEnv())

			assert.Nil(t, d.Call)
			assert.ErrorIs(t, d.Err, ErrNotVerified)
			assert.Equal(t, "Please verify OTP first.", d.View.Status.Message)
			assert.False(t, d.View.SubmitEnabled)
		})
	}

	t.Run("agreement is checked first", func(t *testing.T) {
		d := Decide(sessionIn(session.StateIdle, ""), Intent{Kind: KindSubmit, Lead: validLead()}, testEnv())
		assert.ErrorIs(t, d.Err, ErrAgreementRequired)
		assert.Equal(t, "Please agree to the terms.", d.View.Status.Message)
	})

	t.Run("agreement optional", func(t *testing.T) {
		env := testEnv()
		env.RequireAgreement = false
		d := Decide(sessionIn(session.StateOtpVerified, "9876543210"), Intent{Kind: KindSubmit, Lead: validLead()}, env)
		assert.NoError(t, d.Err)
		assert.NotNil(t, d.Call)
	})

	t.Run("mobile must match the verified one", func(t *testing.T) {
		l := validLead()
		l.Mobile = "9111111111"
		d := Decide(sessionIn(session.StateOtpVerified, "9876543210"), Intent{Kind: KindSubmit, Lead: l, Agreed: true}, testEnv())
		assert.ErrorIs(t, d.Err, ErrNotVerified)
	})

	t.Run("verified submit moves to submitting", func(t *testing.T) {
		l := validLead()
		l.City = "<b>Pune</b>"
		d := Decide(sessionIn(session.StateOtpVerified, "9876543210"), Intent{Kind: KindSubmit, Lead: l, Agreed: true}, testEnv())

		require.NotNil(t, d.Call)
		require.NotNil(t, d.Next)
		assert.Equal(t, session.StateSubmitting, d.Next.State)
		assert.Equal(t, remote.ActionSubmit, d.Call.Action)
		assert.Equal(t, "Pune", d.Call.Fields.Get("city"))
		assert.Equal(t, "Asha", d.Call.Fields.Get("name"))
		assert.Empty(t, d.Call.Fields.Get("otp"))
		assert.Equal(t, "Submitting Data...", d.View.Status.Message)
		assert.False(t, d.View.SubmitEnabled)
	})
}

func TestDecide_MobileEdit(t *testing.T) {
	t.Run("different mobile resets", func(t *testing.T) {
		d := Decide(sessionIn(session.StateOtpRequested, "9876543210"), Intent{Kind: KindMobileEdited, Lead: lead.Lead{Mobile: "98765"}}, testEnv())
		require.NotNil(t, d.Next)
		assert.Equal(t, session.StateIdle, d.Next.State)
		assert.True(t, d.View.ShowGetOTP)
		assert.False(t, d.View.ShowOTPEntry)
	})

	t.Run("same mobile keeps state", func(t *testing.T) {
		d := Decide(sessionIn(session.StateOtpVerified, "9876543210"), Intent{Kind: KindMobileEdited, Lead: lead.Lead{Mobile: "9876543210"}}, testEnv())
		assert.Nil(t, d.Next)
		assert.True(t, d.View.OTPLocked)
	})

	t.Run("page load always resets", func(t *testing.T) {
		d := Decide(sessionIn(session.StateOtpVerified, "9876543210"), Intent{Kind: KindPageLoad}, testEnv())
		require.NotNil(t, d.Next)
		assert.Equal(t, session.StateIdle, d.Next.State)
	})
}

func TestResolve_RequestOTP(t *testing.T) {
	in := Intent{Kind: KindRequestOTP, Lead: validLead()}

	t.Run("success shows otp entry and hides the request control", func(t *testing.T) {
		next, v := Resolve(sessionIn(session.StateIdle, ""), in, &remote.Response{Status: "success"}, nil, testEnv())

		assert.Equal(t, session.StateOtpRequested, next.State)
		assert.Equal(t, "9876543210", next.Mobile)
		assert.True(t, v.ShowOTPEntry)
		assert.True(t, v.ShowOTPSent)
		assert.False(t, v.ShowGetOTP)
		assert.Equal(t, presenter.Notice("OTP sent successfully! Please enter it below."), v.Status)
		assert.Equal(t, 60, v.CooldownSeconds)
	})

	t.Run("rejection shows the endpoint message", func(t *testing.T) {
		err := &remote.RejectedError{Action: remote.ActionSendOTP, Status: "fail", Message: "quota exceeded"}
		next, v := Resolve(sessionIn(session.StateIdle, ""), in, &remote.Response{Status: "fail"}, err, testEnv())

		assert.Equal(t, session.StateIdle, next.State)
		assert.Equal(t, presenter.Failure("Error: quota exceeded"), v.Status)
		assert.True(t, v.ShowGetOTP)
	})

	t.Run("transport failures", func(t *testing.T) {
		tests := []struct {
			err  error
			want string
		}{
			{&remote.StatusError{Code: 502}, "OTP Send Failed: HTTP 502"},
			{fmt.Errorf("%w: unexpected token", remote.ErrMalformedResponse), "OTP Send Failed: Server returned invalid response"},
			{remote.ErrUnavailable, "OTP Send Failed: Service temporarily unavailable"},
			{&url.Error{Op: "Post", URL: "https://hidden.example", Err: errors.New("connection refused")}, "OTP Send Failed: connection refused"},
		}
		for _, tt := range tests {
			_, v := Resolve(sessionIn(session.StateIdle, ""), in, nil, tt.err, testEnv())
			assert.Equal(t, presenter.Failure(tt.want), v.Status)
		}
	})
}

func TestResolve_Verify(t *testing.T) {
	in := Intent{Kind: KindVerifyOTP, OTP: "123456"}

	t.Run("success locks the otp input", func(t *testing.T) {
		next, v := Resolve(sessionIn(session.StateOtpRequested, "9876543210"), in, &remote.Response{Status: "success"}, nil, testEnv())

		assert.Equal(t, session.StateOtpVerified, next.State)
		assert.False(t, v.Status.Visible())
		assert.Equal(t, "OTP Verified", v.OTPValue)
		assert.True(t, v.OTPLocked)
		assert.True(t, v.ShowVerified)
		assert.True(t, v.SubmitEnabled)
	})

	t.Run("bad otp clears the input and keeps submit disabled", func(t *testing.T) {
		err := &remote.RejectedError{Action: remote.ActionVerify, Status: "fail", Message: "bad otp"}
		next, v := Resolve(sessionIn(session.StateOtpRequested, "9876543210"), in, &remote.Response{Status: "fail", Message: "bad otp"}, err, testEnv())

		assert.Equal(t, session.StateOtpRequested, next.State)
		assert.Equal(t, presenter.Failure("Error: bad otp"), v.Status)
		assert.Empty(t, v.OTPValue)
		assert.False(t, v.OTPLocked)
		assert.False(t, v.SubmitEnabled)
	})

	t.Run("http failure", func(t *testing.T) {
		_, v := Resolve(sessionIn(session.StateOtpRequested, "9876543210"), in, nil, &remote.StatusError{Code: 500}, testEnv())
		assert.Equal(t, "Verification Failed: HTTP 500", v.Status.Message)
	})
}

func TestResolve_Submit(t *testing.T) {
	in := Intent{Kind: KindSubmit, Lead: validLead(), Agreed: true}

	t.Run("success resets and redirects", func(t *testing.T) {
		next, v := Resolve(sessionIn(session.StateSubmitting, "9876543210"), in, &remote.Response{Status: "success", Message: "Thanks!"}, nil, testEnv())

		assert.Equal(t, session.StateIdle, next.State)
		assert.Empty(t, next.Mobile)
		assert.Equal(t, string(session.StateSubmitted), v.State)
		assert.True(t, v.ClearForm)
		assert.True(t, v.SubmitDone)
		assert.False(t, v.SubmitEnabled)
		assert.Equal(t, presenter.Progress("Thanks! Redirecting..."), v.Status)
		assert.Equal(t, "Thanks! Redirecting...", v.SubmitLabel)
		require.NotNil(t, v.Redirect)
		assert.Equal(t, "https://skilledup.tech/category-list.php?c=11&t=0", v.Redirect.URL)
		assert.Equal(t, int64(1500), v.Redirect.AfterMS)
	})

	t.Run("failure returns to verified", func(t *testing.T) {
		err := &remote.RejectedError{Action: remote.ActionSubmit, Status: "error", Message: "sheet locked"}
		next, v := Resolve(sessionIn(session.StateSubmitting, "9876543210"), in, nil, err, testEnv())

		assert.Equal(t, session.StateOtpVerified, next.State)
		assert.Equal(t, "9876543210", next.Mobile)
		assert.Equal(t, "Error: sheet locked", v.Status.Message)
		assert.True(t, v.SubmitEnabled)
	})

	t.Run("transport failure", func(t *testing.T) {
		_, v := Resolve(sessionIn(session.StateSubmitting, "9876543210"), in, nil, remote.ErrUnavailable, testEnv())
		assert.Equal(t, "Submission Failed: Service temporarily unavailable", v.Status.Message)
	})
}

func TestViewOf_SingleStatus(t *testing.T) {
	v := ViewOf(sessionIn(session.StateOtpRequested, "9876543210"), testEnv().Messages)
	assert.False(t, v.Status.Visible())

	v = v.WithStatus(presenter.Progress("Verifying OTP..."))
	v = v.WithStatus(presenter.Failure("Error: bad otp"))
	assert.Equal(t, "Error: bad otp", v.Status.Message)
}
