package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/flow"
	"github.com/ideamans/leadgate/pkg/landing/metrics"
	"github.com/ideamans/leadgate/pkg/landing/presenter"
	"github.com/ideamans/leadgate/pkg/landing/ratelimit"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/landing/session"
	"github.com/ideamans/leadgate/pkg/shared/i18n"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testServer struct {
	handler  *Handler
	client   *remote.MockClient
	metrics  *metrics.Metrics
	sessions *session.KVSStore
	cookie   *http.Cookie
}

func newTestServer(t *testing.T, client *remote.MockClient, limiter *ratelimit.IPLimiter) *testServer {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Page.LinkedInURL = "https://www.linkedin.com/company/example"

	store, err := kvs.NewMemoryStore("", kvs.MemoryConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := logging.NewTestLogger()
	sessions := session.NewKVSStore(kvs.NewNamespacedStore(store, "session"), time.Minute)
	cooldown := ratelimit.NewCooldown(time.Minute, kvs.NewNamespacedStore(store, "cooldown"))
	ctrl := flow.NewController(sessions, client, cooldown, flow.Options{
		RequireAgreement: true,
		RedirectURL:      cfg.Flow.RedirectURL,
		RedirectDelay:    cfg.Flow.GetRedirectDelay(),
	}, logger)

	m := metrics.New()
	h, err := New(cfg, ctrl, i18n.NewTranslator(), limiter, m, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close(context.Background()) })

	return &testServer{handler: h, client: client, metrics: m, sessions: sessions}
}

// post sends a form as the page script does and keeps the session cookie.
func (s *testServer) post(t *testing.T, path string, form url.Values) (*httptest.ResponseRecorder, presenter.View) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "fetch")
	rec := s.do(req)

	var v presenter.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return rec, v
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			s.cookie = c
		}
	}
	return rec
}

func contactForm() url.Values {
	return url.Values{"name": {"Asha"}, "email": {"asha@example.com"}, "mobile": {"9876543210"}}
}

func submitForm() url.Values {
	f := contactForm()
	f.Set("course", "Data Science")
	f.Set("city", "Pune")
	f.Set("background", "fresher")
	f.Set("mode", "online")
	f.Set("agree", "on")
	return f
}

func TestHandler_IndexRendersPage(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)

	rec := s.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotNil(t, s.cookie)
	assert.True(t, session.ValidID(s.cookie.Value))
	assert.True(t, s.cookie.HttpOnly)

	body := rec.Body.String()
	assert.Contains(t, body, "Become a job-ready Data Scientist")
	assert.Contains(t, body, `id="testimonialsTrack"`)
	assert.Contains(t, body, `"otp_length":6`)
	assert.Contains(t, body, `"card_width":320`)
	assert.Contains(t, body, `href="/downloads/portfolio-guide"`)
	assert.Contains(t, body, `rel="noopener noreferrer"`)
	assert.Contains(t, body, `data-send-path="/api/otp/send"`)
}

func TestHandler_UnknownPathIs404(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)
	assert.Equal(t, http.StatusNotFound, s.get("/nope").Code)
}

func TestHandler_FullFlow(t *testing.T) {
	client := &remote.MockClient{Handler: remote.Reply(map[remote.Action]remote.Response{
		remote.ActionSubmit: {Status: "success", Message: "Thank you!"},
	})}
	s := newTestServer(t, client, nil)
	s.get("/")

	rec, v := s.post(t, PathSendOTP, contactForm())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "otp_requested", v.State)
	assert.True(t, v.ShowOTPEntry)
	assert.False(t, v.ShowGetOTP)
	assert.Equal(t, "OTP sent successfully! Please enter it below.", v.Status.Message)
	assert.Equal(t, presenter.ColorNotice, v.Status.Color)

	rec, v = s.post(t, PathVerifyOTP, url.Values{"otp": {"123456"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, v.SubmitEnabled)
	assert.True(t, v.OTPLocked)
	assert.False(t, v.Status.Visible())

	rec, v = s.post(t, PathSubmit, submitForm())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "submitted", v.State)
	assert.True(t, v.ClearForm)
	assert.Equal(t, "Thank you! Redirecting...", v.SubmitLabel)
	require.NotNil(t, v.Redirect)
	assert.Equal(t, config.DefaultRedirectURL, v.Redirect.URL)
	assert.Equal(t, int64(1500), v.Redirect.AfterMS)

	submits := client.CallsFor(remote.ActionSubmit)
	require.Len(t, submits, 1)
	assert.Equal(t, "Pune", submits[0].Fields.Get("city"))
	assert.Equal(t, remote.ActionSubmit, submits[0].Action)
	assert.Empty(t, submits[0].Fields.Get(remote.FieldAction), "the action field is added on the wire by the HTTP client")
}

func TestHandler_CookielessPageLoadStoresNoSession(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	n, err := s.sessions.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHandler_InvalidMobileNeverCallsEndpoint(t *testing.T) {
	client := &remote.MockClient{}
	s := newTestServer(t, client, nil)

	form := contactForm()
	form.Set("mobile", "98765")
	rec, v := s.post(t, PathSendOTP, form)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please enter a valid 10-digit mobile number.", v.Status.Message)
	assert.Equal(t, presenter.ColorError, v.Status.Color)
	assert.Empty(t, client.Calls())
}

func TestHandler_CooldownBlocksSecondRequest(t *testing.T) {
	client := &remote.MockClient{}
	s := newTestServer(t, client, nil)

	rec, _ := s.post(t, PathSendOTP, contactForm())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, v := s.post(t, PathSendOTP, contactForm())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "OTP already sent. Please wait before requesting again.", v.Status.Message)
	assert.Greater(t, v.CooldownSeconds, 0)
	assert.Len(t, client.CallsFor(remote.ActionSendOTP), 1)
}

func TestHandler_RejectedOTPClearsInput(t *testing.T) {
	client := &remote.MockClient{Handler: remote.Reply(map[remote.Action]remote.Response{
		remote.ActionVerify: {Status: "fail", Message: "bad otp"},
	})}
	s := newTestServer(t, client, nil)
	s.post(t, PathSendOTP, contactForm())

	rec, v := s.post(t, PathVerifyOTP, url.Values{"otp": {"000000"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Error: bad otp", v.Status.Message)
	assert.Empty(t, v.OTPValue)
	assert.False(t, v.SubmitEnabled)
}

func TestHandler_SubmitWithoutVerification(t *testing.T) {
	client := &remote.MockClient{}
	s := newTestServer(t, client, nil)

	rec, v := s.post(t, PathSubmit, submitForm())
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please verify OTP first.", v.Status.Message)
	assert.Empty(t, client.CallsFor(remote.ActionSubmit))
}

func TestHandler_MobileEditResets(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)
	s.post(t, PathSendOTP, contactForm())

	_, v := s.post(t, PathMobile, url.Values{"mobile": {"9123456780"}})
	assert.Equal(t, "idle", v.State)
	assert.False(t, v.ShowOTPEntry)
}

func TestHandler_PlainFormPostRendersPage(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)

	req := httptest.NewRequest(http.MethodPost, PathSendOTP, strings.NewReader(contactForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.do(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "OTP sent successfully! Please enter it below.")
	assert.Contains(t, body, `value="asha@example.com"`)
	assert.Contains(t, body, `class="form-group" id="otpGroup"`)
}

func TestHandler_PlainFormPostAfterSubmitRedirects(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)
	s.post(t, PathSendOTP, contactForm())
	s.post(t, PathVerifyOTP, url.Values{"otp": {"123456"}})

	req := httptest.NewRequest(http.MethodPost, PathSubmit, strings.NewReader(submitForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := s.do(req)

	body := rec.Body.String()
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "1.5;url=")
	assert.NotContains(t, body, `value="asha@example.com"`)
}

func TestHandler_Downloads(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)

	rec := s.get("/downloads/portfolio-guide")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Portfolio_Building_Guide.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, url.PathEscape("Portfolio guide download started!"), rec.Header().Get("X-Toast"))
	assert.Equal(t, "Portfolio Building Guide - SkilledUp.Tech\n\n10 Steps to Build Your Data Science Portfolio", rec.Body.String())

	rec = s.get("/downloads/sample-certificate")
	assert.Equal(t, "Sample Certificate - SkilledUp.Tech", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.get("/downloads/unknown").Code)

	rec = s.get("/metrics")
	assert.Contains(t, rec.Body.String(), `leadgate_downloads_total{name="portfolio-guide"} 1`)
}

func TestHandler_Static(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)

	rec := s.get("/static/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	assert.Equal(t, "public, max-age=31536000", rec.Header().Get("Cache-Control"))

	rec = s.get("/static/styles.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	assert.Equal(t, http.StatusNotFound, s.get("/static/").Code)
}

func TestHandler_HealthAndReady(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)

	rec := s.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = s.get("/ready")
	assert.Equal(t, "READY", rec.Body.String())

	s.handler.SetReadyCheck(func(ctx context.Context) error { return errors.New("redis down") })
	rec = s.get("/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandler_RateLimited(t *testing.T) {
	limiter := ratelimit.NewIPLimiter(1, 1, false)
	s := newTestServer(t, &remote.MockClient{}, limiter)

	form := contactForm()
	form.Set("mobile", "1")
	rec, _ := s.post(t, PathSendOTP, form)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, v := s.post(t, PathSendOTP, form)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests. Please try again shortly.", v.Status.Message)

	assert.Contains(t, s.get("/metrics").Body.String(), `leadgate_rate_limited_total{scope="ip"} 1`)
}

func TestHandler_LanguageCookie(t *testing.T) {
	s := newTestServer(t, &remote.MockClient{}, nil)

	rec := s.get("/?lang=hi")
	var lang *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "lang" {
			lang = c
		}
	}
	require.NotNil(t, lang)
	assert.Equal(t, "hi", lang.Value)
	assert.Contains(t, rec.Body.String(), `lang="hi"`)
	assert.Contains(t, rec.Body.String(), "OTP पाएं")
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"cooldown", flow.ErrCooldown, http.StatusTooManyRequests},
		{"superseded", flow.ErrSuperseded, http.StatusConflict},
		{"stale", flow.ErrStale, http.StatusConflict},
		{"guard", flow.ErrNotVerified, http.StatusUnprocessableEntity},
		{"rejected", &remote.RejectedError{Action: remote.ActionVerify, Status: "fail"}, http.StatusUnprocessableEntity},
		{"http status", &remote.StatusError{Code: 500}, http.StatusBadGateway},
		{"malformed", remote.ErrMalformedResponse, http.StatusBadGateway},
		{"transport", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("refused")}, http.StatusBadGateway},
		{"breaker open", remote.ErrUnavailable, http.StatusServiceUnavailable},
		{"store", kvs.ErrClosed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusCode(tt.err))
		})
	}
}

func TestCarouselAt(t *testing.T) {
	c := carouselAt(10, "")
	assert.Equal(t, CarouselData{Index: 0, Offset: 0, Prev: 6, Next: 1}, c)

	c = carouselAt(10, "3")
	assert.Equal(t, -960, c.Offset)
	assert.Equal(t, 2, c.Prev)
	assert.Equal(t, 4, c.Next)

	c = carouselAt(10, "9")
	assert.Equal(t, 2, c.Index)
}
