package factory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideamans/leadgate/pkg/landing/config"
	"github.com/ideamans/leadgate/pkg/landing/metrics"
	"github.com/ideamans/leadgate/pkg/landing/remote"
	"github.com/ideamans/leadgate/pkg/shared/kvs"
	"github.com/ideamans/leadgate/pkg/shared/logging"
)

func TestNewTestingFactory(t *testing.T) {
	f := NewTestingFactory("localhost", 4180)
	require.NotNil(t, f)
	require.NotNil(t, f.DefaultFactory)
	require.NotNil(t, f.Client)
}

func TestTestingFactory_CreateKVSStoresIgnoresRedis(t *testing.T) {
	f := NewTestingFactory("localhost", 4180)
	cfg := CreateTestConfig()
	cfg.KVS.Default.Type = "redis"

	stores, err := f.CreateKVSStores(cfg)
	require.NoError(t, err)
	defer func() { _ = stores.Close() }()

	ctx := context.Background()
	require.NoError(t, stores.Session.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := stores.Session.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	_, err = stores.Cooldown.Get(ctx, "k")
	assert.ErrorIs(t, err, kvs.ErrNotFound)
}

func TestDefaultFactory_CreateKVSStores(t *testing.T) {
	mr := miniredis.RunT(t)

	f := NewDefaultFactory("localhost", 4180, logging.NewTestLogger())
	cfg := CreateTestConfig()
	cfg.KVS.Default = kvs.Config{Type: "redis", Redis: kvs.RedisConfig{Addr: mr.Addr()}}

	stores, err := f.CreateKVSStores(cfg)
	require.NoError(t, err)
	defer func() { _ = stores.Close() }()

	ctx := context.Background()
	require.NoError(t, stores.Session.Set(ctx, "abc", []byte("1"), time.Minute))
	require.NoError(t, stores.Cooldown.Set(ctx, "abc", []byte("2"), time.Minute))

	assert.True(t, mr.Exists("session:abc"))
	assert.True(t, mr.Exists("cooldown:abc"))
}

func TestDefaultFactory_CreateKVSStoresDedicated(t *testing.T) {
	f := NewDefaultFactory("localhost", 4180, logging.NewTestLogger())
	cfg := CreateTestConfig()
	cfg.KVS.Cooldown = &kvs.Config{Type: "unknown"}

	_, err := f.CreateKVSStores(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cooldown KVS")
}

func TestDefaultFactory_CreateRemoteClient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewDefaultFactory("localhost", 4180, logging.NewTestLogger())
	m := metrics.New()
	client := f.CreateRemoteClient(config.RemoteConfig{
		Endpoint: srv.URL,
		Breaker:  config.BreakerConfig{MaxFailures: 2},
	}, m)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _ = client.Perform(ctx, remote.ActionSendOTP, remote.Fields(remote.ActionSendOTP, "9876543210", "", nil))
	}
	_, err := client.Perform(ctx, remote.ActionSendOTP, url.Values{})
	assert.ErrorIs(t, err, remote.ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDefaultFactory_CreateNotifier(t *testing.T) {
	f := NewDefaultFactory("localhost", 4180, logging.NewTestLogger())

	n, err := f.CreateNotifier(CreateTestConfig(), f.CreateTranslator())
	require.NoError(t, err)
	assert.NotNil(t, n)

	n, err = f.CreateNotifier(CreateTestConfigWithNotify(), f.CreateTranslator())
	require.NoError(t, err)
	assert.NotNil(t, n)

	cfg := CreateTestConfig()
	cfg.Notify.Email = config.EmailConfig{Enabled: true, SenderType: "pigeon"}
	_, err = f.CreateNotifier(cfg, f.CreateTranslator())
	assert.Error(t, err)
}

func TestDefaultFactory_CreateRateLimiter(t *testing.T) {
	f := NewDefaultFactory("localhost", 4180, logging.NewTestLogger())

	assert.Nil(t, f.CreateRateLimiter(config.RateLimitConfig{Disabled: true}))

	l := f.CreateRateLimiter(config.RateLimitConfig{PerMinute: 30, Burst: 10})
	require.NotNil(t, l)
	l.Close()
}

func TestDefaultFactory_BaseURL(t *testing.T) {
	f := NewDefaultFactory("0.0.0.0", 4180, logging.NewTestLogger())
	assert.Equal(t, "http://localhost:4180", f.baseURL(config.ServiceConfig{}))
	assert.Equal(t, "https://leads.example.com", f.baseURL(config.ServiceConfig{BaseURL: "https://leads.example.com"}))

	f = NewDefaultFactory("leads.example.com", 443, logging.NewTestLogger())
	assert.Equal(t, "https://leads.example.com:443", f.baseURL(config.ServiceConfig{}))
}

func TestTestingFactory_CreateHandler(t *testing.T) {
	f := NewTestingFactoryWithLogger("localhost", 4180, logging.NewTestLogger())
	cfg := CreateTestConfig()

	stores, err := f.CreateKVSStores(cfg)
	require.NoError(t, err)
	defer func() { _ = stores.Close() }()

	m := metrics.New()
	h, err := f.CreateHandler(cfg, stores, m, logging.NewTestLogger())
	require.NoError(t, err)
	defer func() { _ = h.Close(context.Background()) }()

	form := url.Values{"name": {"Asha"}, "email": {"asha@example.com"}, "mobile": {"9876543210"}}
	req := httptest.NewRequest(http.MethodPost, "/api/otp/send", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.Client.CallsFor(remote.ActionSendOTP), 1)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `leadgate_remote_requests_total{action="send_otp",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `leadgate_flow_transitions_total{from="idle",to="otp_requested"} 1`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
