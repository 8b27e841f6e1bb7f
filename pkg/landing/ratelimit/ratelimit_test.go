package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ideamans/leadgate/pkg/shared/kvs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("github.com/redis/go-redis/v9/maintnotifications.(*CircuitBreakerManager).cleanupLoop"),
	)
}

func TestCooldown_StartBlocksUntilExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := kvs.NewRedisStore("", kvs.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	c := NewCooldown(60*time.Second, store)
	ctx := context.Background()

	assert.False(t, c.Active(ctx, "s1"))

	started, err := c.Start(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, started)
	assert.True(t, c.Active(ctx, "s1"))
	assert.False(t, c.Active(ctx, "s2"), "cooldowns are per key")

	started, err = c.Start(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, started, "a running cooldown is not restarted")

	remaining, err := c.Remaining(ctx, "s1")
	require.NoError(t, err)
	assert.InDelta(t, 60, remaining.Seconds(), 1)

	mr.FastForward(61 * time.Second)
	assert.False(t, c.Active(ctx, "s1"))
}

func TestCooldown_Clear(t *testing.T) {
	store, err := kvs.NewMemoryStore("", kvs.MemoryConfig{})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	c := NewCooldown(time.Minute, store)
	ctx := context.Background()

	_, err = c.Start(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, c.Clear(ctx, "s1"))
	assert.False(t, c.Active(ctx, "s1"))
}

func TestCooldown_Disabled(t *testing.T) {
	store, err := kvs.NewMemoryStore("", kvs.MemoryConfig{})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	c := NewCooldown(0, store)
	started, err := c.Start(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, started)
	assert.False(t, c.Active(context.Background(), "s1"))
}

func TestCooldown_FailsOpenOnClosedStore(t *testing.T) {
	store, err := kvs.NewMemoryStore("", kvs.MemoryConfig{})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	c := NewCooldown(time.Minute, store)
	assert.False(t, c.Active(context.Background(), "s1"))
}

func TestIPLimiter_Allow(t *testing.T) {
	l := NewIPLimiter(60, 2, false)
	defer l.Close()

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, l.Allow("10.0.0.2"), "other addresses have their own bucket")
}

func TestIPLimiter_Middleware(t *testing.T) {
	l := NewIPLimiter(1, 1, true)
	defer l.Close()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	limited := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }
	h := l.Middleware(next, limited)

	req := func(fwd string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/otp/send", nil)
		r.RemoteAddr = "192.0.2.10:5555"
		if fwd != "" {
			r.Header.Set("X-Forwarded-For", fwd)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, req("203.0.113.1, 10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, req("203.0.113.1"))
	assert.Equal(t, http.StatusNoContent, req("203.0.113.2"))
}

func TestIPLimiter_ClientIP(t *testing.T) {
	l := NewIPLimiter(10, 1, false)
	defer l.Close()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.1")

	assert.Equal(t, "192.0.2.10", l.ClientIP(r), "forwarded header ignored unless trusted")
}

func TestIPLimiter_SweepDropsIdle(t *testing.T) {
	l := NewIPLimiter(10, 1, false)
	defer l.Close()

	l.Allow("10.0.0.1")
	l.sweep(time.Now().Add(10 * time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.visitors)
}

func TestIPLimiter_ConcurrentClose(t *testing.T) {
	l := NewIPLimiter(10, 1, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotPanics(t, l.Close)
		}()
	}
	wg.Wait()

	assert.NotPanics(t, l.Close)
}
