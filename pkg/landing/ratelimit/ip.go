package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPLimiter throttles requests per client IP with a token bucket per address.
// Idle buckets are dropped in the background until Close.
type IPLimiter struct {
	limit        rate.Limit
	burst        int
	trustForward bool

	mu       sync.Mutex
	visitors map[string]*visitor

	idleAfter time.Duration
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter allows perMinute requests per IP with the given burst.
// When trustForward is set the first X-Forwarded-For address is used as the client IP.
func NewIPLimiter(perMinute, burst int, trustForward bool) *IPLimiter {
	if burst <= 0 {
		burst = 1
	}
	l := &IPLimiter{
		limit:        rate.Limit(float64(perMinute) / 60.0),
		burst:        burst,
		trustForward: trustForward,
		visitors:     make(map[string]*visitor),
		idleAfter:    5 * time.Minute,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go l.cleanupLoop(time.Minute)
	return l
}

// Allow consumes a token for ip.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Middleware rejects throttled requests through onLimited and passes the rest to next.
func (l *IPLimiter) Middleware(next http.Handler, onLimited http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.ClientIP(r)) {
			onLimited(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the address the request is throttled under.
func (l *IPLimiter) ClientIP(r *http.Request) string {
	if l.trustForward {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (l *IPLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

func (l *IPLimiter) cleanupLoop(every time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep(time.Now())
		case <-l.stop:
			return
		}
	}
}

func (l *IPLimiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleAfter {
			delete(l.visitors, ip)
		}
	}
}
