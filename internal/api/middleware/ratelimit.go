package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter *rate.Limiter
	last    time.Time
}

// RateLimiter is a per-client-IP token bucket. Entries idle for longer than
// the TTL are dropped by Sweep.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	ttl     time.Duration
	onLimit func(r *http.Request)

	mu       sync.Mutex
	visitors map[string]*limiterEntry
	now      func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      10 * time.Minute,
		visitors: map[string]*limiterEntry{},
		now:      time.Now,
	}
}

// OnLimit registers a hook called for every rejected request.
func (l *RateLimiter) OnLimit(fn func(r *http.Request)) *RateLimiter {
	l.onLimit = fn
	return l
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.visitors[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = e
	}
	e.last = l.now()
	return e.limiter.Allow()
}

// Sweep removes idle entries and returns how many were dropped.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	dropped := 0
	for k, v := range l.visitors {
		if l.now().Sub(v.last) > l.ttl {
			delete(l.visitors, k)
			dropped++
		}
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (l *RateLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}

// Handler rejects requests over the limit with 429. It keys on RemoteAddr,
// so mount chi's RealIP in front of it when running behind a proxy.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			if l.onLimit != nil {
				l.onLimit(r)
			}
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
