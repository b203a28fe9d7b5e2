package server

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter applies a small token bucket per client address and action.
// Polling endpoints are not limited; only mutating actions go through it.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

const (
	bucketCapacity = 10
	refillPerSec   = 5
)

func newRateLimiter() *rateLimiter {
	return &rateLimiter{buckets: make(map[string]*bucket)}
}

func (l *rateLimiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: bucketCapacity, lastSeen: now}
		l.buckets[key] = b
	}
	elapsed := now.Sub(b.lastSeen).Seconds()
	b.tokens += elapsed * refillPerSec
	if b.tokens > bucketCapacity {
		b.tokens = bucketCapacity
	}
	b.lastSeen = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (s *Server) enforceRateLimit(w http.ResponseWriter, r *http.Request, action string) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if s.limiter.allow(host+"|"+action, time.Now()) {
		return true
	}
	writeError(w, http.StatusTooManyRequests, "slow down")
	return false
}
