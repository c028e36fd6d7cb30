package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"Fluidcalc/internal/calc/respond"

	"golang.org/x/time/rate"
)

// IdleTTL is how long an address may stay silent before its bucket is
// dropped.
const IdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter gives each client address its own token bucket.
type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	r         rate.Limit
	b         int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
		ttl: IdleTTL,
		now: time.Now,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= i.ttl {
		for k, v := range i.ips {
			if now.Sub(v.lastSeen) >= i.ttl {
				delete(i.ips, k)
			}
		}
		i.lastSweep = now
	}

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			respond.Error(w, http.StatusTooManyRequests, "Too Many Requests. Try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
