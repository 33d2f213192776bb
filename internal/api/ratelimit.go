// internal/api/ratelimit.go
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP with a token bucket that holds
// burst tokens and refills limit tokens per window.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	window   time.Duration
	message  string
	errors   *errors.ErrorHandler
	logger   logger.Logger
	clientIP func(*http.Request) string
	now      func() time.Time
}

// NewRateLimiter creates a limiter. A non-positive limit disables limiting.
func NewRateLimiter(limit int, window time.Duration, burst int, message string, log logger.Logger) *RateLimiter {
	r := rate.Inf
	if limit > 0 && window > 0 {
		r = rate.Every(window / time.Duration(limit))
	}
	if burst <= 0 {
		burst = limit
	}
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		window:   window,
		message:  message,
		errors:   errors.NewErrorHandler(log, false),
		logger:   log,
		clientIP: remoteHost,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()

	return v.limiter
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.clientIP(r)

		if !rl.getLimiter(key).AllowN(rl.now(), 1) {
			rl.logger.Warn("rate limit exceeded", map[string]interface{}{
				"clientIp":  key,
				"path":      r.URL.Path,
				"method":    r.Method,
				"requestId": RequestIDFromContext(r.Context()),
			})
			rl.errors.HandleHTTPError(w, r, errors.NewRateLimitedError(rl.message))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// KeyBy sets how requests are attributed to clients. The default is the socket peer.
func (rl *RateLimiter) KeyBy(clientIP func(*http.Request) string) *RateLimiter {
	rl.clientIP = clientIP
	return rl
}

// Cleanup drops limiters not used for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// StartCleanup periodically drops limiters idle for a full window, until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup(rl.window)
			}
		}
	}()
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// ClientIPResolver picks the address a request is attributed to. Forwarding
// headers are honoured only when the socket peer is a trusted proxy.
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver accepts proxy addresses as single IPs or CIDR ranges.
func NewClientIPResolver(trustedProxies []string) (*ClientIPResolver, error) {
	res := &ClientIPResolver{}
	for _, raw := range trustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", raw)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			res.trusted = append(res.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		res.trusted = append(res.trusted, network)
	}
	return res, nil
}

func (c *ClientIPResolver) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range c.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the socket peer unless it is a trusted proxy. Behind a
// trusted proxy it walks X-Forwarded-For from the right and returns the first
// hop that is not itself trusted, then falls back to X-Real-IP.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !c.isTrusted(peer) {
		return peer
	}

	var hops []string
	for _, value := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(value, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if net.ParseIP(hops[i]) == nil {
			return peer
		}
		if !c.isTrusted(hops[i]) || i == 0 {
			return hops[i]
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return peer
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
