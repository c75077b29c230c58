package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/constants"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/httpmetrics"
	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/observability/metrics"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key. Buckets idle for longer
// than the cleanup interval are dropped.
type RateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	proxies  TrustedProxies
}

func NewRateLimiter(ctx context.Context, requestsPerSecond float64, burst int, proxies TrustedProxies) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		proxies:  proxies,
	}

	go rl.cleanupLimiters(ctx, constants.RateLimitCleanupInterval)

	return rl
}

func (rl *RateLimiter) cleanupLimiters(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, entry := range rl.limiters {
				if now.Sub(entry.lastSeen) > interval {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

func (rl *RateLimiter) Middleware(limiterType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(rl.proxies.ClientIP(r)) {
				metrics.RateLimitBlocked.WithLabelValues(httpmetrics.NormalizePath(r.URL.Path), limiterType).Inc()
				w.Header().Set("Retry-After", "1")
				WriteErrorEnvelope(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded", nil, TraceID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type StrictRateLimiter struct {
	loginLimiter    *RateLimiter
	registerLimiter *RateLimiter
	resetLimiter    *RateLimiter
	logoutLimiter   *RateLimiter
	generalLimiter  *RateLimiter
}

func NewStrictRateLimiter(ctx context.Context, proxies TrustedProxies) *StrictRateLimiter {
	return &StrictRateLimiter{
		loginLimiter:    NewRateLimiter(ctx, constants.RateLimitLoginRequestsPerSecond, constants.RateLimitLoginBurst, proxies),
		registerLimiter: NewRateLimiter(ctx, constants.RateLimitRegisterRequestsPerSecond, constants.RateLimitRegisterBurst, proxies),
		resetLimiter:    NewRateLimiter(ctx, constants.RateLimitResetRequestsPerSecond, constants.RateLimitResetBurst, proxies),
		logoutLimiter:   NewRateLimiter(ctx, constants.RateLimitLogoutRequestsPerSecond, constants.RateLimitLogoutBurst, proxies),
		generalLimiter:  NewRateLimiter(ctx, constants.RateLimitGeneralRequestsPerSecond, constants.RateLimitGeneralBurst, proxies),
	}
}

func (srl *StrictRateLimiter) MiddlewareForPath(path string) func(http.Handler) http.Handler {
	switch path {
	case "/api/auth/login":
		return srl.loginLimiter.Middleware("login")
	case "/api/auth/register":
		return srl.registerLimiter.Middleware("register")
	case "/api/auth/forgot-password", "/api/auth/reset-password":
		return srl.resetLimiter.Middleware("password_reset")
	case "/api/auth/logout":
		return srl.logoutLimiter.Middleware("logout")
	default:
		return srl.generalLimiter.Middleware("general")
	}
}
