// Package ratelimit applies a per-tenant token-bucket limit to the HTTP API
// using golang.org/x/time/rate.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/outboundhq/dialer/internal/config"
	"github.com/outboundhq/dialer/pkg/apperror"
	"github.com/outboundhq/dialer/pkg/auth"
)

// Limiter manages one rate.Limiter per tenant.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewLimiter builds a Limiter from RATE_LIMIT_WINDOW_MS/RATE_LIMIT_MAX_REQUESTS.
func NewLimiter(cfg *config.Config) *Limiter {
	window := cfg.RateLimit.Window()
	if window <= 0 {
		window = time.Minute
	}
	maxReq := cfg.RateLimit.MaxRequests
	if maxReq <= 0 {
		maxReq = 1
	}

	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(window / time.Duration(maxReq)),
		burst:    maxReq,
	}
}

// Allow reports whether the given tenant may make another request now.
func (l *Limiter) Allow(tenantID string) bool {
	return l.getLimiter(tenantID).Allow()
}

func (l *Limiter) getLimiter(tenantID string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[tenantID]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok = l.limiters[tenantID]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.rate, l.burst)
	l.limiters[tenantID] = limiter
	return limiter
}

// Middleware keys the limiter by the authenticated caller's account id when
// one is already set on the context, otherwise by the route's {tenantId}
// path parameter, falling back to the remote address for routes without
// one. It is mounted process-wide but only throttles /api routes, since it
// must run regardless of which domain package registers a given route group.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, "/api") {
				return next(c)
			}

			key := c.RealIP()
			if user := auth.GetUser(c); user != nil {
				key = user.AccountID
			} else if tenantID := c.Param("tenantId"); tenantID != "" {
				key = tenantID
			}

			if !l.Allow(key) {
				return apperror.New(http.StatusTooManyRequests, "rate_limited", "too many requests")
			}
			return next(c)
		}
	}
}
