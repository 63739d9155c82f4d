package ratelimit

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Module provides the per-tenant rate Limiter and applies its middleware to
// every /api route.
var Module = fx.Module("ratelimit",
	fx.Provide(NewLimiter),
	fx.Invoke(RegisterMiddleware),
)

// RegisterMiddleware mounts the Limiter ahead of every /api handler,
// regardless of which domain package registers the matching route group.
func RegisterMiddleware(e *echo.Echo, l *Limiter) {
	e.Use(l.Middleware())
}
