package campaigns

import (
	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/auth"
)

// RegisterRoutes registers campaign CRUD and control routes.
func RegisterRoutes(e *echo.Echo, h *Handler, authMw *auth.Middleware) {
	g := e.Group("/api/v1/tenants/:tenantId/campaigns")
	g.Use(authMw.RequireAuth(), authMw.RequireTenant())
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	g.POST("/:id/start", h.Start)
	g.POST("/:id/pause", h.Pause)
	g.POST("/:id/resume", h.Resume)
	g.POST("/:id/stop", h.Stop)
	g.GET("/:id/stats", h.Stats)
}
