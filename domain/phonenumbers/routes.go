package phonenumbers

import (
	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/auth"
)

// RegisterRoutes registers phone number routes.
func RegisterRoutes(e *echo.Echo, h *Handler, authMw *auth.Middleware) {
	g := e.Group("/api/v1/tenants/:tenantId/phone-numbers")
	g.Use(authMw.RequireAuth(), authMw.RequireTenant())
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
