package agents

import (
	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/auth"
)

// RegisterRoutes registers agent and campaign-assignment routes.
func RegisterRoutes(e *echo.Echo, h *Handler, authMw *auth.Middleware) {
	tenantAgents := e.Group("/api/v1/tenants/:tenantId/agents")
	tenantAgents.Use(authMw.RequireAuth(), authMw.RequireTenant())
	tenantAgents.GET("", h.List)
	tenantAgents.GET("/:id", h.Get)
	tenantAgents.POST("", h.Create)
	tenantAgents.PATCH("/:id", h.Update)
	tenantAgents.DELETE("/:id", h.Delete)

	campaignAgents := e.Group("/api/v1/tenants/:tenantId/campaigns/:campaignId/agents")
	campaignAgents.Use(authMw.RequireAuth(), authMw.RequireTenant())
	campaignAgents.GET("", h.ListAssignments)
	campaignAgents.POST("", h.Assign)
	campaignAgents.DELETE("/:agentId", h.Unassign)
}
