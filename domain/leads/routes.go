package leads

import (
	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/auth"
)

// RegisterRoutes registers lead routes, nested under a campaign for
// listing/ingestion and under a tenant directly for single-lead
// operations.
func RegisterRoutes(e *echo.Echo, h *Handler, authMw *auth.Middleware) {
	campaignLeads := e.Group("/api/v1/tenants/:tenantId/campaigns/:campaignId/leads")
	campaignLeads.Use(authMw.RequireAuth(), authMw.RequireTenant())
	campaignLeads.GET("", h.List)
	campaignLeads.GET("/stats", h.Stats)
	campaignLeads.POST("/bulk", h.BulkCreate)
	campaignLeads.POST("/csv", h.UploadCSV)

	tenantLeads := e.Group("/api/v1/tenants/:tenantId/leads")
	tenantLeads.Use(authMw.RequireAuth(), authMw.RequireTenant())
	tenantLeads.GET("/:id", h.Get)
	tenantLeads.DELETE("/:id", h.Delete)
}
