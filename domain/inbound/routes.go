package inbound

import "github.com/labstack/echo/v4"

// RegisterRoutes registers the fabric's webhook routes. These are called
// by the telephony platform, not a tenant-authenticated caller, so they
// carry no auth middleware.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/webhooks/livekit")
	g.POST("/sip-inbound", h.SIPInbound)
	g.POST("/events", h.Events)
}
