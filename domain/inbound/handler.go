package inbound

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler adapts the Router to the fabric's two webhook endpoints.
type Handler struct {
	router *Router
}

// NewHandler creates a new inbound webhook handler.
func NewHandler(router *Router) *Handler {
	return &Handler{router: router}
}

// SIPInbound handles POST /webhooks/livekit/sip-inbound. It always
// responds 200 with a usable agent name, even on internal failure.
func (h *Handler) SIPInbound(c echo.Context) error {
	var req SIPInboundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, SIPInboundResponse{
			AgentName: h.router.cfg.LiveKit.DefaultAgentName,
			Error:     "invalid request body",
		})
	}
	resp := h.router.HandleSIPInbound(c.Request().Context(), req)
	return c.JSON(http.StatusOK, resp)
}

// Events handles POST /webhooks/livekit/events, acknowledged with
// `{success:true}` regardless of outcome.
func (h *Handler) Events(c echo.Context) error {
	var ev RoomEvent
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	}
	_ = h.router.HandleRoomEvent(c.Request().Context(), ev)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
