package agents

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/apperror"
)

// Handler serves the agent CRUD and campaign-assignment endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a new agents handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /tenants/{tenantId}/agents.
func (h *Handler) List(c echo.Context) error {
	list, err := h.repo.List(c.Request().Context())
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": list})
}

// Get handles GET /tenants/{tenantId}/agents/{id}.
func (h *Handler) Get(c echo.Context) error {
	agent, err := h.repo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if agent == nil {
		return apperror.NewNotFound("agent", c.Param("id"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": agent})
}

// Create handles POST /tenants/{tenantId}/agents.
func (h *Handler) Create(c echo.Context) error {
	var req CreateAgentRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.Name == "" {
		return apperror.ErrValidation.WithMessage("name is required")
	}
	if req.MaxConcurrentCalls <= 0 {
		req.MaxConcurrentCalls = 1
	}

	agent := &Agent{
		Name:               req.Name,
		IsActive:           true,
		MaxConcurrentCalls: req.MaxConcurrentCalls,
		LiveKitAgentName:   req.LiveKitAgentName,
	}
	if err := h.repo.Create(c.Request().Context(), agent); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": agent})
}

// Update handles PATCH /tenants/{tenantId}/agents/{id}.
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	agent, err := h.repo.FindByID(ctx, c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if agent == nil {
		return apperror.NewNotFound("agent", c.Param("id"))
	}

	var req UpdateAgentRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.Name != nil {
		agent.Name = *req.Name
	}
	if req.IsActive != nil {
		agent.IsActive = *req.IsActive
	}
	if req.MaxConcurrentCalls != nil && *req.MaxConcurrentCalls > 0 {
		agent.MaxConcurrentCalls = *req.MaxConcurrentCalls
	}
	if req.LiveKitAgentName != nil {
		agent.LiveKitAgentName = req.LiveKitAgentName
	}

	if err := h.repo.Update(ctx, agent); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": agent})
}

// Delete handles DELETE /tenants/{tenantId}/agents/{id}.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.repo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign handles POST /tenants/{tenantId}/campaigns/{campaignId}/agents.
func (h *Handler) Assign(c echo.Context) error {
	var req AssignAgentRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.AgentID == "" {
		return apperror.ErrValidation.WithMessage("agentId is required")
	}

	campaignID := c.Param("campaignId")
	if err := h.repo.AssignToCampaign(c.Request().Context(), campaignID, req.AgentID, req.IsPrimary); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true})
}

// Unassign handles DELETE /tenants/{tenantId}/campaigns/{campaignId}/agents/{agentId}.
func (h *Handler) Unassign(c echo.Context) error {
	campaignID := c.Param("campaignId")
	agentID := c.Param("agentId")
	if err := h.repo.Unassign(c.Request().Context(), campaignID, agentID); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAssignments handles GET /tenants/{tenantId}/campaigns/{campaignId}/agents.
func (h *Handler) ListAssignments(c echo.Context) error {
	assignments, err := h.repo.Assignments(c.Request().Context(), c.Param("campaignId"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": assignments})
}
