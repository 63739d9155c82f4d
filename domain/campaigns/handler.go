package campaigns

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/domain/campaigns/selector"
	"github.com/outboundhq/dialer/domain/leads"
	"github.com/outboundhq/dialer/pkg/apperror"
)

// Supervisor is the narrow view of supervisor.Supervisor the HTTP handler
// needs to drive campaign control operations, kept as an interface so this
// package never imports domain/campaigns/supervisor (which itself imports
// this package's Repository type).
type Supervisor interface {
	StartCampaign(ctx context.Context, tenantID, campaignID string) error
	PauseCampaign(campaignID string) error
	ResumeCampaign(campaignID string) error
	StopCampaign(campaignID string) error
	GetRealtimeView(campaignID string) (RealtimeView, bool)
}

// Handler serves campaign CRUD and control endpoints.
type Handler struct {
	repo       *Repository
	leads      *leads.Repository
	supervisor Supervisor
}

// NewHandler creates a new campaigns handler.
func NewHandler(repo *Repository, leadsRepo *leads.Repository, sup Supervisor) *Handler {
	return &Handler{repo: repo, leads: leadsRepo, supervisor: sup}
}

// List handles GET /tenants/{tenantId}/campaigns.
func (h *Handler) List(c echo.Context) error {
	list, err := h.repo.List(c.Request().Context(), c.Param("tenantId"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": list})
}

// Get handles GET /tenants/{tenantId}/campaigns/{id}.
func (h *Handler) Get(c echo.Context) error {
	campaign, err := h.repo.FindByID(c.Request().Context(), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if campaign == nil {
		return apperror.NewNotFound("campaign", c.Param("id"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": campaign})
}

// Create handles POST /tenants/{tenantId}/campaigns.
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.Name == "" {
		return apperror.ErrValidation.WithMessage("name is required")
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = string(selector.StrategyPrimaryFirst)
	}
	maxConcurrent := req.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	campaign := &Campaign{
		TenantID:      c.Param("tenantId"),
		Name:          req.Name,
		Strategy:      strategy,
		MaxConcurrent: maxConcurrent,
		RetryFailed:   req.RetryFailed,
		RetryAttempts: req.RetryAttempts,
		CallDelayMs:   req.CallDelayMs,
	}
	if req.SipTrunkID != "" {
		campaign.SipTrunkID = &req.SipTrunkID
	}
	if req.CallerIDNumber != "" {
		campaign.CallerIDNumber = &req.CallerIDNumber
	}
	if req.AgentName != "" {
		campaign.AgentName = &req.AgentName
	}

	if err := h.repo.Create(c.Request().Context(), campaign); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": campaign})
}

// Update handles PATCH /tenants/{tenantId}/campaigns/{id}.
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	campaign, err := h.repo.FindByID(ctx, c.Param("tenantId"), c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if campaign == nil {
		return apperror.NewNotFound("campaign", c.Param("id"))
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.Name != nil {
		campaign.Name = *req.Name
	}
	if req.MaxConcurrent != nil {
		campaign.MaxConcurrent = *req.MaxConcurrent
	}
	if req.RetryFailed != nil {
		campaign.RetryFailed = *req.RetryFailed
	}
	if req.RetryAttempts != nil {
		campaign.RetryAttempts = *req.RetryAttempts
	}
	if req.CallDelayMs != nil {
		campaign.CallDelayMs = *req.CallDelayMs
	}
	if req.SipTrunkID != nil {
		campaign.SipTrunkID = req.SipTrunkID
	}
	if req.CallerIDNumber != nil {
		campaign.CallerIDNumber = req.CallerIDNumber
	}
	if req.AgentName != nil {
		campaign.AgentName = req.AgentName
	}
	if req.Strategy != nil {
		campaign.Strategy = *req.Strategy
	}

	if err := h.repo.Update(ctx, campaign); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": campaign})
}

// Delete handles DELETE /tenants/{tenantId}/campaigns/{id}.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.repo.Delete(c.Request().Context(), c.Param("tenantId"), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Start handles POST /tenants/{tenantId}/campaigns/{id}/start.
func (h *Handler) Start(c echo.Context) error {
	if err := h.supervisor.StartCampaign(c.Request().Context(), c.Param("tenantId"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Pause handles POST /tenants/{tenantId}/campaigns/{id}/pause.
func (h *Handler) Pause(c echo.Context) error {
	if err := h.supervisor.PauseCampaign(c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Resume handles POST /tenants/{tenantId}/campaigns/{id}/resume.
func (h *Handler) Resume(c echo.Context) error {
	if err := h.supervisor.ResumeCampaign(c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Stop handles POST /tenants/{tenantId}/campaigns/{id}/stop.
func (h *Handler) Stop(c echo.Context) error {
	if err := h.supervisor.StopCampaign(c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// Stats handles GET /tenants/{tenantId}/campaigns/{id}/stats: persisted
// aggregates, plus a live `realtime` block when a Runtime is actively
// driving the campaign.
func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	campaign, err := h.repo.FindByID(ctx, c.Param("tenantId"), c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if campaign == nil {
		return apperror.NewNotFound("campaign", c.Param("id"))
	}

	resp := StatsResponse{
		TotalCalls:      campaign.TotalCalls,
		SuccessfulCalls: campaign.SuccessfulCalls,
		FailedCalls:     campaign.FailedCalls,
		Status:          campaign.Status,
	}
	if view, ok := h.supervisor.GetRealtimeView(campaign.ID); ok {
		resp.Realtime = &view
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": resp})
}
