package phonenumbers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/apperror"
)

// Handler serves the phone number CRUD endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a new phone numbers handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /tenants/{tenantId}/phone-numbers.
func (h *Handler) List(c echo.Context) error {
	list, err := h.repo.List(c.Request().Context(), c.Param("tenantId"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": list})
}

// Get handles GET /tenants/{tenantId}/phone-numbers/{id}.
func (h *Handler) Get(c echo.Context) error {
	pn, err := h.repo.FindByID(c.Request().Context(), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if pn == nil {
		return apperror.NewNotFound("phoneNumber", c.Param("id"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": pn})
}

// Create handles POST /tenants/{tenantId}/phone-numbers.
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.Number == "" {
		return apperror.ErrValidation.WithMessage("number is required")
	}
	numberType := req.Type
	if numberType == "" {
		numberType = NumberTypeLocal
	}

	pn := &PhoneNumber{
		TenantID: c.Param("tenantId"),
		Number:   req.Number,
		Type:     numberType,
		IsActive: true,
	}
	if req.ProviderSID != "" {
		pn.ProviderSID = &req.ProviderSID
	}
	if req.Provider != "" {
		pn.Provider = &req.Provider
	}

	if err := h.repo.Create(c.Request().Context(), pn); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": pn})
}

// Update handles PATCH /tenants/{tenantId}/phone-numbers/{id}.
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	pn, err := h.repo.FindByID(ctx, c.Param("tenantId"), c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if pn == nil {
		return apperror.NewNotFound("phoneNumber", c.Param("id"))
	}

	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	if req.CampaignID != nil {
		pn.CampaignID = req.CampaignID
	}
	if req.LiveKitTrunkID != nil {
		pn.LiveKitTrunkID = req.LiveKitTrunkID
	}
	if req.IsActive != nil {
		pn.IsActive = *req.IsActive
	}

	if err := h.repo.Update(ctx, pn); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": pn})
}

// Delete handles DELETE /tenants/{tenantId}/phone-numbers/{id}.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.repo.Delete(c.Request().Context(), c.Param("tenantId"), c.Param("id")); err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
