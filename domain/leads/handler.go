package leads

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/outboundhq/dialer/pkg/apperror"
)

// Handler serves lead CRUD, bulk-ingest, and CSV-upload endpoints.
type Handler struct {
	repo      *Repository
	validator *MetadataValidator
}

// NewHandler creates a new leads handler.
func NewHandler(repo *Repository, validator *MetadataValidator) *Handler {
	return &Handler{repo: repo, validator: validator}
}

// List handles GET /tenants/{tenantId}/campaigns/{campaignId}/leads.
func (h *Handler) List(c echo.Context) error {
	list, err := h.repo.List(c.Request().Context(), c.Param("campaignId"), Status(c.QueryParam("status")))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": list})
}

// Get handles GET /tenants/{tenantId}/leads/{id}.
func (h *Handler) Get(c echo.Context) error {
	lead, err := h.repo.FindByID(c.Request().Context(), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	if lead == nil {
		return apperror.NewNotFound("lead", c.Param("id"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": lead})
}

// Stats handles GET /tenants/{tenantId}/campaigns/{campaignId}/leads/stats.
func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.repo.Stats(c.Request().Context(), c.Param("campaignId"))
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": stats})
}

// BulkCreate handles POST /tenants/{tenantId}/campaigns/{campaignId}/leads/bulk
// with a JSON body.
func (h *Handler) BulkCreate(c echo.Context) error {
	var req BulkIngestRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}
	return h.ingest(c, req.Leads)
}

// UploadCSV handles POST /tenants/{tenantId}/campaigns/{campaignId}/leads/csv
// with a multipart CSV file upload.
func (h *Handler) UploadCSV(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperror.NewBadRequest("missing file field")
	}
	src, err := file.Open()
	if err != nil {
		return apperror.NewBadRequest("could not read uploaded file")
	}
	defer src.Close()

	inputs, err := ParseCSV(src)
	if err != nil {
		return apperror.NewBadRequest(err.Error())
	}
	return h.ingest(c, inputs)
}

func (h *Handler) ingest(c echo.Context, inputs []BulkLeadInput) error {
	ctx := c.Request().Context()
	for _, in := range inputs {
		if err := h.validator.Validate(ctx, in.Metadata); err != nil {
			return err
		}
	}

	created, err := h.repo.BulkCreate(ctx, c.Param("tenantId"), c.Param("campaignId"), inputs)
	if err != nil {
		return apperror.ErrDatabase.WithInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    BulkIngestResult{Created: created, Total: len(inputs)},
	})
}

// Delete handles DELETE /tenants/{tenantId}/leads/{id}.
func (h *Handler) Delete(c echo.Context) error {
	if err := h.repo.Delete(c.Request().Context(), c.Param("tenantId"), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
