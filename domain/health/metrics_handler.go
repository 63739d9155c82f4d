package health

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// MetricsHandler reports lead-queue depth per campaign, a lightweight
// operational complement to the Prometheus /metrics endpoint.
type MetricsHandler struct {
	db bun.IDB
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(db bun.IDB) *MetricsHandler {
	return &MetricsHandler{db: db}
}

// LeadQueueMetrics summarizes lead status counts for one campaign.
type LeadQueueMetrics struct {
	CampaignID string `json:"campaignId"`
	Pending    int64  `json:"pending"`
	Calling    int64  `json:"calling"`
	Completed  int64  `json:"completed"`
	Failed     int64  `json:"failed"`
	Total      int64  `json:"total"`
}

// AllLeadQueueMetrics wraps the per-campaign breakdown with a timestamp.
type AllLeadQueueMetrics struct {
	Campaigns []LeadQueueMetrics `json:"campaigns"`
	Timestamp string             `json:"timestamp"`
}

// JobMetrics reports lead-queue depth for every campaign that has leads,
// whatever the campaign's status.
func (h *MetricsHandler) JobMetrics(c echo.Context) error {
	ctx := c.Request().Context()

	var rows []LeadQueueMetrics
	query := `
		SELECT
			campaign_id,
			COUNT(*) FILTER (WHERE status = 'pending')   AS pending,
			COUNT(*) FILTER (WHERE status = 'calling')   AS calling,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'failed')    AS failed,
			COUNT(*)                                     AS total
		FROM leads
		GROUP BY campaign_id
	`
	if err := h.db.NewRaw(query).Scan(ctx, &rows); err != nil {
		return c.JSON(http.StatusOK, AllLeadQueueMetrics{Timestamp: time.Now().UTC().Format(time.RFC3339)})
	}

	return c.JSON(http.StatusOK, AllLeadQueueMetrics{
		Campaigns: rows,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// SchedulerMetrics returns a fixed message. It does not report the
// last-run status of the recurring tasks (orphaned-lead recovery, stale
// call-log sweep), and no scheduler gauges are exported on /metrics.
func (h *MetricsHandler) SchedulerMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "scheduler task status is not exposed over HTTP",
	})
}
