package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Module mounts the Prometheus scrape endpoint. The metric vectors
// themselves are package-level (promauto), so any package can record
// against them without a constructor dependency.
var Module = fx.Module("metrics",
	fx.Invoke(RegisterRoutes),
)

// RegisterRoutes mounts GET /metrics.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
