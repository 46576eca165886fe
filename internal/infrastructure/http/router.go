package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecoshop/storefront/internal/infrastructure/http/handlers"
)

// RegisterOps mounts the operational endpoints: liveness, readiness and
// Prometheus metrics. None of them go through the route guard.
func RegisterOps(e *echo.Echo, deps map[string]handlers.Pinger) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
