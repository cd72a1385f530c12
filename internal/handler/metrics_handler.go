package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/tra-capacitacion/inscripciones-api/internal/service"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs MetricsHandler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Expose serves the Prometheus registry.
func (h *MetricsHandler) Expose(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
