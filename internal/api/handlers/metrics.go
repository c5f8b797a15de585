package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/troikatech/kisan-voicebot/pkg/metrics"
)

// GetMetrics serves the Prometheus exposition format.
func (h *Handler) GetMetrics(c *gin.Context) {
	metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
