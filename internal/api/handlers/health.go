package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	services := map[string]string{
		"api":           "healthy",
		"session_store": "unknown",
		"ai_provider":   "unavailable",
	}

	if err := h.store.Ping(ctx); err != nil {
		services["session_store"] = "unhealthy"
	} else {
		services["session_store"] = "healthy"
	}

	if h.aiManager != nil {
		if names := h.aiManager.AvailableProviders(); len(names) > 0 {
			services["ai_provider"] = strings.Join(names, ",")
		}
	}

	overallStatus := "healthy"
	for _, status := range services {
		if status == "unhealthy" || status == "unavailable" {
			overallStatus = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().Format(time.RFC3339),
		Services:  services,
	})
}
