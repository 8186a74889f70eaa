package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RasmusBLX79/roblox-marketplace-proxy/pkg/marketplace"
)

// Handler carries the dependencies of the HTTP handlers.
type Handler struct {
	aggregator *marketplace.Aggregator
	appName    string
	logger     zerolog.Logger
}

// SellableItems runs one aggregation for the path user. The aggregation
// runs on a background context: a client disconnect does not abort
// in-flight upstream calls. Degraded completions are 200s; only an
// orchestration defect yields a 500.
func (h *Handler) SellableItems(c *gin.Context) {
	userID := c.Param("userId")

	result := h.aggregator.Aggregate(context.Background(), userID)
	if !result.Success {
		h.logger.Error().
			Str("user_id", userID).
			Str("error", result.Error).
			Msg("Aggregation request failed")
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Root lists the service capabilities.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.appName,
		"endpoints": []string{
			"GET /api/user/:userId/sellable-items",
			"GET /health",
			"GET /metrics",
		},
	})
}
