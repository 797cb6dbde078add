package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vegaprotocol/research-bot/internal/datanode"

	"github.com/gin-gonic/gin"
)

const probeTimeout = 5 * time.Second

// HealthProber checks which data-node endpoints are responsive and caught
// up with the network.
type HealthProber interface {
	HealthyEndpoints(ctx context.Context, maxLagBlocks uint64) (datanode.Endpoints, error)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	prober       HealthProber
	maxLagBlocks uint64
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(prober HealthProber, maxLagBlocks uint64) *HealthHandler {
	return &HealthHandler{
		prober:       prober,
		maxLagBlocks: maxLagBlocks,
	}
}

// GetHealth returns the overall health status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	healthy, err := h.prober.HealthyEndpoints(ctx, h.maxLagBlocks)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"healthy_endpoints": healthy,
		"timestamp":         time.Now().UTC(),
	})
}

// GetLiveness returns a simple liveness check.
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// GetReadiness reports whether the service can reach a caught-up data node.
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	if _, err := h.prober.HealthyEndpoints(ctx, h.maxLagBlocks); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not_ready",
			"message":   "no healthy data-node endpoint",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}
