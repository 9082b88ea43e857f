package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIV1Prefix is the canonical base path for public HTTP API v1.
const APIV1Prefix = "/api/v1"

// readinessTimeout bounds the storage ping behind /ready.
const readinessTimeout = 2 * time.Second

// Pinger is the minimal contract I need from storage to check readiness.
// I keep it local to the handler package to avoid coupling and simplify tests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	storage Pinger
}

func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness pings the catalog storage and reports how long it took.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	start := time.Now()
	err := h.storage.Ping(ctx)
	took := time.Since(start).Milliseconds()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "unavailable",
			"storage":    "down",
			"error":      err.Error(),
			"latency_ms": took,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "storage": "up", "latency_ms": took})
}
