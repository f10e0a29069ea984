package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeflow/internal/generation"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheStatter reports response cache counters.
type CacheStatter interface {
	Stats() generation.CacheStats
}

// HealthHandler handles health check and system endpoints.
type HealthHandler struct {
	db    Pinger
	redis Pinger
	cache CacheStatter
}

// NewHealthHandler creates a new HealthHandler. redis and cache may be nil.
func NewHealthHandler(db, redis Pinger, cache CacheStatter) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, cache: cache}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	if h.redis != nil {
		if err := h.redis.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "cache not reachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CacheStats handles GET /api/v1/system/cache
// @Summary Response cache counters
// @Tags system
// @Produce json
// @Success 200 {object} Response{data=generation.CacheStats} "Hit and miss counts"
// @Security BearerAuth
// @Router /system/cache [get]
func (h *HealthHandler) CacheStats(c *gin.Context) {
	var stats generation.CacheStats
	if h.cache != nil {
		stats = h.cache.Stats()
	}
	RespondOK(c, stats)
}
