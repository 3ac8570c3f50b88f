package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dinner-planner/internal/core/parser/cache"
	"dinner-planner/internal/core/planner"
	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
	"dinner-planner/internal/store"
)

// HealthResponse reports overall service health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
	Queue     *planner.QueueStatus   `json:"queue,omitempty"`
}

// Handler serves health, readiness, and liveness probes.
type Handler struct {
	config    *config.Config
	db        *store.DB
	cache     cache.Store
	processor *planner.RecipeProcessor
}

// NewHandler creates a health Handler. Cache and processor may be nil when
// the corresponding subsystems are disabled.
func NewHandler(cfg *config.Config, db *store.DB, cacheStore cache.Store, processor *planner.RecipeProcessor) *Handler {
	return &Handler{
		config:    cfg,
		db:        db,
		cache:     cacheStore,
		processor: processor,
	}
}

// HealthCheck reports version, runtime, cache, and queue state.
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}
	if h.processor != nil {
		status := h.processor.Status()
		response.Queue = &status
	}

	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck verifies the database is reachable before reporting ready.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			common.LogError("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"error":  "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck reports that the process is alive.
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
