package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"channel-relay-go/internal/processor"
	"channel-relay-go/internal/scheduler"
	"channel-relay-go/internal/store"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	db        *gorm.DB
	store     *store.Store
	processor *processor.Processor
	scheduler *scheduler.Scheduler
	opts      processor.ProcessingOptions
}

// NewHandlers creates new HTTP handlers
func NewHandlers(db *gorm.DB, st *store.Store, proc *processor.Processor, sched *scheduler.Scheduler, opts processor.ProcessingOptions) *Handlers {
	return &Handlers{
		db:        db,
		store:     st,
		processor: proc,
		scheduler: sched,
		opts:      opts,
	}
}

// SetupRoutes sets up all HTTP routes
func (h *Handlers) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/mappings", h.GetMappings)
		api.POST("/mappings", h.CreateMapping)
		api.GET("/mappings/:id", h.GetMapping)
		api.PUT("/mappings/:id", h.UpdateMapping)
		api.DELETE("/mappings/:id", h.DeleteMapping)
		api.PATCH("/mappings/:id/enable", h.EnableMapping)
		api.PATCH("/mappings/:id/disable", h.DisableMapping)
		api.POST("/mappings/:id/catchup", h.CatchUpMapping)

		api.GET("/messages", h.GetMessages)
		api.GET("/logs", h.GetLogs)

		api.POST("/scheduler/start", h.StartScheduler)
		api.POST("/scheduler/stop", h.StopScheduler)
		api.POST("/scheduler/run-once", h.RunOnce)
		api.GET("/scheduler/status", h.GetSchedulerStatus)
	}
}
