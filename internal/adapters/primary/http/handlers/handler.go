package handlers

import (
	"quicklook-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cosmicRaySvc *services.CosmicRayService
	telemetrySvc *services.TelemetryService
	jobSvc       *services.JobService
}

func New(
	cosmicRaySvc *services.CosmicRayService,
	telemetrySvc *services.TelemetryService,
	jobSvc *services.JobService,
) *Handler {
	return &Handler{
		cosmicRaySvc: cosmicRaySvc,
		telemetrySvc: telemetrySvc,
		jobSvc:       jobSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Cosmic ray monitor results
	r.GET("/monitors/cosmic_ray/stats", h.ListCosmicRayStats)
	r.GET("/monitors/cosmic_ray/stats/:id", h.GetCosmicRayStats)
	r.GET("/monitors/cosmic_ray/history", h.ListCosmicRayHistory)

	// Monitor jobs
	r.POST("/monitors/runs", h.EnqueueJob)
	r.GET("/jobs", h.ListJobs)
	r.GET("/jobs/:id", h.GetJob)

	// Engineering database telemetry
	r.GET("/telemetry/mnemonics", h.ListMnemonics)
	r.GET("/telemetry/mnemonics/:mnemonic", h.GetMnemonic)
	r.GET("/telemetry/mnemonics/:mnemonic/info", h.GetMnemonicInfo)
}
