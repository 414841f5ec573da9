package handlers

import (
	"net/http"

	"quicklook-service/internal/adapters/primary/http/dto"
	ports "quicklook-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) EnqueueJob(c *gin.Context) {
	var req dto.EnqueueJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobSvc.Enqueue(c.Request.Context(), req.Monitor, req.Instrument)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"monitor":    req.Monitor,
			"instrument": req.Instrument,
		}).Error("enqueue job failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.ToJobResponse(job))
}

func (h *Handler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	job, err := h.jobSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

func (h *Handler) ListJobs(c *gin.Context) {
	limit, offset := pageParams(c)

	filter := ports.JobFilter{
		Monitor:    c.Query("monitor"),
		Instrument: c.Query("instrument"),
		Status:     c.Query("status"),
		Limit:      limit,
		Offset:     offset,
	}

	jobs, total, err := h.jobSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list jobs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, dto.ToJobResponse(j))
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}
