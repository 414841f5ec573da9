package handlers

import (
	"net/http"
	"strconv"
	"time"

	"quicklook-service/internal/adapters/primary/http/dto"
	ports "quicklook-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// pageParams reads limit/offset and clamps the limit the same way the
// services do, so the echoed page_size matches the page actually served.
func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) ListCosmicRayStats(c *gin.Context) {
	limit, offset := pageParams(c)

	filter := ports.StatsFilter{
		Instrument: c.Query("instrument"),
		Aperture:   c.Query("aperture"),
		Limit:      limit,
		Offset:     offset,
	}
	if after, ok := parseTimeQuery(c, "after"); ok {
		filter.After = &after
	}
	if before, ok := parseTimeQuery(c, "before"); ok {
		filter.Before = &before
	}

	stats, total, err := h.cosmicRaySvc.ListStats(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list cosmic ray stats failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.CosmicRayStatsResponse, 0, len(stats))
	for _, s := range stats {
		items = append(items, dto.ToCosmicRayStatsResponse(s, false))
	}

	c.JSON(http.StatusOK, dto.ListCosmicRayStatsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetCosmicRayStats(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stats id"})
		return
	}

	stats, err := h.cosmicRaySvc.GetStats(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCosmicRayStatsResponse(stats, true))
}

func (h *Handler) ListCosmicRayHistory(c *gin.Context) {
	limit, offset := pageParams(c)

	filter := ports.HistoryFilter{
		Instrument: c.Query("instrument"),
		Aperture:   c.Query("aperture"),
		Limit:      limit,
		Offset:     offset,
	}

	entries, total, err := h.cosmicRaySvc.ListHistory(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list query history failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.QueryHistoryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToQueryHistoryResponse(e))
	}

	c.JSON(http.StatusOK, dto.ListQueryHistoryResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func parseTimeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
