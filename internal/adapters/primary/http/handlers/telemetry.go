package handlers

import (
	"net/http"
	"time"

	"quicklook-service/internal/adapters/primary/http/dto"
	"quicklook-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListMnemonics(c *gin.Context) {
	mnemonics, err := h.telemetrySvc.Inventory(c.Request.Context(), c.Query("search"))
	if err != nil {
		log.WithError(err).Error("mnemonic inventory failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.InventoryMnemonicResponse, 0, len(mnemonics))
	for _, m := range mnemonics {
		items = append(items, dto.InventoryMnemonicResponse{
			Mnemonic:    m.Mnemonic,
			Identifier:  m.Identifier,
			Description: m.Description,
			Subsystem:   m.Subsystem,
		})
	}

	c.JSON(http.StatusOK, dto.ListInventoryResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetMnemonic(c *gin.Context) {
	start, ok := parseTimeQuery(c, "start")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be an RFC3339 timestamp"})
		return
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be an RFC3339 timestamp"})
		return
	}

	series, err := h.telemetrySvc.GetMnemonic(c.Request.Context(), c.Param("mnemonic"), start, end)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	if mode := c.Query("stats"); mode != "" {
		bin := time.Duration(0)
		if raw := c.Query("bin"); raw != "" {
			bin, err = time.ParseDuration(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bin must be a duration, e.g. 15m"})
				return
			}
		}
		if err := h.telemetrySvc.WithStats(series, services.StatsMode(mode), bin); err != nil {
			mapDomainError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToMnemonicSeriesResponse(series))
}

func (h *Handler) GetMnemonicInfo(c *gin.Context) {
	info, err := h.telemetrySvc.Info(c.Request.Context(), c.Param("mnemonic"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMnemonicInfoResponse(info))
}
