package handlers

import (
	"errors"
	"net/http"

	"quicklook-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrStatsNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrMnemonicNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrBadFilename),
		errors.Is(err, domain.ErrUnknownInstrument),
		errors.Is(err, domain.ErrUnknownMonitor),
		errors.Is(err, domain.ErrMonitorNotSupported),
		errors.Is(err, domain.ErrInvalidTimeRange),
		errors.Is(err, domain.ErrInvalidStatsMode),
		errors.Is(err, domain.ErrSeriesTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Upstream service errors
	case errors.Is(err, domain.ErrArchiveUnavailable),
		errors.Is(err, domain.ErrEDBUnavailable),
		errors.Is(err, domain.ErrQueryIncomplete):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
