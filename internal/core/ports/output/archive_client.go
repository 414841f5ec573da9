package ports

import (
	"context"

	"quicklook-service/internal/core/domain"
)

// InventoryQuery selects exposures by instrument, aperture and observation
// date window (MJD).
type InventoryQuery struct {
	Instrument domain.Instrument
	Aperture   string
	StartMJD   float64
	EndMJD     float64
}

// InventoryEntry is one exposure the archive knows about.
type InventoryEntry struct {
	Filename   string  `json:"filename"`
	Aperture   string  `json:"apername"`
	DateObsMJD float64 `json:"date_obs_mjd"`
}

// ArchiveClient queries the observation archive inventory.
type ArchiveClient interface {
	Inventory(ctx context.Context, query InventoryQuery) ([]InventoryEntry, error)
}
