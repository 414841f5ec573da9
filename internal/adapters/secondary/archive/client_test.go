package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quicklook-service/internal/config"
	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

func TestInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0.1/inventory", r.URL.Path)
		assert.Equal(t, "miri", r.URL.Query().Get("instrument"))
		assert.Equal(t, "MIRIM_FULL", r.URL.Query().Get("apername"))
		assert.Equal(t, "57357", r.URL.Query().Get("date_obs_mjd_min"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "COMPLETE",
			"data": [
				{"filename": "jw02733001001_02101_00001_mirimage_uncal.fits", "apername": "MIRIM_FULL", "date_obs_mjd": 60001.5}
			]
		}`))
	}))
	defer srv.Close()

	client := NewArchiveClient(&config.ArchiveConfig{URL: srv.URL, Timeout: 5 * time.Second})
	entries, err := client.Inventory(context.Background(), ports.InventoryQuery{
		Instrument: domain.InstrumentMIRI,
		Aperture:   "MIRIM_FULL",
		StartMJD:   domain.QueryEpochMJD,
		EndMJD:     60002,
	})

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "jw02733001001_02101_00001_mirimage_uncal.fits", entries[0].Filename)
	assert.InDelta(t, 60001.5, entries[0].DateObsMJD, 1e-9)
}

func TestInventory_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewArchiveClient(&config.ArchiveConfig{URL: srv.URL, Timeout: 5 * time.Second})
	_, err := client.Inventory(context.Background(), ports.InventoryQuery{Instrument: domain.InstrumentMIRI})

	assert.ErrorIs(t, err, domain.ErrArchiveUnavailable)
}
