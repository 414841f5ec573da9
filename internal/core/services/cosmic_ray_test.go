package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
	"quicklook-service/internal/testutil"
)

func newCosmicRayService() (*CosmicRayService, *testutil.MockQueryHistoryRepo, *testutil.MockCosmicRayStatsRepo, *testutil.MockArchiveClient, *testutil.MockExposureStore, *testutil.MockCalibrator) {
	history := new(testutil.MockQueryHistoryRepo)
	stats := new(testutil.MockCosmicRayStatsRepo)
	archive := new(testutil.MockArchiveClient)
	store := new(testutil.MockExposureStore)
	calibrator := new(testutil.MockCalibrator)
	svc := NewCosmicRayService(history, stats, archive, store, calibrator, 2)
	return svc, history, stats, archive, store, calibrator
}

func TestCosmicRayService_MostRecentSearch_Default(t *testing.T) {
	svc, history, _, _, _, _ := newCosmicRayService()
	history.On("MostRecentEnd", mock.Anything, domain.InstrumentMIRI, "MIRIM_FULL").Return(0.0, false, nil)

	mjd, err := svc.MostRecentSearch(context.Background(), domain.InstrumentMIRI, "MIRIM_FULL")
	assert.NoError(t, err)
	assert.Equal(t, domain.QueryEpochMJD, mjd)
}

func TestCosmicRayService_MostRecentSearch_FromHistory(t *testing.T) {
	svc, history, _, _, _, _ := newCosmicRayService()
	history.On("MostRecentEnd", mock.Anything, domain.InstrumentNIRCam, "NRCA1_FULL").Return(60000.5, true, nil)

	mjd, err := svc.MostRecentSearch(context.Background(), domain.InstrumentNIRCam, "NRCA1_FULL")
	assert.NoError(t, err)
	assert.Equal(t, 60000.5, mjd)
}

func TestCosmicRayService_Run_UnsupportedInstrument(t *testing.T) {
	svc, _, _, _, _, _ := newCosmicRayService()

	err := svc.Run(context.Background(), domain.InstrumentNIRSpec)
	assert.ErrorIs(t, err, domain.ErrMonitorNotSupported)
}

func TestCosmicRayService_Run_NoNewData(t *testing.T) {
	svc, history, _, archive, _, _ := newCosmicRayService()

	history.On("MostRecentEnd", mock.Anything, domain.InstrumentMIRI, mock.AnythingOfType("string")).Return(60000.0, true, nil)
	archive.On("Inventory", mock.Anything, mock.AnythingOfType("ports.InventoryQuery")).Return([]ports.InventoryEntry{}, nil)

	err := svc.Run(context.Background(), domain.InstrumentMIRI)
	assert.NoError(t, err)
	history.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCosmicRayService_Run_ProcessesExposure(t *testing.T) {
	svc, history, stats, archive, store, calibrator := newCosmicRayService()

	const filename = "jw02733001001_02101_00001_mirimage_uncal.fits"
	archivePath := "/archive/jw02733/" + filename
	stagedPath := filepath.Join("/work/cosmic_ray_monitor/data", filename)
	obsDir := filepath.Join("/work/cosmic_ray_monitor/data", "jw02733001001_02101_00001_mirimage")
	obsPath := filepath.Join(obsDir, filename)

	history.On("MostRecentEnd", mock.Anything, domain.InstrumentMIRI, mock.AnythingOfType("string")).Return(60000.0, true, nil)
	archive.On("Inventory", mock.Anything, mock.MatchedBy(func(q ports.InventoryQuery) bool {
		return q.Aperture == "MIRIM_FULL"
	})).Return([]ports.InventoryEntry{{Filename: filename, Aperture: "MIRIM_FULL"}}, nil)
	archive.On("Inventory", mock.Anything, mock.AnythingOfType("ports.InventoryQuery")).Return([]ports.InventoryEntry{}, nil)

	store.On("Locate", filename).Return(archivePath, nil)
	store.On("CopyToWorkDir", []string{archivePath}, filepath.Join("cosmic_ray_monitor", "data")).
		Return([]string{stagedPath}, []string(nil), nil)
	store.On("CopyToWorkDir", []string{stagedPath}, filepath.Join("cosmic_ray_monitor", "data", "jw02733001001_02101_00001_mirimage")).
		Return([]string{obsPath}, []string(nil), nil)

	calibrator.On("RunDetector1", mock.Anything, obsPath, obsDir).Return(nil)

	jumpPath := filepath.Join(obsDir, "jw02733001001_02101_00001_mirimage_jump.json")
	ratePath := filepath.Join(obsDir, "jw02733001001_02101_00001_mirimage_0_ramp_fit.json")
	store.On("Products", obsDir).Return([]string{jumpPath, ratePath}, nil)

	dq := domain.IntCube{Dims: []int{3, 1, 1}, Values: []int{0, 0, domain.JumpDetected}}
	ramp := domain.Cube{Dims: []int{3, 1, 1}, Values: []float64{10, 12, 64}}
	jump := &domain.JumpProduct{
		Header: domain.ExposureHeader{NInts: 1, NGroups: 3, GroupTime: 2.0, ExpStartMJD: 60000.1, ExpEndMJD: 60000.2},
		Ramp:   ramp,
		DQ:     dq,
	}
	rate := &domain.RateProduct{Rate: domain.Cube{Dims: []int{1, 1}, Values: []float64{1}}}
	store.On("LoadJumpProduct", jumpPath).Return(jump, nil)
	store.On("LoadRateProduct", ratePath).Return(rate, nil)

	stats.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.CosmicRayStats) bool {
		return s.JumpCount == 1 && len(s.Magnitudes) == 1 && s.SourceFile == filename
	})).Return(nil)
	history.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.QueryHistory) bool {
		return e.Aperture == "MIRIM_FULL" && e.RunMonitor && e.FilesFound == 1
	})).Return(nil)

	err := svc.Run(context.Background(), domain.InstrumentMIRI)
	assert.NoError(t, err)
	stats.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestCosmicRayService_Run_SkipsMissingFiles(t *testing.T) {
	svc, history, _, archive, store, _ := newCosmicRayService()

	const filename = "jw02733001001_02101_00001_mirimage_uncal.fits"
	history.On("MostRecentEnd", mock.Anything, domain.InstrumentMIRI, mock.AnythingOfType("string")).Return(60000.0, true, nil)
	archive.On("Inventory", mock.Anything, mock.MatchedBy(func(q ports.InventoryQuery) bool {
		return q.Aperture == "MIRIM_FULL"
	})).Return([]ports.InventoryEntry{{Filename: filename}}, nil)
	archive.On("Inventory", mock.Anything, mock.AnythingOfType("ports.InventoryQuery")).Return([]ports.InventoryEntry{}, nil)

	store.On("Locate", filename).Return("", domain.ErrFileNotFound)
	store.On("CopyToWorkDir", []string(nil), filepath.Join("cosmic_ray_monitor", "data")).
		Return([]string(nil), []string(nil), nil)
	history.On("Create", mock.Anything, mock.AnythingOfType("*domain.QueryHistory")).Return(nil)

	err := svc.Run(context.Background(), domain.InstrumentMIRI)
	assert.NoError(t, err)
	history.AssertExpectations(t)
}

func TestCosmicRayService_ListStats_ClampsLimit(t *testing.T) {
	svc, _, stats, _, _, _ := newCosmicRayService()

	stats.On("List", mock.Anything, mock.MatchedBy(func(f ports.StatsFilter) bool {
		return f.Limit == 100
	})).Return([]*domain.CosmicRayStats{}, 0, nil).Once()
	stats.On("List", mock.Anything, mock.MatchedBy(func(f ports.StatsFilter) bool {
		return f.Limit == 20
	})).Return([]*domain.CosmicRayStats{}, 0, nil).Once()

	_, _, err := svc.ListStats(context.Background(), ports.StatsFilter{Limit: 1000})
	assert.NoError(t, err)
	_, _, err = svc.ListStats(context.Background(), ports.StatsFilter{})
	assert.NoError(t, err)
	stats.AssertExpectations(t)
}
