package services

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
	"quicklook-service/internal/metrics"
)

const cosmicRayWorkDir = "cosmic_ray_monitor"

// CosmicRayService checks the number and magnitude of jumps in new MIRI and
// NIRCam observations. A run searches the archive for exposures taken since
// the previous recorded query, copies them into a working directory, runs
// them through the stage-1 calibration pipeline, counts the flagged jumps
// and stores the results.
type CosmicRayService struct {
	history     ports.QueryHistoryRepository
	stats       ports.CosmicRayStatsRepository
	archive     ports.ArchiveClient
	store       ports.ExposureStore
	calibrator  ports.Calibrator
	concurrency int
}

func NewCosmicRayService(
	history ports.QueryHistoryRepository,
	stats ports.CosmicRayStatsRepository,
	archive ports.ArchiveClient,
	store ports.ExposureStore,
	calibrator ports.Calibrator,
	concurrency int,
) *CosmicRayService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CosmicRayService{
		history:     history,
		stats:       stats,
		archive:     archive,
		store:       store,
		calibrator:  calibrator,
		concurrency: concurrency,
	}
}

// Run executes the monitor for one instrument across all of its apertures.
func (s *CosmicRayService) Run(ctx context.Context, instrument domain.Instrument) error {
	apertures, ok := domain.Apertures[instrument]
	if !ok {
		return domain.ErrMonitorNotSupported
	}

	queryEnd := domain.TimeToMJD(time.Now().UTC())

	log.WithFields(log.Fields{
		"instrument": instrument,
		"apertures":  len(apertures),
	}).Info("cosmic ray monitor run started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, aperture := range apertures {
		ap := aperture
		g.Go(func() error {
			return s.runAperture(gctx, instrument, ap, queryEnd)
		})
	}
	return g.Wait()
}

func (s *CosmicRayService) runAperture(ctx context.Context, instrument domain.Instrument, aperture string, queryEnd float64) error {
	logger := log.WithFields(log.Fields{"instrument": instrument, "aperture": aperture})

	queryStart, err := s.MostRecentSearch(ctx, instrument, aperture)
	if err != nil {
		return err
	}
	logger.WithField("start_mjd", queryStart).Info("querying archive for new data")

	entries, err := s.archive.Inventory(ctx, ports.InventoryQuery{
		Instrument: instrument,
		Aperture:   aperture,
		StartMJD:   queryStart,
		EndMJD:     queryEnd,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		logger.Info("no new data to process")
		return nil
	}

	var paths []string
	for _, entry := range entries {
		path, err := s.store.Locate(entry.Filename)
		switch {
		case err == nil:
			paths = append(paths, path)
		case err == domain.ErrFileNotFound:
			logger.WithField("file", entry.Filename).Info("file not found in archive filesystem")
		case err == domain.ErrBadFilename:
			logger.WithField("file", entry.Filename).Info("file does not follow the naming convention")
		default:
			return err
		}
	}

	copied, failed, err := s.store.CopyToWorkDir(paths, filepath.Join(cosmicRayWorkDir, "data"))
	if err != nil {
		return err
	}
	for _, f := range failed {
		logger.WithField("file", f).Warn("failed to copy file to working directory")
	}

	for _, file := range copied {
		if err := s.processFile(ctx, instrument, aperture, file); err != nil {
			logger.WithError(err).WithField("file", file).Warn("exposure analysis failed")
		}
	}

	entry := &domain.QueryHistory{
		ID:           uuid.New(),
		Instrument:   instrument,
		Aperture:     aperture,
		StartTimeMJD: queryStart,
		EndTimeMJD:   queryEnd,
		FilesFound:   len(entries),
		RunMonitor:   true,
		EntryDate:    time.Now().UTC(),
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return err
	}
	logger.Info("updated the query history")
	return nil
}

// processFile analyzes one uncalibrated exposure: run it through the
// pipeline in its own observation directory, locate the jump and rate
// products and store the jump count and magnitudes.
func (s *CosmicRayService) processFile(ctx context.Context, instrument domain.Instrument, aperture, file string) error {
	props, err := domain.ParseFilename(file)
	if err != nil {
		return err
	}
	if props.Suffix != "uncal" {
		return nil
	}

	obsName := domain.ObservationDirName(file)
	copied, _, err := s.store.CopyToWorkDir([]string{file}, filepath.Join(cosmicRayWorkDir, "data", obsName))
	if err != nil {
		return err
	}
	if len(copied) == 0 {
		return domain.ErrFileNotFound
	}
	uncal := copied[0]
	obsDir := filepath.Dir(uncal)

	if err := s.calibrator.RunDetector1(ctx, uncal, obsDir); err != nil {
		return err
	}

	jump, rate, err := s.loadProducts(obsDir)
	if err != nil {
		return err
	}

	locations := jump.JumpLocations()
	magnitudes := jump.Magnitudes(locations, *rate)

	stats := &domain.CosmicRayStats{
		ID:           uuid.New(),
		Instrument:   instrument,
		Aperture:     aperture,
		SourceFile:   filepath.Base(file),
		ObsStartTime: domain.MJDToTime(jump.Header.ExpStartMJD),
		ObsEndTime:   domain.MJDToTime(jump.Header.ExpEndMJD),
		JumpCount:    len(locations),
		Magnitudes:   magnitudes,
		EntryDate:    time.Now().UTC(),
	}
	if err := s.stats.Create(ctx, stats); err != nil {
		return err
	}

	metrics.ExposureAnalyzed(string(instrument))
	metrics.CosmicRaysDetected(string(instrument), len(locations))

	log.WithFields(log.Fields{
		"file":       stats.SourceFile,
		"jump_count": stats.JumpCount,
	}).Info("inserted cosmic ray stats")
	return nil
}

// loadProducts finds the jump and matching ramp-fit products in an
// observation directory. Single-integration exposures use the 0_ramp_fit
// product, multi-integration exposures the 1_ramp_fit product.
func (s *CosmicRayService) loadProducts(obsDir string) (*domain.JumpProduct, *domain.RateProduct, error) {
	products, err := s.store.Products(obsDir)
	if err != nil {
		return nil, nil, err
	}

	var jumpPath string
	for _, p := range products {
		if strings.Contains(filepath.Base(p), "jump") {
			jumpPath = p
		}
	}
	if jumpPath == "" {
		return nil, nil, domain.ErrMissingJumpProduct
	}

	jump, err := s.store.LoadJumpProduct(jumpPath)
	if err != nil {
		return nil, nil, err
	}

	rateMarker := "0_ramp_fit"
	if jump.Header.NInts > 1 {
		rateMarker = "1_ramp_fit"
	}
	var ratePath string
	for _, p := range products {
		if strings.Contains(filepath.Base(p), rateMarker) {
			ratePath = p
		}
	}
	if ratePath == "" {
		return nil, nil, domain.ErrMissingRateProduct
	}

	rate, err := s.store.LoadRateProduct(ratePath)
	if err != nil {
		return nil, nil, err
	}
	return jump, rate, nil
}

// MostRecentSearch returns the ending MJD of the previous archive query for
// the aperture where the monitor was executed, falling back to the CV3
// epoch when the aperture has no history yet.
func (s *CosmicRayService) MostRecentSearch(ctx context.Context, instrument domain.Instrument, aperture string) (float64, error) {
	mjd, ok, err := s.history.MostRecentEnd(ctx, instrument, aperture)
	if err != nil {
		return 0, err
	}
	if !ok {
		log.WithFields(log.Fields{
			"instrument": instrument,
			"aperture":   aperture,
			"start_mjd":  domain.QueryEpochMJD,
		}).Info("no query history, using default search epoch")
		return domain.QueryEpochMJD, nil
	}
	return mjd, nil
}

// ListStats returns stored per-exposure results.
func (s *CosmicRayService) ListStats(ctx context.Context, filter ports.StatsFilter) ([]*domain.CosmicRayStats, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.stats.List(ctx, filter)
}

func (s *CosmicRayService) GetStats(ctx context.Context, id uuid.UUID) (*domain.CosmicRayStats, error) {
	return s.stats.GetByID(ctx, id)
}

// ListHistory returns the archive query history.
func (s *CosmicRayService) ListHistory(ctx context.Context, filter ports.HistoryFilter) ([]*domain.QueryHistory, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.history.List(ctx, filter)
}
