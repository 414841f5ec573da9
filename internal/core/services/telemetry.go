package services

import (
	"context"
	"strings"
	"time"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

// DefaultSigma is the clipping threshold for derived statistics.
const DefaultSigma = 3.0

type StatsMode string

const (
	StatsModeFull  StatsMode = "full"
	StatsModeBlock StatsMode = "block"
	StatsModeDaily StatsMode = "daily"
	StatsModeTimed StatsMode = "timed"
)

// TelemetryService retrieves and manipulates mnemonics from the DMS
// engineering database.
type TelemetryService struct {
	edb ports.EDBClient
}

func NewTelemetryService(edb ports.EDBClient) *TelemetryService {
	return &TelemetryService{edb: edb}
}

// GetMnemonic queries the engineering database for one mnemonic over a time
// window and returns a series with full-range statistics attached.
//
// Change-only mnemonics are queried with bracketing values outside the
// window; bounding samples are synthesized at the window edges and stepped
// points are added so later filtering and interpolation behave like
// all-points data.
func (s *TelemetryService) GetMnemonic(ctx context.Context, identifier string, start, end time.Time) (*domain.MnemonicSeries, error) {
	if identifier == "" || !end.After(start) {
		return nil, domain.ErrInvalidTimeRange
	}

	meta, err := s.edb.Meta(ctx, identifier)
	if err != nil {
		return nil, err
	}

	bracket := !meta.AllPoints
	samples, err := s.edb.Values(ctx, identifier, start, end, bracket)
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, len(samples))
	values := make([]float64, len(samples))
	for i, sample := range samples {
		times[i] = sample.Time
		values[i] = sample.Value
	}

	if bracket {
		times, values = domain.BoundChangeOnly(times, values, start, end)
	}

	info, err := s.edb.Info(ctx, identifier)
	if err != nil {
		return nil, err
	}

	series := &domain.MnemonicSeries{
		Identifier:     identifier,
		RequestedStart: start,
		RequestedEnd:   end,
		Times:          times,
		Values:         values,
		Meta:           meta,
		Info:           info,
	}

	if series.Len() > 0 {
		series.FullStats(DefaultSigma)
	}

	if bracket && series.Len() > 0 {
		series.ChangeOnlyAddPoints()
	}

	return series, nil
}

// GetMnemonics queries a list of mnemonics over the same interval.
func (s *TelemetryService) GetMnemonics(ctx context.Context, identifiers []string, start, end time.Time) (map[string]*domain.MnemonicSeries, error) {
	result := make(map[string]*domain.MnemonicSeries, len(identifiers))
	for _, id := range identifiers {
		series, err := s.GetMnemonic(ctx, id, start, end)
		if err != nil {
			return nil, err
		}
		result[id] = series
	}
	return result, nil
}

// WithStats recomputes the series statistics in the requested mode.
func (s *TelemetryService) WithStats(series *domain.MnemonicSeries, mode StatsMode, bin time.Duration) error {
	switch mode {
	case "", StatsModeFull:
		series.FullStats(DefaultSigma)
	case StatsModeBlock:
		series.BlockStats(DefaultSigma)
	case StatsModeDaily:
		series.DailyStats(DefaultSigma)
	case StatsModeTimed:
		if bin <= 0 {
			return domain.ErrInvalidStatsMode
		}
		series.TimedStats(bin, DefaultSigma)
	default:
		return domain.ErrInvalidStatsMode
	}
	return nil
}

// Info returns the dictionary entry for a mnemonic.
func (s *TelemetryService) Info(ctx context.Context, identifier string) (domain.MnemonicInfo, error) {
	return s.edb.Info(ctx, identifier)
}

// Inventory lists mnemonics known to the engineering database, optionally
// filtered by a case-insensitive substring of the identifier or
// description.
func (s *TelemetryService) Inventory(ctx context.Context, search string) ([]ports.InventoryMnemonic, error) {
	inventory, err := s.edb.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return inventory, nil
	}

	needle := strings.ToLower(search)
	var matched []ports.InventoryMnemonic
	for _, m := range inventory {
		if strings.Contains(strings.ToLower(m.Mnemonic), needle) ||
			strings.Contains(strings.ToLower(m.Description), needle) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// IsValidMnemonic reports whether the identifier exists in the inventory.
func (s *TelemetryService) IsValidMnemonic(ctx context.Context, identifier string) (bool, error) {
	inventory, err := s.edb.Inventory(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range inventory {
		if m.Mnemonic == identifier {
			return true, nil
		}
	}
	return false, nil
}
