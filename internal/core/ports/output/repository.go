package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quicklook-service/internal/core/domain"
)

type StatsFilter struct {
	Instrument string
	Aperture   string
	After      *time.Time
	Before     *time.Time
	Limit      int
	Offset     int
}

type HistoryFilter struct {
	Instrument string
	Aperture   string
	Limit      int
	Offset     int
}

type JobFilter struct {
	Monitor    string
	Instrument string
	Status     string
	Limit      int
	Offset     int
}

type QueryHistoryRepository interface {
	Create(ctx context.Context, entry *domain.QueryHistory) error
	List(ctx context.Context, filter HistoryFilter) ([]*domain.QueryHistory, int, error)
	// MostRecentEnd returns the end time (MJD) of the latest query for the
	// instrument/aperture combination where the monitor actually ran.
	// ok is false when no such history exists.
	MostRecentEnd(ctx context.Context, instrument domain.Instrument, aperture string) (mjd float64, ok bool, err error)
}

type CosmicRayStatsRepository interface {
	Create(ctx context.Context, stats *domain.CosmicRayStats) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CosmicRayStats, error)
	List(ctx context.Context, filter StatsFilter) ([]*domain.CosmicRayStats, int, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *domain.MonitorJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MonitorJob, error)
	Update(ctx context.Context, job *domain.MonitorJob) error
	List(ctx context.Context, filter JobFilter) ([]*domain.MonitorJob, int, error)
}
