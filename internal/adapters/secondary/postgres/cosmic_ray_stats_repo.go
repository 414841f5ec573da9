package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

type cosmicRayStatsRepo struct {
	pool *pgxpool.Pool
}

func NewCosmicRayStatsRepository(pool *pgxpool.Pool) ports.CosmicRayStatsRepository {
	return &cosmicRayStatsRepo{pool: pool}
}

func (r *cosmicRayStatsRepo) Create(ctx context.Context, stats *domain.CosmicRayStats) error {
	magnitudesJSON, err := json.Marshal(stats.Magnitudes)
	if err != nil {
		return fmt.Errorf("marshal magnitudes: %w", err)
	}

	query := `
		INSERT INTO cosmic_ray_stats
			(id, instrument, aperture, source_file, obs_start_time,
			 obs_end_time, jump_count, magnitudes, entry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err = r.pool.Exec(ctx, query,
		stats.ID, string(stats.Instrument), stats.Aperture, stats.SourceFile,
		stats.ObsStartTime, stats.ObsEndTime, stats.JumpCount,
		magnitudesJSON, stats.EntryDate,
	)
	if err != nil {
		return fmt.Errorf("create cosmic ray stats: %w", err)
	}
	return nil
}

func (r *cosmicRayStatsRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CosmicRayStats, error) {
	query := `
		SELECT id, instrument, aperture, source_file, obs_start_time,
			   obs_end_time, jump_count, magnitudes, entry_date
		FROM cosmic_ray_stats
		WHERE id = $1
	`
	s, err := scanStats(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, fmt.Errorf("get cosmic ray stats by id: %w", err)
	}
	return s, nil
}

func (r *cosmicRayStatsRepo) List(ctx context.Context, filter ports.StatsFilter) ([]*domain.CosmicRayStats, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Instrument != "" {
		conditions = append(conditions, fmt.Sprintf("instrument = $%d", argPos))
		args = append(args, filter.Instrument)
		argPos++
	}
	if filter.Aperture != "" {
		conditions = append(conditions, fmt.Sprintf("aperture = $%d", argPos))
		args = append(args, filter.Aperture)
		argPos++
	}
	if filter.After != nil {
		conditions = append(conditions, fmt.Sprintf("obs_start_time >= $%d", argPos))
		args = append(args, *filter.After)
		argPos++
	}
	if filter.Before != nil {
		conditions = append(conditions, fmt.Sprintf("obs_end_time <= $%d", argPos))
		args = append(args, *filter.Before)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM cosmic_ray_stats WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cosmic ray stats: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, instrument, aperture, source_file, obs_start_time,
			   obs_end_time, jump_count, magnitudes, entry_date
		FROM cosmic_ray_stats
		WHERE %s
		ORDER BY obs_start_time DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cosmic ray stats: %w", err)
	}
	defer rows.Close()

	var results []*domain.CosmicRayStats
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan cosmic ray stats: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate cosmic ray stats: %w", err)
	}
	return results, total, nil
}

func scanStats(row pgx.Row) (*domain.CosmicRayStats, error) {
	var s domain.CosmicRayStats
	var instrument string
	var magnitudesJSON []byte
	if err := row.Scan(&s.ID, &instrument, &s.Aperture, &s.SourceFile,
		&s.ObsStartTime, &s.ObsEndTime, &s.JumpCount, &magnitudesJSON, &s.EntryDate); err != nil {
		return nil, err
	}
	s.Instrument = domain.Instrument(instrument)
	if len(magnitudesJSON) > 0 {
		if err := json.Unmarshal(magnitudesJSON, &s.Magnitudes); err != nil {
			return nil, fmt.Errorf("unmarshal magnitudes: %w", err)
		}
	}
	return &s, nil
}
