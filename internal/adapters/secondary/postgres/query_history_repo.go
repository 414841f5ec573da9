package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

type queryHistoryRepo struct {
	pool *pgxpool.Pool
}

func NewQueryHistoryRepository(pool *pgxpool.Pool) ports.QueryHistoryRepository {
	return &queryHistoryRepo{pool: pool}
}

func (r *queryHistoryRepo) Create(ctx context.Context, entry *domain.QueryHistory) error {
	query := `
		INSERT INTO cosmic_ray_query_history
			(id, instrument, aperture, start_time_mjd, end_time_mjd,
			 files_found, run_monitor, entry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID, string(entry.Instrument), entry.Aperture,
		entry.StartTimeMJD, entry.EndTimeMJD,
		entry.FilesFound, entry.RunMonitor, entry.EntryDate,
	)
	if err != nil {
		return fmt.Errorf("create query history: %w", err)
	}
	return nil
}

func (r *queryHistoryRepo) MostRecentEnd(ctx context.Context, instrument domain.Instrument, aperture string) (float64, bool, error) {
	query := `
		SELECT end_time_mjd
		FROM cosmic_ray_query_history
		WHERE instrument = $1 AND aperture = $2 AND run_monitor = TRUE
		ORDER BY end_time_mjd DESC
		LIMIT 1
	`
	var mjd float64
	err := r.pool.QueryRow(ctx, query, string(instrument), aperture).Scan(&mjd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("most recent query end: %w", err)
	}
	return mjd, true, nil
}

func (r *queryHistoryRepo) List(ctx context.Context, filter ports.HistoryFilter) ([]*domain.QueryHistory, int, error) {
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

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM cosmic_ray_query_history WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query history: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, instrument, aperture, start_time_mjd, end_time_mjd,
			   files_found, run_monitor, entry_date
		FROM cosmic_ray_query_history
		WHERE %s
		ORDER BY entry_date DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list query history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.QueryHistory
	for rows.Next() {
		var e domain.QueryHistory
		var instrument string
		if err := rows.Scan(&e.ID, &instrument, &e.Aperture, &e.StartTimeMJD,
			&e.EndTimeMJD, &e.FilesFound, &e.RunMonitor, &e.EntryDate); err != nil {
			return nil, 0, fmt.Errorf("scan query history: %w", err)
		}
		e.Instrument = domain.Instrument(instrument)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate query history: %w", err)
	}
	return entries, total, nil
}
