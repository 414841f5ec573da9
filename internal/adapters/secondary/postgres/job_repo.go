package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
)

type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) ports.JobRepository {
	return &jobRepo{pool: pool}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.MonitorJob) error {
	query := `
		INSERT INTO monitor_jobs
			(id, monitor, instrument, status, enqueued_at, started_at,
			 finished_at, error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.pool.Exec(ctx, query,
		job.ID, job.Monitor, string(job.Instrument), string(job.Status),
		job.EnqueuedAt, job.StartedAt, job.FinishedAt, job.Error,
	)
	if err != nil {
		return fmt.Errorf("create monitor job: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MonitorJob, error) {
	query := `
		SELECT id, monitor, instrument, status, enqueued_at, started_at,
			   finished_at, error
		FROM monitor_jobs
		WHERE id = $1
	`
	j, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("get monitor job by id: %w", err)
	}
	return j, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.MonitorJob) error {
	query := `
		UPDATE monitor_jobs
		SET status=$1, started_at=$2, finished_at=$3, error=$4
		WHERE id=$5
	`
	result, err := r.pool.Exec(ctx, query,
		string(job.Status), job.StartedAt, job.FinishedAt, job.Error, job.ID,
	)
	if err != nil {
		return fmt.Errorf("update monitor job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *jobRepo) List(ctx context.Context, filter ports.JobFilter) ([]*domain.MonitorJob, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Monitor != "" {
		conditions = append(conditions, fmt.Sprintf("monitor = $%d", argPos))
		args = append(args, filter.Monitor)
		argPos++
	}
	if filter.Instrument != "" {
		conditions = append(conditions, fmt.Sprintf("instrument = $%d", argPos))
		args = append(args, filter.Instrument)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM monitor_jobs WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count monitor jobs: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, monitor, instrument, status, enqueued_at, started_at,
			   finished_at, error
		FROM monitor_jobs
		WHERE %s
		ORDER BY enqueued_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list monitor jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.MonitorJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan monitor job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate monitor jobs: %w", err)
	}
	return jobs, total, nil
}

func scanJob(row pgx.Row) (*domain.MonitorJob, error) {
	var j domain.MonitorJob
	var instrument, status string
	if err := row.Scan(&j.ID, &j.Monitor, &instrument, &status,
		&j.EnqueuedAt, &j.StartedAt, &j.FinishedAt, &j.Error); err != nil {
		return nil, err
	}
	j.Instrument = domain.Instrument(instrument)
	j.Status = domain.JobStatus(status)
	return &j, nil
}
