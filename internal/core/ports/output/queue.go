package ports

import (
	"context"

	"quicklook-service/internal/core/domain"
)

// JobQueue is the broker between the API and the monitor workers.
type JobQueue interface {
	Enqueue(ctx context.Context, job *domain.MonitorJob) error
	// Dequeue blocks until a job is available or the context is done.
	Dequeue(ctx context.Context) (*domain.MonitorJob, error)
	HealthCheck(ctx context.Context) error
}
