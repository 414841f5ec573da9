package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
	"quicklook-service/internal/metrics"
)

// JobService enqueues monitor runs and executes them on the worker side,
// keeping job status in the database while the queue carries the payload.
type JobService struct {
	jobs      ports.JobRepository
	queue     ports.JobQueue
	cosmicRay *CosmicRayService
}

func NewJobService(jobs ports.JobRepository, queue ports.JobQueue, cosmicRay *CosmicRayService) *JobService {
	return &JobService{jobs: jobs, queue: queue, cosmicRay: cosmicRay}
}

// Enqueue validates and queues a monitor run.
func (s *JobService) Enqueue(ctx context.Context, monitor string, instrument string) (*domain.MonitorJob, error) {
	if monitor != domain.MonitorCosmicRay {
		return nil, domain.ErrUnknownMonitor
	}

	ins, err := domain.ParseInstrument(instrument)
	if err != nil {
		return nil, err
	}
	if _, ok := domain.Apertures[ins]; !ok {
		return nil, domain.ErrMonitorNotSupported
	}

	job := &domain.MonitorJob{
		ID:         uuid.New(),
		Monitor:    monitor,
		Instrument: ins,
		Status:     domain.JobStatusQueued,
		EnqueuedAt: time.Now().UTC(),
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return nil, err
	}

	metrics.JobEnqueued(monitor)
	log.WithFields(log.Fields{
		"job_id":     job.ID,
		"monitor":    monitor,
		"instrument": ins,
	}).Info("monitor job enqueued")
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*domain.MonitorJob, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *JobService) List(ctx context.Context, filter ports.JobFilter) ([]*domain.MonitorJob, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.jobs.List(ctx, filter)
}

// Execute runs a dequeued job and records its outcome.
func (s *JobService) Execute(ctx context.Context, job *domain.MonitorJob) error {
	now := time.Now().UTC()
	job.Status = domain.JobStatusRunning
	job.StartedAt = &now
	if err := s.jobs.Update(ctx, job); err != nil {
		return err
	}

	var runErr error
	switch job.Monitor {
	case domain.MonitorCosmicRay:
		runErr = s.cosmicRay.Run(ctx, job.Instrument)
	default:
		runErr = domain.ErrUnknownMonitor
	}

	finished := time.Now().UTC()
	job.FinishedAt = &finished
	if runErr != nil {
		job.Status = domain.JobStatusFailed
		job.Error = runErr.Error()
	} else {
		job.Status = domain.JobStatusSucceeded
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return err
	}

	metrics.JobProcessed(job.Monitor, runErr)
	return runErr
}
