package worker

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"quicklook-service/internal/core/domain"
	ports "quicklook-service/internal/core/ports/output"
	"quicklook-service/internal/core/services"
)

// dequeueBackoff spaces out retries when the queue itself is failing, so a
// broker outage does not spin the loop.
var dequeueBackoff = 2 * time.Second

// Worker consumes monitor jobs from the queue and executes them one at a
// time. Per-aperture concurrency happens inside the monitor itself.
type Worker struct {
	queue  ports.JobQueue
	jobSvc *services.JobService
}

func New(queue ports.JobQueue, jobSvc *services.JobService) *Worker {
	return &Worker{queue: queue, jobSvc: jobSvc}
}

// Run blocks until the context is cancelled. Job failures are recorded on
// the job row and do not stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	log.Info("monitor worker started")

	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("monitor worker stopping")
				return nil
			}
			log.WithError(err).Error("dequeue failed")
			select {
			case <-ctx.Done():
				log.Info("monitor worker stopping")
				return nil
			case <-time.After(dequeueBackoff):
			}
			continue
		}

		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *domain.MonitorJob) {
	logger := log.WithFields(log.Fields{
		"job_id":     job.ID,
		"monitor":    job.Monitor,
		"instrument": job.Instrument,
	})
	logger.Info("processing monitor job")

	if err := w.jobSvc.Execute(ctx, job); err != nil {
		logger.WithError(err).Error("monitor job failed")
		return
	}
	logger.Info("monitor job completed")
}
