package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Monitor names accepted by the job queue.
const (
	MonitorCosmicRay = "cosmic_ray"
)

// MonitorJob is one queued execution of a monitor for an instrument.
type MonitorJob struct {
	ID         uuid.UUID  `json:"id"`
	Monitor    string     `json:"monitor"`
	Instrument Instrument `json:"instrument"`
	Status     JobStatus  `json:"status"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}
