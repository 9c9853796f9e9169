package domain

import "time"

// JobHistory records a status transition of a job.
type JobHistory struct {
	ID        string
	JobID     string
	ChangedBy string
	OldStatus JobStatus
	NewStatus JobStatus
	CreatedAt time.Time
}
