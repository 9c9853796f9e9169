package domain

import "time"

// JobStatus enumerates lifecycle states for jobs.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
)

// MaxJobBudget is the largest budget the NUMERIC(12,2) column can hold.
const MaxJobBudget = 9999999999.99

// Job is the aggregate for posted work.
type Job struct {
	ID           string
	ClientID     string
	FreelancerID *string
	Title        string
	Description  string
	Budget       float64
	Status       JobStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobListing is a job joined with its client's display name.
type JobListing struct {
	Job
	ClientName string
}

// IsParticipant reports whether userID is the client or the assigned freelancer.
func (j *Job) IsParticipant(userID string) bool {
	if j.ClientID == userID {
		return true
	}
	return j.FreelancerID != nil && *j.FreelancerID == userID
}

// Counterpart returns the participant on the other side of userID.
// The second value is false when no freelancer is assigned yet.
func (j *Job) Counterpart(userID string) (string, bool) {
	if j.FreelancerID == nil {
		return "", false
	}
	if userID == j.ClientID {
		return *j.FreelancerID, true
	}
	return j.ClientID, true
}
