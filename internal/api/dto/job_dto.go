package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/freelance-marketplace/internal/domain"
)

// CreateJobRequest payload.
type CreateJobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
}

// Validate checks the job payload.
func (r CreateJobRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Required, validation.Length(1, 10000)),
		validation.Field(&r.Budget, validation.Required, validation.Min(0.01), validation.Max(domain.MaxJobBudget)),
	)
}

// JobResponse describes a job.
type JobResponse struct {
	ID           string           `json:"id"`
	ClientID     string           `json:"client_id"`
	ClientName   string           `json:"client_name,omitempty"`
	FreelancerID *string          `json:"freelancer_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Budget       float64          `json:"budget"`
	Status       domain.JobStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// NewJobResponse maps a job.
func NewJobResponse(job *domain.Job) JobResponse {
	return JobResponse{
		ID:           job.ID,
		ClientID:     job.ClientID,
		FreelancerID: job.FreelancerID,
		Title:        job.Title,
		Description:  job.Description,
		Budget:       job.Budget,
		Status:       job.Status,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
}

// NewJobListingResponses maps open job listings.
func NewJobListingResponses(listings []domain.JobListing) []JobResponse {
	items := make([]JobResponse, 0, len(listings))
	for i := range listings {
		item := NewJobResponse(&listings[i].Job)
		item.ClientName = listings[i].ClientName
		items = append(items, item)
	}
	return items
}

// JobHistoryResponse is a single status transition.
type JobHistoryResponse struct {
	ID        string           `json:"id"`
	ChangedBy string           `json:"changed_by"`
	OldStatus domain.JobStatus `json:"old_status"`
	NewStatus domain.JobStatus `json:"new_status"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewJobHistoryResponses maps history rows.
func NewJobHistoryResponses(history []domain.JobHistory) []JobHistoryResponse {
	items := make([]JobHistoryResponse, 0, len(history))
	for _, h := range history {
		items = append(items, JobHistoryResponse{
			ID:        h.ID,
			ChangedBy: h.ChangedBy,
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			CreatedAt: h.CreatedAt,
		})
	}
	return items
}
