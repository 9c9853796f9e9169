package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/freelance-marketplace/internal/auth"
	"github.com/spec-kit/freelance-marketplace/internal/domain"
	"github.com/spec-kit/freelance-marketplace/internal/events"
	"github.com/spec-kit/freelance-marketplace/internal/repository"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

// JobService implements the job lifecycle: open jobs posted by clients are
// hired exactly once by a freelancer, which moves them to in_progress.
type JobService struct {
	jobs       repository.JobRepository
	dispatcher events.Dispatcher
}

// JobDependencies bundles repositories for job service.
type JobDependencies struct {
	JobRepo    repository.JobRepository
	Dispatcher events.Dispatcher
}

// JobCreateInput describes job creation payload.
type JobCreateInput struct {
	Title       string
	Description string
	Budget      float64
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	return &JobService{jobs: deps.JobRepo, dispatcher: deps.Dispatcher}
}

// CreateJob posts a new open job owned by the calling client.
func (s *JobService) CreateJob(ctx context.Context, caller auth.Principal, input JobCreateInput) (*domain.Job, error) {
	if caller.Role != domain.RoleClient {
		return nil, apperrors.NewForbidden("only clients can post jobs")
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	details := map[string]any{}
	if title == "" {
		details["title"] = "required"
	}
	if description == "" {
		details["description"] = "required"
	}
	switch {
	case input.Budget <= 0 || math.IsNaN(input.Budget) || math.IsInf(input.Budget, 0):
		details["budget"] = "must be a positive number"
	case input.Budget > domain.MaxJobBudget:
		details["budget"] = fmt.Sprintf("must not exceed %.2f", domain.MaxJobBudget)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid job", details)
	}

	job := &domain.Job{
		ClientID:    caller.UserID,
		Title:       title,
		Description: description,
		Budget:      input.Budget,
		Status:      domain.JobStatusOpen,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// ListOpenJobs returns every open job with its client's name.
func (s *JobService) ListOpenJobs(ctx context.Context) ([]domain.JobListing, error) {
	jobs, err := s.jobs.ListOpen(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return jobs, nil
}

// GetJob fetches a single job.
func (s *JobService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if !validID(jobID) {
		return nil, apperrors.NewNotFound("job", map[string]any{"job_id": jobID})
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapLookupError(err, "job", jobID)
	}
	return job, nil
}

// Hire assigns the calling freelancer to an open job. Nonexistent and
// already-hired jobs are both reported as not found.
func (s *JobService) Hire(ctx context.Context, caller auth.Principal, jobID string) (*domain.Job, error) {
	if caller.Role != domain.RoleFreelancer {
		return nil, apperrors.NewForbidden("only freelancers can be hired")
	}
	if !validID(jobID) {
		return nil, apperrors.NewNotFound("open job", map[string]any{"job_id": jobID})
	}

	job, err := s.jobs.Hire(ctx, jobID, caller.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("open job", map[string]any{"job_id": jobID})
		}
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventJobHired,
		ActorID: caller.UserID,
		Payload: events.JobHiredPayload{
			JobID:        job.ID,
			ClientID:     job.ClientID,
			FreelancerID: caller.UserID,
			Title:        job.Title,
		},
	})
	return job, nil
}

// History lists the status transitions of a job to its participants.
func (s *JobService) History(ctx context.Context, caller auth.Principal, jobID string) ([]domain.JobHistory, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsParticipant(caller.UserID) {
		return nil, apperrors.NewForbidden("not a participant of this job")
	}
	history, err := s.jobs.ListHistory(ctx, job.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}
