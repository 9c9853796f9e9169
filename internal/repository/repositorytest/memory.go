// Package repositorytest provides in-memory repository implementations for
// tests. They mirror the semantics of the Postgres repositories, including
// unique emails and the conditional hire update.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/freelance-marketplace/internal/domain"
	"github.com/spec-kit/freelance-marketplace/internal/repository"
)

var (
	_ repository.UserRepository    = userRepo{}
	_ repository.JobRepository     = jobRepo{}
	_ repository.MessageRepository = messageRepo{}
)

// Store holds users, jobs and messages behind a single lock.
type Store struct {
	mu       sync.Mutex
	clock    func() time.Time
	users    map[string]domain.User
	jobs     map[string]domain.Job
	messages []domain.Message
	history  []domain.JobHistory
	seq      time.Duration
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		clock: time.Now,
		users: make(map[string]domain.User),
		jobs:  make(map[string]domain.Job),
	}
}

// Users exposes the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Jobs exposes the store as a JobRepository.
func (s *Store) Jobs() repository.JobRepository { return jobRepo{s} }

// Messages exposes the store as a MessageRepository.
func (s *Store) Messages() repository.MessageRepository { return messageRepo{s} }

// now returns strictly increasing timestamps so ordering is deterministic.
func (s *Store) now() time.Time {
	s.seq += time.Millisecond
	return s.clock().Add(s.seq)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r userRepo) UpdateProfile(_ context.Context, id string, bio, avatarURL *string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if bio != nil {
		v := *bio
		user.Bio = &v
	}
	if avatarURL != nil {
		v := *avatarURL
		user.AvatarURL = &v
	}
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return &user, nil
}

type jobRepo struct{ s *Store }

func (r jobRepo) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job.ID = uuid.NewString()
	job.CreatedAt = r.s.now()
	job.UpdatedAt = job.CreatedAt
	r.s.jobs[job.ID] = *job
	return nil
}

func (r jobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &job, nil
}

func (r jobRepo) ListOpen(_ context.Context) ([]domain.JobListing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.JobListing, 0)
	for _, job := range r.s.jobs {
		if job.Status != domain.JobStatusOpen {
			continue
		}
		result = append(result, domain.JobListing{Job: job, ClientName: r.s.users[job.ClientID].Name})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r jobRepo) Hire(_ context.Context, jobID, freelancerID string) (*domain.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[jobID]
	if !ok || job.Status != domain.JobStatusOpen || job.FreelancerID != nil {
		return nil, pgx.ErrNoRows
	}
	assigned := freelancerID
	job.FreelancerID = &assigned
	job.Status = domain.JobStatusInProgress
	job.UpdatedAt = r.s.now()
	r.s.jobs[jobID] = job
	r.s.history = append(r.s.history, domain.JobHistory{
		ID:        uuid.NewString(),
		JobID:     jobID,
		ChangedBy: freelancerID,
		OldStatus: domain.JobStatusOpen,
		NewStatus: domain.JobStatusInProgress,
		CreatedAt: job.UpdatedAt,
	})
	return &job, nil
}

func (r jobRepo) ListHistory(_ context.Context, jobID string) ([]domain.JobHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.JobHistory, 0)
	for _, entry := range r.s.history {
		if entry.JobID == jobID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type messageRepo struct{ s *Store }

func (r messageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg.ID = uuid.NewString()
	msg.CreatedAt = r.s.now()
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r messageRepo) ListByJob(_ context.Context, jobID string) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.Message, 0)
	for _, msg := range r.s.messages {
		if msg.JobID != jobID {
			continue
		}
		msg.SenderName = r.s.users[msg.SenderID].Name
		result = append(result, msg)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
