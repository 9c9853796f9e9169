package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/freelance-marketplace/internal/auth"
	"github.com/spec-kit/freelance-marketplace/internal/domain"
	"github.com/spec-kit/freelance-marketplace/internal/events"
	"github.com/spec-kit/freelance-marketplace/internal/repository"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

// MaxMessageLength bounds the size of a single message in runes.
const MaxMessageLength = 5000

// MessageService manages the per-job conversation between its participants.
type MessageService struct {
	jobs       repository.JobRepository
	messages   repository.MessageRepository
	dispatcher events.Dispatcher
}

// MessageDependencies bundles repositories for message service.
type MessageDependencies struct {
	JobRepo     repository.JobRepository
	MessageRepo repository.MessageRepository
	Dispatcher  events.Dispatcher
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	return &MessageService{
		jobs:       deps.JobRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
	}
}

// SendMessage appends a message from the caller to the other participant.
func (s *MessageService) SendMessage(ctx context.Context, caller auth.Principal, jobID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, apperrors.NewValidationError("content too long", map[string]any{"max_length": MaxMessageLength})
	}

	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsParticipant(caller.UserID) {
		return nil, apperrors.NewForbidden("not a participant of this job")
	}
	receiverID, ok := job.Counterpart(caller.UserID)
	if !ok {
		return nil, apperrors.NewValidationError("job has no freelancer assigned yet", map[string]any{"job_id": job.ID})
	}

	msg := &domain.Message{
		JobID:      job.ID,
		SenderID:   caller.UserID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventMessageSent,
		ActorID: caller.UserID,
		Payload: events.MessageSentPayload{
			MessageID:   msg.ID,
			JobID:       msg.JobID,
			SenderID:    msg.SenderID,
			ReceiverID:  msg.ReceiverID,
			BodyPreview: stringPreview(msg.Content, 120),
		},
	})
	return msg, nil
}

// ListMessages returns the job's messages in chronological order.
func (s *MessageService) ListMessages(ctx context.Context, caller auth.Principal, jobID string) ([]domain.Message, error) {
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsParticipant(caller.UserID) {
		return nil, apperrors.NewForbidden("not a participant of this job")
	}
	msgs, err := s.messages.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return msgs, nil
}

func (s *MessageService) loadJob(ctx context.Context, jobID string) (*domain.Job, error) {
	if !validID(jobID) {
		return nil, apperrors.NewNotFound("job", map[string]any{"job_id": jobID})
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapLookupError(err, "job", jobID)
	}
	return job, nil
}
