package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/freelance-marketplace/internal/domain"
)

// SendMessageRequest payload.
type SendMessageRequest struct {
	JobID   string `json:"job_id"`
	Content string `json:"content"`
}

// Validate checks the message payload. The length limit is counted in runes
// by the message service, so only presence is checked here.
func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.JobID, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

// MessageResponse represents a thread message.
type MessageResponse struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewMessageResponse maps a message.
func NewMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:         msg.ID,
		JobID:      msg.JobID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
}
