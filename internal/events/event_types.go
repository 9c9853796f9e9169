package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventJobHired       EventType = "job_hired"
	EventMessageSent    EventType = "message_sent"
)

// Event represents a domain event emitted by services after their write committed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// JobHiredPayload payload.
type JobHiredPayload struct {
	JobID        string `json:"job_id"`
	ClientID     string `json:"client_id"`
	FreelancerID string `json:"freelancer_id"`
	Title        string `json:"title"`
}

// MessageSentPayload payload.
type MessageSentPayload struct {
	MessageID   string `json:"message_id"`
	JobID       string `json:"job_id"`
	SenderID    string `json:"sender_id"`
	ReceiverID  string `json:"receiver_id"`
	BodyPreview string `json:"body_preview"`
}
