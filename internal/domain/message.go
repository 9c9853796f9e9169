package domain

import "time"

// Message is a single entry in a job's conversation thread.
type Message struct {
	ID         string
	JobID      string
	SenderID   string
	ReceiverID string
	SenderName string
	Content    string
	CreatedAt  time.Time
}
