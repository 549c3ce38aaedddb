package domain

import "time"

// Message is a direct message between two users
type Message struct {
	ID          int64
	SenderID    int64
	RecipientID int64
	Content     string
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// IsRead returns true if the recipient has read the message
func (m *Message) IsRead() bool {
	return m.ReadAt != nil
}
