package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the single direct thread between one user and one lawyer
type Conversation struct {
	BaseNoDelete
	UserID   uuid.UUID `db:"user_id"`
	LawyerID uuid.UUID `db:"lawyer_id"`
	Subject  string    `db:"subject"`
	IsActive bool      `db:"is_active"`
}

func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.UserID == userID || c.LawyerID == userID
}

type ConversationMessage struct {
	BaseSimple
	ConversationID uuid.UUID  `db:"conversation_id"`
	SenderID       uuid.UUID  `db:"sender_id"`
	Content        string     `db:"content"`
	IsRead         bool       `db:"is_read"`
	ReadAt         *time.Time `db:"read_at"`
}

// ConversationSummary is a conversation as seen in a participant's inbox
type ConversationSummary struct {
	Conversation
	LastMessage *ConversationMessage
	UnreadCount int
}
