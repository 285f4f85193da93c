package entity

import (
	"github.com/google/uuid"
)

type ChatSession struct {
	BaseNoDelete
	UserID   uuid.UUID `db:"user_id"`
	Title    *string   `db:"title"`
	IsActive bool      `db:"is_active"`
}

type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageAI     MessageType = "ai"
	MessageSystem MessageType = "system"
)

type ChatMessage struct {
	BaseSimple
	SessionID   uuid.UUID      `db:"session_id"`
	MessageType MessageType    `db:"message_type"`
	Content     string         `db:"content"`
	Metadata    map[string]any `db:"metadata"`
}

// AIResponse is the analytics row kept for every AI answer
type AIResponse struct {
	BaseSimple
	UserID          uuid.UUID `db:"user_id"`
	Query           string    `db:"query"`
	Response        string    `db:"response"`
	ResponseTime    float64   `db:"response_time"`
	ConfidenceScore *float64  `db:"confidence_score"`
	FeedbackRating  *int      `db:"feedback_rating"`
	Category        *string   `db:"category"`
}
