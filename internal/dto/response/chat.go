package response

import (
	"time"

	"legal-marketplace/internal/data/entity"

	"github.com/google/uuid"
)

type ChatSessionResponse struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ChatSessionToResponse(s *entity.ChatSession) ChatSessionResponse {
	return ChatSessionResponse{
		ID:        s.ID.String(),
		Title:     s.Title,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type ChatMessageResponse struct {
	ID          string             `json:"id"`
	SessionID   string             `json:"session_id"`
	MessageType entity.MessageType `json:"message_type"`
	Content     string             `json:"content"`
	Metadata    map[string]any     `json:"metadata,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func ChatMessageToResponse(m *entity.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ID:          m.ID.String(),
		SessionID:   m.SessionID.String(),
		MessageType: m.MessageType,
		Content:     m.Content,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
	}
}

type ChatSessionDetailResponse struct {
	ChatSessionResponse
	Messages []ChatMessageResponse `json:"messages"`
}

type AIChatResponse struct {
	SessionID       string              `json:"session_id"`
	UserMessage     ChatMessageResponse `json:"user_message"`
	AIMessage       ChatMessageResponse `json:"ai_message"`
	ResponseID      string              `json:"response_id"`
	Category        string              `json:"category"`
	ConfidenceScore float64             `json:"confidence_score"`
}

type ConversationMessageResponse struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       string     `json:"sender_id"`
	Content        string     `json:"content"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ConversationMessageToResponse(m *entity.ConversationMessage) ConversationMessageResponse {
	return ConversationMessageResponse{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		Content:        m.Content,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

type ConversationResponse struct {
	ID          string                       `json:"id"`
	User        *PublicUser                  `json:"user,omitempty"`
	Lawyer      *PublicUser                  `json:"lawyer,omitempty"`
	Subject     string                       `json:"subject"`
	IsActive    bool                         `json:"is_active"`
	LastMessage *ConversationMessageResponse `json:"last_message"`
	UnreadCount int                          `json:"unread_count"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

func ConversationToResponse(c *entity.Conversation, users map[uuid.UUID]*entity.User) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID.String(),
		User:      ToPublicUser(users[c.UserID]),
		Lawyer:    ToPublicUser(users[c.LawyerID]),
		Subject:   c.Subject,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ConversationSummaryToResponse(s *entity.ConversationSummary, users map[uuid.UUID]*entity.User) ConversationResponse {
	resp := ConversationToResponse(&s.Conversation, users)
	resp.UnreadCount = s.UnreadCount
	if s.LastMessage != nil {
		last := ConversationMessageToResponse(s.LastMessage)
		resp.LastMessage = &last
	}
	return resp
}
