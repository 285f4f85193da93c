package request

type CreateChatSessionRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,max=200"`
}

type UpdateChatSessionRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AIChatRequest struct {
	Message   string  `json:"message" validate:"required,max=4000"`
	SessionID *string `json:"session_id,omitempty" validate:"omitempty,uuid"`
}

type AIFeedbackRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type CreateConversationRequest struct {
	LawyerID string `json:"lawyer_id" validate:"required,uuid"`
	Subject  string `json:"subject" validate:"required,max=200"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required,uuid"`
	Content        string `json:"content" validate:"required,max=5000"`
}
