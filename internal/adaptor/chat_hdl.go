package adaptor

import (
	"net/http"

	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type ChatHandler struct {
	chat          usecase.ChatService
	conversations usecase.ConversationService
	log           *zap.Logger
}

func NewChatHandler(chat usecase.ChatService, conversations usecase.ConversationService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:          chat,
		conversations: conversations,
		log:           log.With(zap.String("handler", "chat")),
	}
}

// ListSessions handles GET /api/chat/sessions
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	page := pagination(r)
	sessions, err := h.chat.ListSessions(r.Context(), userID, &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list chat sessions")
		return
	}

	utils.ResponseSuccess(w, "Chat sessions retrieved successfully", sessions)
}

// CreateSession handles POST /api/chat/sessions
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.CreateChatSessionRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.chat.CreateSession(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create chat session")
		return
	}

	utils.ResponseCreated(w, "Chat session created", session)
}

// GetSession handles GET /api/chat/sessions/{id}
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	session, err := h.chat.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(w, h.log, err, "get chat session")
		return
	}

	utils.ResponseSuccess(w, "Chat session retrieved successfully", session)
}

// UpdateSession handles PUT /api/chat/sessions/{id}
func (h *ChatHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateChatSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.chat.UpdateSession(r.Context(), userID, sessionID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update chat session")
		return
	}

	utils.ResponseSuccess(w, "Chat session updated", session)
}

// DeleteSession handles DELETE /api/chat/sessions/{id}
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.chat.DeleteSession(r.Context(), userID, sessionID); err != nil {
		handleServiceError(w, h.log, err, "delete chat session")
		return
	}

	utils.ResponseSuccess(w, "Chat session deleted", nil)
}

// ListMessages handles GET /api/chat/sessions/{id}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.chat.ListMessages(r.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(w, h.log, err, "list chat messages")
		return
	}

	utils.ResponseSuccess(w, "Messages retrieved successfully", messages)
}

// Ask handles POST /api/chat/ai
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.AIChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.chat.Ask(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "ask assistant")
		return
	}

	utils.ResponseSuccess(w, "Response generated", reply)
}

// RateResponse handles POST /api/chat/ai/responses/{id}/feedback
func (h *ChatHandler) RateResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	responseID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.AIFeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.chat.RateResponse(r.Context(), userID, responseID, &req); err != nil {
		handleServiceError(w, h.log, err, "rate AI response")
		return
	}

	utils.ResponseSuccess(w, "Feedback recorded", nil)
}

// ListConversations handles GET /api/chat/conversations
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	conversations, err := h.conversations.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list conversations")
		return
	}

	utils.ResponseSuccess(w, "Conversations retrieved successfully", conversations)
}

// CreateConversation handles POST /api/chat/conversations/create
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.CreateConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	conversation, err := h.conversations.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create conversation")
		return
	}

	utils.ResponseCreated(w, "Conversation created", conversation)
}

// ConversationMessages handles GET /api/chat/conversations/{id}/messages
func (h *ChatHandler) ConversationMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	conversationID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	messages, err := h.conversations.Messages(r.Context(), userID, conversationID)
	if err != nil {
		handleServiceError(w, h.log, err, "list conversation messages")
		return
	}

	utils.ResponseSuccess(w, "Messages retrieved successfully", messages)
}

// SendMessage handles POST /api/chat/conversations/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	message, err := h.conversations.Send(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send message")
		return
	}

	utils.ResponseCreated(w, "Message sent", message)
}
