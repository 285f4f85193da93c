package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/pkg/llm"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	assistantSystemPrompt = "You are a helpful AI legal assistant specializing in Indian law."
	assistantPrompt       = `You are NyayaBot, an AI legal assistant for Indian law. Provide helpful, accurate legal information while clearly stating that you're not a substitute for professional legal advice.

User Question: %s

Please provide:
1. A clear, helpful response about the legal topic
2. Relevant Indian laws or sections if applicable
3. General guidance on next steps
4. A reminder to consult with a qualified lawyer for specific legal advice

Keep the response informative but accessible to non-lawyers.`

	fallbackReply = "I apologize, but I'm experiencing technical difficulties. Please try again later or contact a legal professional for immediate assistance."

	sessionTitleLength = 50
	answerConfidence   = 0.8
	categoryError      = "error"
	categoryGeneral    = "general"
)

// legalCategories is checked in order; the first keyword hit wins
var legalCategories = []struct {
	name     string
	keywords []string
}{
	{"family", []string{"divorce", "marriage", "custody", "alimony", "domestic"}},
	{"criminal", []string{"crime", "police", "fir", "arrest", "bail", "court"}},
	{"property", []string{"property", "land", "rent", "lease", "tenant", "landlord"}},
	{"consumer", []string{"consumer", "product", "service", "refund", "complaint"}},
	{"cyber", []string{"cyber", "online", "fraud", "digital", "internet"}},
	{"labour", []string{"job", "employment", "salary", "work", "employee"}},
	{"civil", []string{"civil", "contract", "agreement", "dispute"}},
}

func categorize(message string) string {
	lower := strings.ToLower(message)
	for _, c := range legalCategories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return categoryGeneral
}

type ChatService interface {
	ListSessions(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ChatSessionResponse], error)
	CreateSession(ctx context.Context, userID uuid.UUID, req *request.CreateChatSessionRequest) (*response.ChatSessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*response.ChatSessionDetailResponse, error)
	UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req *request.UpdateChatSessionRequest) (*response.ChatSessionResponse, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
	ListMessages(ctx context.Context, userID, sessionID uuid.UUID) ([]response.ChatMessageResponse, error)

	// Ask stores the question, asks the model and records the answer
	Ask(ctx context.Context, userID uuid.UUID, req *request.AIChatRequest) (*response.AIChatResponse, error)
	RateResponse(ctx context.Context, userID, responseID uuid.UUID, req *request.AIFeedbackRequest) error
}

type chatService struct {
	repo *repository.Repository
	llm  llm.Completer
	opts llm.Options
	log  *zap.Logger
	now  func() time.Time
}

func NewChatService(repo *repository.Repository, completer llm.Completer, cfg utils.AIConfig, log *zap.Logger) ChatService {
	return &chatService{
		repo: repo,
		llm:  completer,
		opts: llm.Options{MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature},
		log:  log.With(zap.String("service", "chat")),
		now:  time.Now,
	}
}

func (s *chatService) ListSessions(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ChatSessionResponse], error) {
	sessions, total, err := s.repo.ChatSession.ListByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list chat sessions", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}

	data := make([]response.ChatSessionResponse, len(sessions))
	for i, cs := range sessions {
		data[i] = response.ChatSessionToResponse(cs)
	}
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *chatService) newSession(ctx context.Context, userID uuid.UUID, title *string) (*entity.ChatSession, error) {
	now := s.now()
	cs := &entity.ChatSession{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		Title:        title,
		IsActive:     true,
	}
	if err := s.repo.ChatSession.Create(ctx, cs); err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return cs, nil
}

func (s *chatService) CreateSession(ctx context.Context, userID uuid.UUID, req *request.CreateChatSessionRequest) (*response.ChatSessionResponse, error) {
	cs, err := s.newSession(ctx, userID, req.Title)
	if err != nil {
		return nil, err
	}

	s.log.Info("Chat session created", zap.String("session_id", cs.ID.String()), zap.String("user_id", userID.String()))

	resp := response.ChatSessionToResponse(cs)
	return &resp, nil
}

// own returns the session when it belongs to userID; other users' sessions read as missing
func (s *chatService) own(ctx context.Context, userID, sessionID uuid.UUID) (*entity.ChatSession, error) {
	cs, err := s.repo.ChatSession.FindByID(ctx, sessionID)
	if err != nil {
		s.log.Error("Failed to find chat session", zap.Error(err), zap.String("session_id", sessionID.String()))
		return nil, fmt.Errorf("find chat session: %w", err)
	}
	if cs == nil || cs.UserID != userID {
		return nil, notFound("chat session")
	}
	return cs, nil
}

func (s *chatService) messages(ctx context.Context, sessionID uuid.UUID) ([]response.ChatMessageResponse, error) {
	msgs, err := s.repo.ChatMessage.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	out := make([]response.ChatMessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = response.ChatMessageToResponse(m)
	}
	return out, nil
}

func (s *chatService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*response.ChatSessionDetailResponse, error) {
	cs, err := s.own(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages(ctx, cs.ID)
	if err != nil {
		return nil, err
	}

	return &response.ChatSessionDetailResponse{
		ChatSessionResponse: response.ChatSessionToResponse(cs),
		Messages:            msgs,
	}, nil
}

func (s *chatService) UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req *request.UpdateChatSessionRequest) (*response.ChatSessionResponse, error) {
	cs, err := s.own(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		cs.Title = req.Title
	}
	if req.IsActive != nil {
		cs.IsActive = *req.IsActive
	}
	cs.Touch(s.now())

	if err := s.repo.ChatSession.Update(ctx, cs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("chat session")
		}
		return nil, fmt.Errorf("update chat session: %w", err)
	}

	resp := response.ChatSessionToResponse(cs)
	return &resp, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := s.own(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.repo.ChatSession.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("chat session")
		}
		return fmt.Errorf("delete chat session: %w", err)
	}

	s.log.Info("Chat session deleted", zap.String("session_id", sessionID.String()))
	return nil
}

func (s *chatService) ListMessages(ctx context.Context, userID, sessionID uuid.UUID) ([]response.ChatMessageResponse, error) {
	if _, err := s.own(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.messages(ctx, sessionID)
}

type answer struct {
	content    string
	confidence float64
	category   string
	metadata   map[string]any
}

// answer asks the model; failures turn into the canned apology instead of an error
func (s *chatService) answer(ctx context.Context, message string) answer {
	completion, err := s.llm.Complete(ctx, assistantSystemPrompt, fmt.Sprintf(assistantPrompt, message), s.opts)
	if err != nil {
		s.log.Warn("AI answer failed, using fallback", zap.Error(err))
		return answer{
			content:    fallbackReply,
			confidence: 0,
			category:   categoryError,
			metadata:   map[string]any{"error": err.Error()},
		}
	}

	return answer{
		content:    completion.Text,
		confidence: answerConfidence,
		category:   categorize(message),
		metadata: map[string]any{
			"model":       completion.Model,
			"tokens_used": completion.TokensUsed,
		},
	}
}

func (s *chatService) Ask(ctx context.Context, userID uuid.UUID, req *request.AIChatRequest) (*response.AIChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, newError(ErrValidation, "message is required")
	}

	var cs *entity.ChatSession
	var err error
	if req.SessionID != nil {
		sessionID, perr := uuid.Parse(*req.SessionID)
		if perr != nil {
			return nil, invalid("invalid session_id")
		}
		if cs, err = s.own(ctx, userID, sessionID); err != nil {
			return nil, err
		}
	} else {
		title := utils.Truncate(message, sessionTitleLength, "...")
		if cs, err = s.newSession(ctx, userID, &title); err != nil {
			return nil, err
		}
	}

	userMsg := &entity.ChatMessage{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
		SessionID:   cs.ID,
		MessageType: entity.MessageUser,
		Content:     message,
	}
	if err := s.repo.ChatMessage.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	started := s.now()
	ans := s.answer(ctx, message)
	elapsed := s.now().Sub(started).Seconds()

	aiMsg := &entity.ChatMessage{
		BaseSimple:  entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
		SessionID:   cs.ID,
		MessageType: entity.MessageAI,
		Content:     ans.content,
		Metadata:    ans.metadata,
	}
	if err := s.repo.ChatMessage.Create(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("store ai message: %w", err)
	}

	confidence, category := ans.confidence, ans.category
	record := &entity.AIResponse{
		BaseSimple:      entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
		UserID:          userID,
		Query:           message,
		Response:        ans.content,
		ResponseTime:    elapsed,
		ConfidenceScore: &confidence,
		Category:        &category,
	}
	if err := s.repo.AIResponse.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store ai response: %w", err)
	}

	if err := s.repo.ChatSession.Touch(ctx, cs.ID); err != nil {
		s.log.Warn("Failed to touch chat session", zap.Error(err), zap.String("session_id", cs.ID.String()))
	}

	s.log.Info("AI question answered",
		zap.String("session_id", cs.ID.String()),
		zap.String("category", category),
		zap.Float64("response_time", elapsed),
	)

	return &response.AIChatResponse{
		SessionID:       cs.ID.String(),
		UserMessage:     response.ChatMessageToResponse(userMsg),
		AIMessage:       response.ChatMessageToResponse(aiMsg),
		ResponseID:      record.ID.String(),
		Category:        category,
		ConfidenceScore: confidence,
	}, nil
}

func (s *chatService) RateResponse(ctx context.Context, userID, responseID uuid.UUID, req *request.AIFeedbackRequest) error {
	record, err := s.repo.AIResponse.FindByID(ctx, responseID)
	if err != nil {
		return fmt.Errorf("find ai response: %w", err)
	}
	if record == nil || record.UserID != userID {
		return notFound("ai response")
	}

	if err := s.repo.AIResponse.SetFeedback(ctx, responseID, req.Rating); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("ai response")
		}
		return fmt.Errorf("save ai feedback: %w", err)
	}

	s.log.Info("AI response rated", zap.String("response_id", responseID.String()), zap.Int("rating", req.Rating))
	return nil
}
