package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConversationService interface {
	List(ctx context.Context, userID uuid.UUID) ([]response.ConversationResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req *request.CreateConversationRequest) (*response.ConversationResponse, error)
	// Messages returns the thread and marks the counterpart's messages read
	Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]response.ConversationMessageResponse, error)
	Send(ctx context.Context, userID uuid.UUID, req *request.SendMessageRequest) (*response.ConversationMessageResponse, error)
}

type conversationService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewConversationService(repo *repository.Repository, log *zap.Logger) ConversationService {
	return &conversationService{
		repo: repo,
		log:  log.With(zap.String("service", "conversation")),
		now:  time.Now,
	}
}

func (s *conversationService) List(ctx context.Context, userID uuid.UUID) ([]response.ConversationResponse, error) {
	summaries, err := s.repo.Conversation.ListForParticipant(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list conversations", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(summaries)*2)
	for _, c := range summaries {
		ids = append(ids, c.UserID, c.LawyerID)
	}
	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	out := make([]response.ConversationResponse, len(summaries))
	for i, c := range summaries {
		out[i] = response.ConversationSummaryToResponse(c, users)
	}
	return out, nil
}

func (s *conversationService) Create(ctx context.Context, userID uuid.UUID, req *request.CreateConversationRequest) (*response.ConversationResponse, error) {
	lawyerID, err := uuid.Parse(req.LawyerID)
	if err != nil {
		return nil, invalid("invalid lawyer id")
	}
	if lawyerID == userID {
		return nil, invalid("you cannot start a conversation with yourself")
	}

	lawyer, err := s.repo.User.FindByID(ctx, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	if lawyer == nil || !lawyer.IsActive {
		return nil, notFound("lawyer")
	}
	if !lawyer.IsLawyer() {
		return nil, invalid("selected user is not a lawyer")
	}

	now := s.now()
	conv := &entity.Conversation{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		LawyerID:     lawyerID,
		Subject:      req.Subject,
		IsActive:     true,
	}
	if err := s.repo.Conversation.Create(ctx, conv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a conversation with this lawyer already exists")
		}
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	s.log.Info("Conversation created",
		zap.String("conversation_id", conv.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("lawyer_id", lawyerID.String()),
	)

	users := map[uuid.UUID]*entity.User{lawyerID: lawyer}
	if me, err := s.repo.User.FindByID(ctx, userID); err == nil && me != nil {
		users[userID] = me
	}
	resp := response.ConversationToResponse(conv, users)
	return &resp, nil
}

func (s *conversationService) participantOf(ctx context.Context, userID, conversationID uuid.UUID) (*entity.Conversation, error) {
	conv, err := s.repo.Conversation.FindByID(ctx, conversationID)
	if err != nil {
		s.log.Error("Failed to find conversation", zap.Error(err), zap.String("conversation_id", conversationID.String()))
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conv == nil {
		return nil, notFound("conversation")
	}
	if !conv.IsParticipant(userID) {
		return nil, forbidden("you are not a participant of this conversation")
	}
	return conv, nil
}

func (s *conversationService) Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]response.ConversationMessageResponse, error) {
	conv, err := s.participantOf(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Conversation.MarkRead(ctx, conv.ID, userID); err != nil {
		s.log.Warn("Failed to mark messages read", zap.Error(err), zap.String("conversation_id", conv.ID.String()))
	}

	msgs, err := s.repo.Conversation.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]response.ConversationMessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = response.ConversationMessageToResponse(m)
	}
	return out, nil
}

func (s *conversationService) Send(ctx context.Context, userID uuid.UUID, req *request.SendMessageRequest) (*response.ConversationMessageResponse, error) {
	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		return nil, invalid("invalid conversation id")
	}
	conv, err := s.participantOf(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsActive {
		return nil, forbidden("conversation is closed")
	}

	msg := &entity.ConversationMessage{
		BaseSimple:     entity.NewBaseSimple(s.now()),
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        req.Content,
	}
	if err := s.repo.Conversation.AddMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	s.log.Info("Conversation message sent",
		zap.String("conversation_id", conv.ID.String()),
		zap.String("sender_id", userID.String()),
	)

	resp := response.ConversationMessageToResponse(msg)
	return &resp, nil
}
