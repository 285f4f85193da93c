package repository

import (
	"context"
	"fmt"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ChatSession, int64, error)
	Update(ctx context.Context, session *entity.ChatSession) error
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChatMessageRepository interface {
	Create(ctx context.Context, msg *entity.ChatMessage) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.ChatMessage, error)
}

type AIResponseRepository interface {
	Create(ctx context.Context, resp *entity.AIResponse) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AIResponse, error)
	SetFeedback(ctx context.Context, id uuid.UUID, rating int) error
}

type chatSessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewChatSessionRepository(db database.PgxIface, log *zap.Logger) ChatSessionRepository {
	return &chatSessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "chat_session")),
	}
}

func (r *chatSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (id, user_id, title, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.IsActive,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create chat session", zap.Error(err), zap.String("user_id", session.UserID.String()))
		return fmt.Errorf("create chat session: %w", err)
	}
	return nil
}

func (r *chatSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	query := `SELECT id, user_id, title, is_active, created_at, updated_at FROM chat_sessions WHERE id = $1`

	var session entity.ChatSession
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.IsActive,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find chat session", zap.Error(err), zap.String("session_id", id.String()))
		return nil, fmt.Errorf("find chat session %s: %w", id.String(), err)
	}
	return &session, nil
}

func (r *chatSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ChatSession, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chat_sessions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count chat sessions", zap.Error(err))
		return nil, 0, fmt.Errorf("count chat sessions: %w", err)
	}

	query := `
		SELECT id, user_id, title, is_active, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list chat sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, 0, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*entity.ChatSession
	for rows.Next() {
		var session entity.ChatSession
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Title,
			&session.IsActive,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan chat session row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan chat session row: %w", err)
		}
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, 0, fmt.Errorf("iterate chat session rows: %w", err)
	}
	return sessions, total, nil
}

func (r *chatSessionRepository) Update(ctx context.Context, session *entity.ChatSession) error {
	query := `UPDATE chat_sessions SET title = $2, is_active = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, session.ID, session.Title, session.IsActive, session.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update chat session", zap.Error(err), zap.String("session_id", session.ID.String()))
		return fmt.Errorf("update chat session %s: %w", session.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update chat session %s: %w", session.ID.String(), ErrNotFound)
	}
	return nil
}

func (r *chatSessionRepository) Touch(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to touch chat session", zap.Error(err), zap.String("session_id", id.String()))
		return fmt.Errorf("touch chat session %s: %w", id.String(), err)
	}
	return nil
}

func (r *chatSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete chat session", zap.Error(err), zap.String("session_id", id.String()))
		return fmt.Errorf("delete chat session %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete chat session %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Chat session deleted", zap.String("session_id", id.String()))
	return nil
}

type chatMessageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewChatMessageRepository(db database.PgxIface, log *zap.Logger) ChatMessageRepository {
	return &chatMessageRepository{
		db:  db,
		log: log.With(zap.String("repository", "chat_message")),
	}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *entity.ChatMessage) error {
	if msg.Metadata == nil {
		msg.Metadata = map[string]any{}
	}

	query := `
		INSERT INTO chat_messages (id, session_id, message_type, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.SessionID,
		msg.MessageType,
		msg.Content,
		msg.Metadata,
		msg.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create chat message", zap.Error(err), zap.String("session_id", msg.SessionID.String()))
		return fmt.Errorf("create chat message: %w", err)
	}
	return nil
}

func (r *chatMessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, session_id, message_type, content, metadata, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		r.log.Error("Failed to list chat messages", zap.Error(err), zap.String("session_id", sessionID.String()))
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []*entity.ChatMessage
	for rows.Next() {
		var msg entity.ChatMessage
		err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.MessageType,
			&msg.Content,
			&msg.Metadata,
			&msg.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan chat message row", zap.Error(err))
			return nil, fmt.Errorf("scan chat message row: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate chat message rows: %w", err)
	}
	return messages, nil
}

type aiResponseRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAIResponseRepository(db database.PgxIface, log *zap.Logger) AIResponseRepository {
	return &aiResponseRepository{
		db:  db,
		log: log.With(zap.String("repository", "ai_response")),
	}
}

func (r *aiResponseRepository) Create(ctx context.Context, resp *entity.AIResponse) error {
	query := `
		INSERT INTO ai_responses (id, user_id, query, response, response_time, confidence_score,
		                          category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		resp.ID,
		resp.UserID,
		resp.Query,
		resp.Response,
		resp.ResponseTime,
		resp.ConfidenceScore,
		resp.Category,
		resp.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create AI response", zap.Error(err), zap.String("user_id", resp.UserID.String()))
		return fmt.Errorf("create AI response: %w", err)
	}
	return nil
}

func (r *aiResponseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AIResponse, error) {
	query := `
		SELECT id, user_id, query, response, response_time, confidence_score,
		       feedback_rating, category, created_at
		FROM ai_responses
		WHERE id = $1
	`

	var resp entity.AIResponse
	err := r.db.QueryRow(ctx, query, id).Scan(
		&resp.ID,
		&resp.UserID,
		&resp.Query,
		&resp.Response,
		&resp.ResponseTime,
		&resp.ConfidenceScore,
		&resp.FeedbackRating,
		&resp.Category,
		&resp.CreatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find AI response", zap.Error(err), zap.String("response_id", id.String()))
		return nil, fmt.Errorf("find AI response %s: %w", id.String(), err)
	}
	return &resp, nil
}

func (r *aiResponseRepository) SetFeedback(ctx context.Context, id uuid.UUID, rating int) error {
	result, err := r.db.Exec(ctx, `UPDATE ai_responses SET feedback_rating = $2 WHERE id = $1`, id, rating)
	if err != nil {
		r.log.Error("Failed to store AI feedback", zap.Error(err), zap.String("response_id", id.String()))
		return fmt.Errorf("store feedback for AI response %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("store feedback for AI response %s: %w", id.String(), ErrNotFound)
	}
	return nil
}
