package repository

import (
	"context"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ConversationRepository interface {
	// Create fails with ErrDuplicate when the (user, lawyer) pair already has a thread
	Create(ctx context.Context, conv *entity.Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	// ListForParticipant returns the inbox of participantID, most recent activity first
	ListForParticipant(ctx context.Context, participantID uuid.UUID) ([]*entity.ConversationSummary, error)
	// AddMessage stores the message and bumps the conversation's activity time
	AddMessage(ctx context.Context, msg *entity.ConversationMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*entity.ConversationMessage, error)
	// MarkRead flags every message not sent by readerID as read
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

type conversationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConversationRepository(db database.PgxIface, log *zap.Logger) ConversationRepository {
	return &conversationRepository{
		db:  db,
		log: log.With(zap.String("repository", "conversation")),
	}
}

func (r *conversationRepository) Create(ctx context.Context, conv *entity.Conversation) error {
	query := `
		INSERT INTO lawyer_user_conversations (id, user_id, lawyer_id, subject, is_active,
		                                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		conv.ID,
		conv.UserID,
		conv.LawyerID,
		conv.Subject,
		conv.IsActive,
		conv.CreatedAt,
		conv.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("create conversation: %w", ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create conversation",
			zap.Error(err),
			zap.String("user_id", conv.UserID.String()),
			zap.String("lawyer_id", conv.LawyerID.String()),
		)
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	query := `
		SELECT id, user_id, lawyer_id, subject, is_active, created_at, updated_at
		FROM lawyer_user_conversations
		WHERE id = $1
	`

	var conv entity.Conversation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.LawyerID,
		&conv.Subject,
		&conv.IsActive,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find conversation", zap.Error(err), zap.String("conversation_id", id.String()))
		return nil, fmt.Errorf("find conversation %s: %w", id.String(), err)
	}
	return &conv, nil
}

func (r *conversationRepository) ListForParticipant(ctx context.Context, participantID uuid.UUID) ([]*entity.ConversationSummary, error) {
	query := `
		SELECT c.id, c.user_id, c.lawyer_id, c.subject, c.is_active, c.created_at, c.updated_at,
		       lm.id, lm.sender_id, lm.content, lm.is_read, lm.read_at, lm.created_at,
		       (SELECT COUNT(*)
		          FROM lawyer_user_messages m
		         WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND NOT m.is_read)
		FROM lawyer_user_conversations c
		LEFT JOIN LATERAL (
			SELECT id, sender_id, content, is_read, read_at, created_at
			FROM lawyer_user_messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON TRUE
		WHERE c.user_id = $1 OR c.lawyer_id = $1
		ORDER BY c.updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		r.log.Error("Failed to list conversations", zap.Error(err), zap.String("participant_id", participantID.String()))
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var summaries []*entity.ConversationSummary
	for rows.Next() {
		var (
			s        entity.ConversationSummary
			msgID    *uuid.UUID
			senderID *uuid.UUID
			content  *string
			isRead   *bool
			readAt   *time.Time
			sentAt   *time.Time
		)
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.LawyerID,
			&s.Subject,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
			&msgID,
			&senderID,
			&content,
			&isRead,
			&readAt,
			&sentAt,
			&s.UnreadCount,
		)
		if err != nil {
			r.log.Error("Failed to scan conversation row", zap.Error(err))
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}

		if msgID != nil {
			s.LastMessage = &entity.ConversationMessage{
				BaseSimple:     entity.BaseSimple{ID: *msgID, CreatedAt: *sentAt},
				ConversationID: s.ID,
				SenderID:       *senderID,
				Content:        *content,
				IsRead:         *isRead,
				ReadAt:         readAt,
			}
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate conversation rows: %w", err)
	}
	return summaries, nil
}

func (r *conversationRepository) AddMessage(ctx context.Context, msg *entity.ConversationMessage) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO lawyer_user_messages (id, conversation_id, sender_id, content, is_read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			msg.ID,
			msg.ConversationID,
			msg.SenderID,
			msg.Content,
			msg.IsRead,
			msg.CreatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE lawyer_user_conversations SET updated_at = $2 WHERE id = $1`,
			msg.ConversationID, msg.CreatedAt,
		)
		return err
	})

	if err != nil {
		r.log.Error("Failed to add conversation message",
			zap.Error(err),
			zap.String("conversation_id", msg.ConversationID.String()),
		)
		return fmt.Errorf("add message to conversation %s: %w", msg.ConversationID.String(), err)
	}
	return nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*entity.ConversationMessage, error) {
	query := `
		SELECT id, conversation_id, sender_id, content, is_read, read_at, created_at
		FROM lawyer_user_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		r.log.Error("Failed to list conversation messages",
			zap.Error(err),
			zap.String("conversation_id", conversationID.String()),
		)
		return nil, fmt.Errorf("list messages of conversation %s: %w", conversationID.String(), err)
	}
	defer rows.Close()

	var messages []*entity.ConversationMessage
	for rows.Next() {
		var msg entity.ConversationMessage
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SenderID,
			&msg.Content,
			&msg.IsRead,
			&msg.ReadAt,
			&msg.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan conversation message row", zap.Error(err))
			return nil, fmt.Errorf("scan conversation message row: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate conversation message rows: %w", err)
	}
	return messages, nil
}

func (r *conversationRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	query := `
		UPDATE lawyer_user_messages
		SET is_read = TRUE, read_at = NOW()
		WHERE conversation_id = $1 AND sender_id <> $2 AND NOT is_read
	`

	result, err := r.db.Exec(ctx, query, conversationID, readerID)
	if err != nil {
		r.log.Error("Failed to mark messages read",
			zap.Error(err),
			zap.String("conversation_id", conversationID.String()),
		)
		return 0, fmt.Errorf("mark messages read in %s: %w", conversationID.String(), err)
	}
	return result.RowsAffected(), nil
}
