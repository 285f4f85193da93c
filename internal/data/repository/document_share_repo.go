package repository

import (
	"context"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentShareRepository interface {
	// Upsert creates the share or reactivates a revoked one for the same recipient
	Upsert(ctx context.Context, share *entity.DocumentShare) (*entity.DocumentShare, error)
	FindActive(ctx context.Context, documentID, sharedWith uuid.UUID) (*entity.DocumentShare, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*entity.DocumentShare, error)
	Revoke(ctx context.Context, documentID, shareID uuid.UUID, at time.Time) error
}

type DocumentCommentRepository interface {
	Create(ctx context.Context, comment *entity.DocumentComment) error
	ListByDocument(ctx context.Context, documentID uuid.UUID, includeInternal bool) ([]*entity.DocumentComment, error)
}

type documentShareRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDocumentShareRepository(db database.PgxIface, log *zap.Logger) DocumentShareRepository {
	return &documentShareRepository{
		db:  db,
		log: log.With(zap.String("repository", "document_share")),
	}
}

const shareColumns = `id, document_id, shared_by, shared_with, permission_level, message,
		       is_revoked, created_at, revoked_at`

func scanShare(row scanner, s *entity.DocumentShare) error {
	return row.Scan(
		&s.ID,
		&s.DocumentID,
		&s.SharedBy,
		&s.SharedWith,
		&s.PermissionLevel,
		&s.Message,
		&s.IsRevoked,
		&s.CreatedAt,
		&s.RevokedAt,
	)
}

func (r *documentShareRepository) Upsert(ctx context.Context, share *entity.DocumentShare) (*entity.DocumentShare, error) {
	query := `
		INSERT INTO document_shares (id, document_id, shared_by, shared_with, permission_level,
		                             message, is_revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
		ON CONFLICT (document_id, shared_with) DO UPDATE
		SET permission_level = EXCLUDED.permission_level,
		    message = EXCLUDED.message,
		    shared_by = EXCLUDED.shared_by,
		    is_revoked = FALSE,
		    revoked_at = NULL
		RETURNING ` + shareColumns

	var saved entity.DocumentShare
	err := scanShare(r.db.QueryRow(ctx, query,
		share.ID,
		share.DocumentID,
		share.SharedBy,
		share.SharedWith,
		share.PermissionLevel,
		share.Message,
		share.CreatedAt,
	), &saved)
	if err != nil {
		r.log.Error("Failed to share document",
			zap.Error(err),
			zap.String("document_id", share.DocumentID.String()),
			zap.String("shared_with", share.SharedWith.String()),
		)
		return nil, fmt.Errorf("share document %s: %w", share.DocumentID.String(), err)
	}
	return &saved, nil
}

func (r *documentShareRepository) FindActive(ctx context.Context, documentID, sharedWith uuid.UUID) (*entity.DocumentShare, error) {
	query := `SELECT ` + shareColumns + `
		FROM document_shares
		WHERE document_id = $1 AND shared_with = $2 AND NOT is_revoked`

	var share entity.DocumentShare
	err := scanShare(r.db.QueryRow(ctx, query, documentID, sharedWith), &share)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find document share", zap.Error(err), zap.String("document_id", documentID.String()))
		return nil, fmt.Errorf("find share of document %s: %w", documentID.String(), err)
	}
	return &share, nil
}

func (r *documentShareRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*entity.DocumentShare, error) {
	query := `SELECT ` + shareColumns + `
		FROM document_shares
		WHERE document_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, documentID)
	if err != nil {
		r.log.Error("Failed to list document shares", zap.Error(err), zap.String("document_id", documentID.String()))
		return nil, fmt.Errorf("list shares of document %s: %w", documentID.String(), err)
	}
	defer rows.Close()

	var shares []*entity.DocumentShare
	for rows.Next() {
		var share entity.DocumentShare
		if err := scanShare(rows, &share); err != nil {
			r.log.Error("Failed to scan share row", zap.Error(err))
			return nil, fmt.Errorf("scan share row: %w", err)
		}
		shares = append(shares, &share)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate share rows: %w", err)
	}
	return shares, nil
}

func (r *documentShareRepository) Revoke(ctx context.Context, documentID, shareID uuid.UUID, at time.Time) error {
	query := `
		UPDATE document_shares
		SET is_revoked = TRUE, revoked_at = $3
		WHERE id = $1 AND document_id = $2 AND NOT is_revoked
	`

	result, err := r.db.Exec(ctx, query, shareID, documentID, at)
	if err != nil {
		r.log.Error("Failed to revoke share", zap.Error(err), zap.String("share_id", shareID.String()))
		return fmt.Errorf("revoke share %s: %w", shareID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("revoke share %s: %w", shareID.String(), ErrNotFound)
	}
	return nil
}

type documentCommentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDocumentCommentRepository(db database.PgxIface, log *zap.Logger) DocumentCommentRepository {
	return &documentCommentRepository{
		db:  db,
		log: log.With(zap.String("repository", "document_comment")),
	}
}

func (r *documentCommentRepository) Create(ctx context.Context, c *entity.DocumentComment) error {
	query := `
		INSERT INTO document_comments (id, document_id, user_id, comment, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, c.ID, c.DocumentID, c.UserID, c.Comment, c.IsInternal, c.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create comment", zap.Error(err), zap.String("document_id", c.DocumentID.String()))
		return fmt.Errorf("comment on document %s: %w", c.DocumentID.String(), err)
	}
	return nil
}

func (r *documentCommentRepository) ListByDocument(ctx context.Context, documentID uuid.UUID, includeInternal bool) ([]*entity.DocumentComment, error) {
	query := `
		SELECT id, document_id, user_id, comment, is_internal, created_at
		FROM document_comments
		WHERE document_id = $1 AND ($2 OR NOT is_internal)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, documentID, includeInternal)
	if err != nil {
		r.log.Error("Failed to list comments", zap.Error(err), zap.String("document_id", documentID.String()))
		return nil, fmt.Errorf("list comments of document %s: %w", documentID.String(), err)
	}
	defer rows.Close()

	var comments []*entity.DocumentComment
	for rows.Next() {
		var c entity.DocumentComment
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.UserID, &c.Comment, &c.IsInternal, &c.CreatedAt); err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}
	return comments, nil
}
