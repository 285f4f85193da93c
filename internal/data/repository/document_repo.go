package repository

import (
	"context"
	"fmt"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID, docType entity.DocumentType, limit, offset int) ([]*entity.Document, int64, error)
	// ListSharedWith returns documents with a live share to userID
	ListSharedWith(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Document, int64, error)
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SaveAnalysis replaces the document's analysis and copies the headline fields onto the document
	SaveAnalysis(ctx context.Context, doc *entity.Document, analysis *entity.DocumentAnalysis) error
	FindAnalysis(ctx context.Context, documentID uuid.UUID) (*entity.DocumentAnalysis, error)
}

type documentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDocumentRepository(db database.PgxIface, log *zap.Logger) DocumentRepository {
	return &documentRepository{
		db:  db,
		log: log.With(zap.String("repository", "document")),
	}
}

const documentColumns = `d.id, d.user_id, d.title, d.description, d.document_type, d.file_url,
		       d.file_public_id, d.file_size, d.file_type, d.privacy_level, d.extracted_text,
		       d.is_analyzed, d.ai_summary, d.ai_key_points, d.ai_legal_issues,
		       d.ai_confidence_score, d.created_at, d.updated_at`

func scanDocument(row scanner, d *entity.Document) error {
	return row.Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.Description,
		&d.DocumentType,
		&d.FileURL,
		&d.FilePublicID,
		&d.FileSize,
		&d.FileType,
		&d.PrivacyLevel,
		&d.ExtractedText,
		&d.IsAnalyzed,
		&d.AISummary,
		&d.AIKeyPoints,
		&d.AILegalIssues,
		&d.AIConfidenceScore,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (id, user_id, title, description, document_type, file_url,
		                       file_public_id, file_size, file_type, privacy_level, extracted_text,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.Description,
		doc.DocumentType,
		doc.FileURL,
		doc.FilePublicID,
		doc.FileSize,
		doc.FileType,
		doc.PrivacyLevel,
		doc.ExtractedText,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create document", zap.Error(err), zap.String("user_id", doc.UserID.String()))
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents d WHERE d.id = $1`

	var doc entity.Document
	err := scanDocument(r.db.QueryRow(ctx, query, id), &doc)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find document", zap.Error(err), zap.String("document_id", id.String()))
		return nil, fmt.Errorf("find document %s: %w", id.String(), err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID, docType entity.DocumentType, limit, offset int) ([]*entity.Document, int64, error) {
	w := &whereBuilder{}
	w.add("d.user_id = $%[1]d", userID)
	if docType != "" {
		w.add("d.document_type = $%[1]d", docType)
	}
	return r.list(ctx, ` FROM documents d`+w.sql(), w.args, limit, offset)
}

func (r *documentRepository) ListSharedWith(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Document, int64, error) {
	from := ` FROM documents d
		JOIN document_shares s ON s.document_id = d.id
		WHERE s.shared_with = $1 AND NOT s.is_revoked`
	return r.list(ctx, from, []any{userID}, limit, offset)
}

func (r *documentRepository) list(ctx context.Context, from string, args []any, limit, offset int) ([]*entity.Document, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count documents", zap.Error(err))
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s%s ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d`,
		documentColumns, from, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list documents",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var doc entity.Document
		if err := scanDocument(rows, &doc); err != nil {
			r.log.Error("Failed to scan document row", zap.Error(err))
			return nil, 0, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, 0, fmt.Errorf("iterate document rows: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *entity.Document) error {
	query := `
		UPDATE documents
		SET title = $2, description = $3, document_type = $4, privacy_level = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.DocumentType,
		doc.PrivacyLevel,
		doc.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update document", zap.Error(err), zap.String("document_id", doc.ID.String()))
		return fmt.Errorf("update document %s: %w", doc.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update document %s: %w", doc.ID.String(), ErrNotFound)
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete document", zap.Error(err), zap.String("document_id", id.String()))
		return fmt.Errorf("delete document %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete document %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Document deleted", zap.String("document_id", id.String()))
	return nil
}

func (r *documentRepository) SaveAnalysis(ctx context.Context, doc *entity.Document, a *entity.DocumentAnalysis) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO document_analyses (id, document_id, extracted_text, word_count, language_detected,
			                               legal_category, key_clauses, potential_issues, missing_elements,
			                               recommendations, parties_involved, important_dates,
			                               monetary_amounts, legal_references, risk_level, risk_factors,
			                               processing_time, ai_model_used, confidence_score, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			ON CONFLICT (document_id) DO UPDATE
			SET id = EXCLUDED.id,
			    extracted_text = EXCLUDED.extracted_text,
			    word_count = EXCLUDED.word_count,
			    language_detected = EXCLUDED.language_detected,
			    legal_category = EXCLUDED.legal_category,
			    key_clauses = EXCLUDED.key_clauses,
			    potential_issues = EXCLUDED.potential_issues,
			    missing_elements = EXCLUDED.missing_elements,
			    recommendations = EXCLUDED.recommendations,
			    parties_involved = EXCLUDED.parties_involved,
			    important_dates = EXCLUDED.important_dates,
			    monetary_amounts = EXCLUDED.monetary_amounts,
			    legal_references = EXCLUDED.legal_references,
			    risk_level = EXCLUDED.risk_level,
			    risk_factors = EXCLUDED.risk_factors,
			    processing_time = EXCLUDED.processing_time,
			    ai_model_used = EXCLUDED.ai_model_used,
			    confidence_score = EXCLUDED.confidence_score,
			    created_at = EXCLUDED.created_at
		`,
			a.ID,
			a.DocumentID,
			a.ExtractedText,
			a.WordCount,
			a.LanguageDetected,
			a.LegalCategory,
			a.KeyClauses,
			a.PotentialIssues,
			a.MissingElements,
			a.Recommendations,
			a.PartiesInvolved,
			a.ImportantDates,
			a.MonetaryAmounts,
			a.LegalReferences,
			a.RiskLevel,
			a.RiskFactors,
			a.ProcessingTime,
			a.AIModelUsed,
			a.ConfidenceScore,
			a.CreatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE documents
			SET is_analyzed = TRUE, ai_summary = $2, ai_key_points = $3, ai_legal_issues = $4,
			    ai_confidence_score = $5, updated_at = $6
			WHERE id = $1
		`,
			doc.ID,
			doc.AISummary,
			doc.AIKeyPoints,
			doc.AILegalIssues,
			doc.AIConfidenceScore,
			doc.UpdatedAt,
		)
		return err
	})

	if err != nil {
		r.log.Error("Failed to save document analysis", zap.Error(err), zap.String("document_id", doc.ID.String()))
		return fmt.Errorf("save analysis for document %s: %w", doc.ID.String(), err)
	}
	return nil
}

func (r *documentRepository) FindAnalysis(ctx context.Context, documentID uuid.UUID) (*entity.DocumentAnalysis, error) {
	query := `
		SELECT id, document_id, extracted_text, word_count, language_detected, legal_category,
		       key_clauses, potential_issues, missing_elements, recommendations, parties_involved,
		       important_dates, monetary_amounts, legal_references, risk_level, risk_factors,
		       processing_time, ai_model_used, confidence_score, created_at
		FROM document_analyses
		WHERE document_id = $1
	`

	var a entity.DocumentAnalysis
	err := r.db.QueryRow(ctx, query, documentID).Scan(
		&a.ID,
		&a.DocumentID,
		&a.ExtractedText,
		&a.WordCount,
		&a.LanguageDetected,
		&a.LegalCategory,
		&a.KeyClauses,
		&a.PotentialIssues,
		&a.MissingElements,
		&a.Recommendations,
		&a.PartiesInvolved,
		&a.ImportantDates,
		&a.MonetaryAmounts,
		&a.LegalReferences,
		&a.RiskLevel,
		&a.RiskFactors,
		&a.ProcessingTime,
		&a.AIModelUsed,
		&a.ConfidenceScore,
		&a.CreatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find document analysis", zap.Error(err), zap.String("document_id", documentID.String()))
		return nil, fmt.Errorf("find analysis for document %s: %w", documentID.String(), err)
	}
	return &a, nil
}
