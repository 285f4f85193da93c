package response

import (
	"time"

	"legal-marketplace/internal/data/entity"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	ID                string              `json:"id"`
	Owner             *PublicUser         `json:"owner,omitempty"`
	Title             string              `json:"title"`
	Description       *string             `json:"description,omitempty"`
	DocumentType      entity.DocumentType `json:"document_type"`
	FileURL           string              `json:"file_url"`
	FileSize          int64               `json:"file_size"`
	FileType          string              `json:"file_type"`
	PrivacyLevel      entity.PrivacyLevel `json:"privacy_level"`
	IsAnalyzed        bool                `json:"is_analyzed"`
	AISummary         *string             `json:"ai_summary,omitempty"`
	AIKeyPoints       []string            `json:"ai_key_points,omitempty"`
	AILegalIssues     []string            `json:"ai_legal_issues,omitempty"`
	AIConfidenceScore *float64            `json:"ai_confidence_score,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func DocumentToResponse(d *entity.Document, owner *entity.User) DocumentResponse {
	return DocumentResponse{
		ID:                d.ID.String(),
		Owner:             ToPublicUser(owner),
		Title:             d.Title,
		Description:       d.Description,
		DocumentType:      d.DocumentType,
		FileURL:           d.FileURL,
		FileSize:          d.FileSize,
		FileType:          d.FileType,
		PrivacyLevel:      d.PrivacyLevel,
		IsAnalyzed:        d.IsAnalyzed,
		AISummary:         d.AISummary,
		AIKeyPoints:       d.AIKeyPoints,
		AILegalIssues:     d.AILegalIssues,
		AIConfidenceScore: d.AIConfidenceScore,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type DocumentAnalysisResponse struct {
	DocumentID       string            `json:"document_id"`
	WordCount        int               `json:"word_count"`
	LanguageDetected string            `json:"language_detected"`
	LegalCategory    *string           `json:"legal_category,omitempty"`
	KeyClauses       []string          `json:"key_clauses"`
	PotentialIssues  []string          `json:"potential_issues"`
	MissingElements  []string          `json:"missing_elements"`
	Recommendations  []string          `json:"recommendations"`
	PartiesInvolved  []string          `json:"parties_involved"`
	ImportantDates   []string          `json:"important_dates"`
	MonetaryAmounts  []string          `json:"monetary_amounts"`
	LegalReferences  []string          `json:"legal_references"`
	RiskLevel        *entity.RiskLevel `json:"risk_level,omitempty"`
	RiskFactors      []string          `json:"risk_factors"`
	ProcessingTime   float64           `json:"processing_time"`
	AIModelUsed      string            `json:"ai_model_used"`
	ConfidenceScore  float64           `json:"confidence_score"`
	CreatedAt        time.Time         `json:"created_at"`
}

func AnalysisToResponse(a *entity.DocumentAnalysis) DocumentAnalysisResponse {
	return DocumentAnalysisResponse{
		DocumentID:       a.DocumentID.String(),
		WordCount:        a.WordCount,
		LanguageDetected: a.LanguageDetected,
		LegalCategory:    a.LegalCategory,
		KeyClauses:       nonNil(a.KeyClauses),
		PotentialIssues:  nonNil(a.PotentialIssues),
		MissingElements:  nonNil(a.MissingElements),
		Recommendations:  nonNil(a.Recommendations),
		PartiesInvolved:  nonNil(a.PartiesInvolved),
		ImportantDates:   nonNil(a.ImportantDates),
		MonetaryAmounts:  nonNil(a.MonetaryAmounts),
		LegalReferences:  nonNil(a.LegalReferences),
		RiskLevel:        a.RiskLevel,
		RiskFactors:      nonNil(a.RiskFactors),
		ProcessingTime:   a.ProcessingTime,
		AIModelUsed:      a.AIModelUsed,
		ConfidenceScore:  a.ConfidenceScore,
		CreatedAt:        a.CreatedAt,
	}
}

type DocumentAnalysisResult struct {
	Document DocumentResponse         `json:"document"`
	Analysis DocumentAnalysisResponse `json:"analysis"`
}

type DocumentShareResponse struct {
	ID              string                 `json:"id"`
	DocumentID      string                 `json:"document_id"`
	SharedBy        string                 `json:"shared_by"`
	SharedWith      *PublicUser            `json:"shared_with"`
	PermissionLevel entity.PermissionLevel `json:"permission_level"`
	Message         *string                `json:"message,omitempty"`
	IsRevoked       bool                   `json:"is_revoked"`
	RevokedAt       *time.Time             `json:"revoked_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

func ShareToResponse(s *entity.DocumentShare, users map[uuid.UUID]*entity.User) DocumentShareResponse {
	shared := ToPublicUser(users[s.SharedWith])
	if shared == nil {
		shared = &PublicUser{ID: s.SharedWith.String()}
	}
	return DocumentShareResponse{
		ID:              s.ID.String(),
		DocumentID:      s.DocumentID.String(),
		SharedBy:        s.SharedBy.String(),
		SharedWith:      shared,
		PermissionLevel: s.PermissionLevel,
		Message:         s.Message,
		IsRevoked:       s.IsRevoked,
		RevokedAt:       s.RevokedAt,
		CreatedAt:       s.CreatedAt,
	}
}

type DocumentCommentResponse struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"document_id"`
	User       *PublicUser `json:"user"`
	Comment    string      `json:"comment"`
	IsInternal bool        `json:"is_internal"`
	CreatedAt  time.Time   `json:"created_at"`
}

func CommentToResponse(c *entity.DocumentComment, users map[uuid.UUID]*entity.User) DocumentCommentResponse {
	return DocumentCommentResponse{
		ID:         c.ID.String(),
		DocumentID: c.DocumentID.String(),
		User:       ToPublicUser(users[c.UserID]),
		Comment:    c.Comment,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}
