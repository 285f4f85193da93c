package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string

const (
	DocLegalNotice      DocumentType = "legal_notice"
	DocContract         DocumentType = "contract"
	DocCourtOrder       DocumentType = "court_order"
	DocComplaint        DocumentType = "complaint"
	DocAffidavit        DocumentType = "affidavit"
	DocAgreement        DocumentType = "agreement"
	DocLeaseDeed        DocumentType = "lease_deed"
	DocPropertyDocument DocumentType = "property_document"
	DocIdentityProof    DocumentType = "identity_proof"
	DocIncomeProof      DocumentType = "income_proof"
	DocMedicalReport    DocumentType = "medical_report"
	DocPoliceReport     DocumentType = "police_report"
	DocOther            DocumentType = "other"
)

type DocumentTypeOption struct {
	Value DocumentType `json:"value"`
	Label string       `json:"label"`
}

var DocumentTypes = []DocumentTypeOption{
	{DocLegalNotice, "Legal Notice"},
	{DocContract, "Contract"},
	{DocCourtOrder, "Court Order"},
	{DocComplaint, "Complaint"},
	{DocAffidavit, "Affidavit"},
	{DocAgreement, "Agreement"},
	{DocLeaseDeed, "Lease Deed"},
	{DocPropertyDocument, "Property Document"},
	{DocIdentityProof, "Identity Proof"},
	{DocIncomeProof, "Income Proof"},
	{DocMedicalReport, "Medical Report"},
	{DocPoliceReport, "Police Report"},
	{DocOther, "Other"},
}

func (t DocumentType) IsValid() bool {
	for _, opt := range DocumentTypes {
		if opt.Value == t {
			return true
		}
	}
	return false
}

type PrivacyLevel string

const (
	PrivacyPrivate          PrivacyLevel = "private"
	PrivacySharedWithLawyer PrivacyLevel = "shared_with_lawyer"
	PrivacyPublic           PrivacyLevel = "public"
)

type Document struct {
	BaseNoDelete
	UserID            uuid.UUID    `db:"user_id"`
	Title             string       `db:"title"`
	Description       *string      `db:"description"`
	DocumentType      DocumentType `db:"document_type"`
	FileURL           string       `db:"file_url"`
	FilePublicID      string       `db:"file_public_id"`
	FileSize          int64        `db:"file_size"`
	FileType          string       `db:"file_type"`
	PrivacyLevel      PrivacyLevel `db:"privacy_level"`
	ExtractedText     *string      `db:"extracted_text"`
	IsAnalyzed        bool         `db:"is_analyzed"`
	AISummary         *string      `db:"ai_summary"`
	AIKeyPoints       []string     `db:"ai_key_points"`
	AILegalIssues     []string     `db:"ai_legal_issues"`
	AIConfidenceScore *float64     `db:"ai_confidence_score"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type DocumentAnalysis struct {
	BaseSimple
	DocumentID       uuid.UUID  `db:"document_id"`
	ExtractedText    string     `db:"extracted_text"`
	WordCount        int        `db:"word_count"`
	LanguageDetected string     `db:"language_detected"`
	LegalCategory    *string    `db:"legal_category"`
	KeyClauses       []string   `db:"key_clauses"`
	PotentialIssues  []string   `db:"potential_issues"`
	MissingElements  []string   `db:"missing_elements"`
	Recommendations  []string   `db:"recommendations"`
	PartiesInvolved  []string   `db:"parties_involved"`
	ImportantDates   []string   `db:"important_dates"`
	MonetaryAmounts  []string   `db:"monetary_amounts"`
	LegalReferences  []string   `db:"legal_references"`
	RiskLevel        *RiskLevel `db:"risk_level"`
	RiskFactors      []string   `db:"risk_factors"`
	ProcessingTime   float64    `db:"processing_time"`
	AIModelUsed      string     `db:"ai_model_used"`
	ConfidenceScore  float64    `db:"confidence_score"`
}

type PermissionLevel string

const (
	PermissionView    PermissionLevel = "view"
	PermissionComment PermissionLevel = "comment"
	PermissionEdit    PermissionLevel = "edit"
)

// CanComment reports whether the permission includes commenting
func (p PermissionLevel) CanComment() bool {
	return p == PermissionComment || p == PermissionEdit
}

type DocumentShare struct {
	BaseSimple
	DocumentID      uuid.UUID       `db:"document_id"`
	SharedBy        uuid.UUID       `db:"shared_by"`
	SharedWith      uuid.UUID       `db:"shared_with"`
	PermissionLevel PermissionLevel `db:"permission_level"`
	Message         *string         `db:"message"`
	IsRevoked       bool            `db:"is_revoked"`
	RevokedAt       *time.Time      `db:"revoked_at"`
}

type DocumentComment struct {
	BaseSimple
	DocumentID uuid.UUID `db:"document_id"`
	UserID     uuid.UUID `db:"user_id"`
	Comment    string    `db:"comment"`
	IsInternal bool      `db:"is_internal"`
}
