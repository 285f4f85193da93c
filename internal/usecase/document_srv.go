package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/pkg/llm"
	"legal-marketplace/pkg/storage"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	analysisSystemPrompt = "You are a legal document analyst for Indian law. Answer with a single JSON object and nothing else."
	analysisPrompt       = `Analyze the following legal document.

Title: %s
Type: %s
Description: %s

Document text:
%s

Return JSON with these keys:
"summary" (string), "key_points" (array of strings), "legal_issues" (array of strings),
"legal_category" (string), "key_clauses" (array), "potential_issues" (array),
"missing_elements" (array), "recommendations" (array), "parties_involved" (array),
"important_dates" (array), "monetary_amounts" (array), "legal_references" (array),
"risk_level" ("low", "medium" or "high"), "risk_factors" (array),
"language" (string), "confidence" (number between 0 and 1).`

	maxAnalysisChars  = 20000
	noTextPlaceholder = "(no text could be extracted; base the analysis on the title, type and description)"
)

// documentExtensions lists the accepted uploads; true marks formats whose text is kept for analysis
var documentExtensions = map[string]bool{
	"pdf": false, "doc": false, "docx": false, "rtf": false, "odt": false,
	"jpg": false, "jpeg": false, "png": false,
	"txt": true, "md": true, "csv": true,
}

type DocumentService interface {
	Upload(ctx context.Context, userID uuid.UUID, req *request.UploadDocumentRequest, file io.Reader, filename string) (*response.DocumentResponse, error)
	List(ctx context.Context, userID uuid.UUID, req *request.DocumentListRequest) (*response.PaginatedResponse[response.DocumentResponse], error)
	ListShared(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DocumentResponse], error)
	Types() []entity.DocumentTypeOption
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*response.DocumentResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdateDocumentRequest) (*response.DocumentResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error

	Analyze(ctx context.Context, actor Actor, id uuid.UUID) (*response.DocumentAnalysisResult, error)
	GetAnalysis(ctx context.Context, actor Actor, id uuid.UUID) (*response.DocumentAnalysisResponse, error)

	Share(ctx context.Context, actor Actor, id uuid.UUID, req *request.ShareDocumentRequest) (*response.DocumentShareResponse, error)
	ListShares(ctx context.Context, actor Actor, id uuid.UUID) ([]response.DocumentShareResponse, error)
	RevokeShare(ctx context.Context, actor Actor, id, shareID uuid.UUID) error

	ListComments(ctx context.Context, actor Actor, id uuid.UUID) ([]response.DocumentCommentResponse, error)
	AddComment(ctx context.Context, actor Actor, id uuid.UUID, req *request.CommentRequest) (*response.DocumentCommentResponse, error)
}

type documentService struct {
	repo     *repository.Repository
	storage  storage.MediaStorage
	llm      llm.Completer
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
}

func NewDocumentService(
	repo *repository.Repository,
	store storage.MediaStorage,
	completer llm.Completer,
	maxUploadMB int64,
	log *zap.Logger,
) DocumentService {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &documentService{
		repo:     repo,
		storage:  store,
		llm:      completer,
		maxBytes: maxUploadMB << 20,
		log:      log.With(zap.String("service", "document")),
		now:      time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, userID uuid.UUID, req *request.UploadDocumentRequest, file io.Reader, filename string) (*response.DocumentResponse, error) {
	docType := entity.DocumentType(req.DocumentType)
	if !docType.IsValid() {
		return nil, invalid("unknown document type %q", req.DocumentType)
	}
	privacy := entity.PrivacyPrivate
	if req.PrivacyLevel != "" {
		privacy = entity.PrivacyLevel(req.PrivacyLevel)
	}

	ext := storage.Extension(filename)
	keepText, ok := documentExtensions[ext]
	if !ok {
		return nil, invalid("file type %q is not supported", ext)
	}

	// read one byte past the limit to detect oversized files
	data, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return nil, invalid("could not read uploaded file")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, invalid("file exceeds the %d MB limit", s.maxBytes>>20)
	}
	if len(data) == 0 {
		return nil, invalid("file is empty")
	}

	obj, err := s.storage.Upload(ctx, bytes.NewReader(data), "documents/"+userID.String(), filename)
	if err != nil {
		s.log.Error("Failed to store document", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, newError(ErrUpstream, "failed to store document")
	}

	now := s.now()
	doc := &entity.Document{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		DocumentType: docType,
		FileURL:      obj.URL,
		FilePublicID: obj.PublicID,
		FileSize:     int64(len(data)),
		FileType:     ext,
		PrivacyLevel: privacy,
	}
	if keepText && utf8.Valid(data) {
		text := string(data)
		doc.ExtractedText = &text
	}

	if err := s.repo.Document.Create(ctx, doc); err != nil {
		s.cleanup(ctx, obj.PublicID, filename)
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.log.Info("Document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("file_type", ext),
		zap.Int64("size", doc.FileSize),
	)

	return s.toResponse(ctx, doc), nil
}

func (s *documentService) page(ctx context.Context, docs []*entity.Document, page, limit int, total int64) (*response.PaginatedResponse[response.DocumentResponse], error) {
	ids := make([]uuid.UUID, len(docs))
	for i, d := range docs {
		ids[i] = d.UserID
	}
	owners, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}

	data := make([]response.DocumentResponse, len(docs))
	for i, d := range docs {
		data[i] = response.DocumentToResponse(d, owners[d.UserID])
	}
	return response.NewPaginatedResponse(data, page, limit, total), nil
}

func (s *documentService) List(ctx context.Context, userID uuid.UUID, req *request.DocumentListRequest) (*response.PaginatedResponse[response.DocumentResponse], error) {
	docType := entity.DocumentType(req.DocumentType)
	if docType != "" && !docType.IsValid() {
		return nil, invalid("unknown document type %q", req.DocumentType)
	}

	docs, total, err := s.repo.Document.ListByUser(ctx, userID, docType, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list documents", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return s.page(ctx, docs, req.Page, req.Limit(), total)
}

func (s *documentService) ListShared(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DocumentResponse], error) {
	docs, total, err := s.repo.Document.ListSharedWith(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list shared documents", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list shared documents: %w", err)
	}
	return s.page(ctx, docs, req.Page, req.Limit(), total)
}

func (s *documentService) Types() []entity.DocumentTypeOption {
	return entity.DocumentTypes
}

func (s *documentService) find(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	doc, err := s.repo.Document.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find document", zap.Error(err), zap.String("document_id", id.String()))
		return nil, fmt.Errorf("find document: %w", err)
	}
	if doc == nil {
		return nil, notFound("document")
	}
	return doc, nil
}

// viewable loads a document the actor may read and the share granting it, if any
func (s *documentService) viewable(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Document, *entity.DocumentShare, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if doc.UserID == actor.ID {
		return doc, nil, nil
	}

	share, err := s.repo.Share.FindActive(ctx, doc.ID, actor.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("find share: %w", err)
	}
	if share == nil && doc.PrivacyLevel != entity.PrivacyPublic {
		return nil, nil, forbidden("you do not have access to this document")
	}
	return doc, share, nil
}

func (s *documentService) owned(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != actor.ID {
		return nil, forbidden("only the owner can do this")
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*response.DocumentResponse, error) {
	doc, _, err := s.viewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, doc), nil
}

func (s *documentService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdateDocumentRequest) (*response.DocumentResponse, error) {
	doc, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = req.Description
	}
	if req.DocumentType != nil {
		docType := entity.DocumentType(*req.DocumentType)
		if !docType.IsValid() {
			return nil, invalid("unknown document type %q", *req.DocumentType)
		}
		doc.DocumentType = docType
	}
	if req.PrivacyLevel != nil {
		doc.PrivacyLevel = entity.PrivacyLevel(*req.PrivacyLevel)
	}
	doc.Touch(s.now())

	if err := s.repo.Document.Update(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("document")
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return s.toResponse(ctx, doc), nil
}

func (s *documentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	doc, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Document.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("document")
		}
		return fmt.Errorf("delete document: %w", err)
	}
	s.cleanup(ctx, doc.FilePublicID, doc.FileType)

	s.log.Info("Document deleted", zap.String("document_id", doc.ID.String()))
	return nil
}

// cleanup drops a stored object; failures only leave an orphan behind
func (s *documentService) cleanup(ctx context.Context, publicID, filename string) {
	if publicID == "" {
		return
	}
	if err := s.storage.Delete(ctx, publicID, filename); err != nil {
		s.log.Warn("Failed to delete stored object", zap.Error(err), zap.String("public_id", publicID))
	}
}

// analysisReply is the JSON object the model is asked to produce
type analysisReply struct {
	Summary         string   `json:"summary"`
	KeyPoints       []string `json:"key_points"`
	LegalIssues     []string `json:"legal_issues"`
	LegalCategory   string   `json:"legal_category"`
	KeyClauses      []string `json:"key_clauses"`
	PotentialIssues []string `json:"potential_issues"`
	MissingElements []string `json:"missing_elements"`
	Recommendations []string `json:"recommendations"`
	PartiesInvolved []string `json:"parties_involved"`
	ImportantDates  []string `json:"important_dates"`
	MonetaryAmounts []string `json:"monetary_amounts"`
	LegalReferences []string `json:"legal_references"`
	RiskLevel       string   `json:"risk_level"`
	RiskFactors     []string `json:"risk_factors"`
	Language        string   `json:"language"`
	Confidence      float64  `json:"confidence"`
}

func parseAnalysis(text string) (*analysisReply, error) {
	var reply analysisReply
	if err := json.Unmarshal([]byte(llm.StripCodeFence(text)), &reply); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if reply.Confidence < 0 {
		reply.Confidence = 0
	}
	if reply.Confidence > 1 {
		reply.Confidence = 1
	}
	return &reply, nil
}

func riskLevel(value string) *entity.RiskLevel {
	level := entity.RiskLevel(strings.ToLower(strings.TrimSpace(value)))
	switch level {
	case entity.RiskLow, entity.RiskMedium, entity.RiskHigh:
		return &level
	}
	return nil
}

func (s *documentService) Analyze(ctx context.Context, actor Actor, id uuid.UUID) (*response.DocumentAnalysisResult, error) {
	doc, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	text := ""
	if doc.ExtractedText != nil {
		text = *doc.ExtractedText
	}
	body := noTextPlaceholder
	if strings.TrimSpace(text) != "" {
		body = utils.Truncate(text, maxAnalysisChars, "\n[truncated]")
	}
	description := ""
	if doc.Description != nil {
		description = *doc.Description
	}

	started := s.now()
	completion, err := s.llm.Complete(ctx, analysisSystemPrompt,
		fmt.Sprintf(analysisPrompt, doc.Title, doc.DocumentType, description, body),
		llm.Options{JSON: true})
	if err != nil {
		s.log.Error("Document analysis failed", zap.Error(err), zap.String("document_id", doc.ID.String()))
		return nil, newError(ErrUpstream, "document analysis is unavailable right now")
	}
	reply, err := parseAnalysis(completion.Text)
	if err != nil {
		s.log.Error("Unreadable analysis reply", zap.Error(err), zap.String("document_id", doc.ID.String()))
		return nil, newError(ErrUpstream, "document analysis returned an unreadable answer")
	}

	now := s.now()
	analysis := &entity.DocumentAnalysis{
		BaseSimple:       entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		DocumentID:       doc.ID,
		ExtractedText:    text,
		WordCount:        len(strings.Fields(text)),
		LanguageDetected: reply.Language,
		KeyClauses:       reply.KeyClauses,
		PotentialIssues:  reply.PotentialIssues,
		MissingElements:  reply.MissingElements,
		Recommendations:  reply.Recommendations,
		PartiesInvolved:  reply.PartiesInvolved,
		ImportantDates:   reply.ImportantDates,
		MonetaryAmounts:  reply.MonetaryAmounts,
		LegalReferences:  reply.LegalReferences,
		RiskLevel:        riskLevel(reply.RiskLevel),
		RiskFactors:      reply.RiskFactors,
		ProcessingTime:   now.Sub(started).Seconds(),
		AIModelUsed:      completion.Model,
		ConfidenceScore:  reply.Confidence,
	}
	if analysis.LanguageDetected == "" {
		analysis.LanguageDetected = "en"
	}
	if reply.LegalCategory != "" {
		analysis.LegalCategory = &reply.LegalCategory
	}

	confidence := reply.Confidence
	doc.IsAnalyzed = true
	doc.AISummary = &reply.Summary
	doc.AIKeyPoints = reply.KeyPoints
	doc.AILegalIssues = reply.LegalIssues
	doc.AIConfidenceScore = &confidence
	doc.Touch(now)

	if err := s.repo.Document.SaveAnalysis(ctx, doc, analysis); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	s.log.Info("Document analyzed",
		zap.String("document_id", doc.ID.String()),
		zap.Float64("confidence", confidence),
		zap.Int("tokens", completion.TokensUsed),
	)

	return &response.DocumentAnalysisResult{
		Document: *s.toResponse(ctx, doc),
		Analysis: response.AnalysisToResponse(analysis),
	}, nil
}

func (s *documentService) GetAnalysis(ctx context.Context, actor Actor, id uuid.UUID) (*response.DocumentAnalysisResponse, error) {
	doc, _, err := s.viewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	analysis, err := s.repo.Document.FindAnalysis(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("find analysis: %w", err)
	}
	if analysis == nil {
		return nil, notFound("analysis")
	}

	resp := response.AnalysisToResponse(analysis)
	return &resp, nil
}

func (s *documentService) Share(ctx context.Context, actor Actor, id uuid.UUID, req *request.ShareDocumentRequest) (*response.DocumentShareResponse, error) {
	doc, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	targetID, err := uuid.Parse(req.SharedWith)
	if err != nil {
		return nil, invalid("invalid shared_with")
	}
	if targetID == actor.ID {
		return nil, invalid("you cannot share a document with yourself")
	}
	target, err := s.repo.User.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if target == nil || !target.IsActive {
		return nil, notFound("user")
	}
	if !target.IsLawyer() {
		return nil, invalid("documents can only be shared with lawyers")
	}

	permission := entity.PermissionView
	if req.PermissionLevel != "" {
		permission = entity.PermissionLevel(req.PermissionLevel)
	}

	share, err := s.repo.Share.Upsert(ctx, &entity.DocumentShare{
		BaseSimple:      entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
		DocumentID:      doc.ID,
		SharedBy:        actor.ID,
		SharedWith:      targetID,
		PermissionLevel: permission,
		Message:         req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("share document: %w", err)
	}

	s.log.Info("Document shared",
		zap.String("document_id", doc.ID.String()),
		zap.String("shared_with", targetID.String()),
		zap.String("permission", string(permission)),
	)

	resp := response.ShareToResponse(share, map[uuid.UUID]*entity.User{targetID: target})
	return &resp, nil
}

func (s *documentService) ListShares(ctx context.Context, actor Actor, id uuid.UUID) ([]response.DocumentShareResponse, error) {
	doc, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	shares, err := s.repo.Share.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	ids := make([]uuid.UUID, len(shares))
	for i, sh := range shares {
		ids[i] = sh.SharedWith
	}
	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load share recipients: %w", err)
	}

	out := make([]response.DocumentShareResponse, len(shares))
	for i, sh := range shares {
		out[i] = response.ShareToResponse(sh, users)
	}
	return out, nil
}

func (s *documentService) RevokeShare(ctx context.Context, actor Actor, id, shareID uuid.UUID) error {
	doc, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.repo.Share.Revoke(ctx, doc.ID, shareID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("share")
		}
		return fmt.Errorf("revoke share: %w", err)
	}

	s.log.Info("Document share revoked", zap.String("document_id", doc.ID.String()), zap.String("share_id", shareID.String()))
	return nil
}

func (s *documentService) ListComments(ctx context.Context, actor Actor, id uuid.UUID) ([]response.DocumentCommentResponse, error) {
	doc, _, err := s.viewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.ListByDocument(ctx, doc.ID, actor.IsLawyer())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	ids := make([]uuid.UUID, len(comments))
	for i, c := range comments {
		ids[i] = c.UserID
	}
	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load commenters: %w", err)
	}

	out := make([]response.DocumentCommentResponse, len(comments))
	for i, c := range comments {
		out[i] = response.CommentToResponse(c, users)
	}
	return out, nil
}

func (s *documentService) AddComment(ctx context.Context, actor Actor, id uuid.UUID, req *request.CommentRequest) (*response.DocumentCommentResponse, error) {
	doc, share, err := s.viewable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if doc.UserID != actor.ID && (share == nil || !share.PermissionLevel.CanComment()) {
		return nil, forbidden("you do not have permission to comment on this document")
	}
	if req.IsInternal && !actor.IsLawyer() {
		return nil, forbidden("only lawyers can post internal comments")
	}

	comment := &entity.DocumentComment{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.now()},
		DocumentID: doc.ID,
		UserID:     actor.ID,
		Comment:    req.Comment,
		IsInternal: req.IsInternal,
	}
	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	users := map[uuid.UUID]*entity.User{}
	if me, err := s.repo.User.FindByID(ctx, actor.ID); err == nil && me != nil {
		users[actor.ID] = me
	}
	resp := response.CommentToResponse(comment, users)
	return &resp, nil
}

func (s *documentService) toResponse(ctx context.Context, doc *entity.Document) *response.DocumentResponse {
	owner, err := s.repo.User.FindByID(ctx, doc.UserID)
	if err != nil {
		s.log.Warn("Failed to load document owner", zap.Error(err), zap.String("document_id", doc.ID.String()))
	}
	resp := response.DocumentToResponse(doc, owner)
	return &resp
}
