package adaptor

import (
	"net/http"
	"strings"

	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type DocumentHandler struct {
	service     usecase.DocumentService
	maxUploadMB int64
	log         *zap.Logger
}

func NewDocumentHandler(service usecase.DocumentService, maxUploadMB int64, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:     service,
		maxUploadMB: maxUploadMB,
		log:         log.With(zap.String("handler", "document")),
	}
}

// Upload handles POST /api/documents/upload (multipart: file, title, description, document_type, privacy_level)
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	file, filename, ok := formFile(w, r, "file", h.maxUploadMB)
	if !ok {
		return
	}
	defer file.Close()

	req := request.UploadDocumentRequest{
		Title:        strings.TrimSpace(r.FormValue("title")),
		DocumentType: r.FormValue("document_type"),
		PrivacyLevel: r.FormValue("privacy_level"),
	}
	if desc := strings.TrimSpace(r.FormValue("description")); desc != "" {
		req.Description = &desc
	}
	if !validate(w, req) {
		return
	}

	doc, err := h.service.Upload(r.Context(), userID, &req, file, filename)
	if err != nil {
		handleServiceError(w, h.log, err, "upload document")
		return
	}

	utils.ResponseCreated(w, "Document uploaded successfully", doc)
}

// List handles GET /api/documents?document_type=
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	req := request.DocumentListRequest{
		PaginatedRequest: pagination(r),
		DocumentType:     r.URL.Query().Get("document_type"),
	}
	docs, err := h.service.List(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list documents")
		return
	}

	utils.ResponseSuccess(w, "Documents retrieved successfully", docs)
}

// ListShared handles GET /api/documents/shared
func (h *DocumentHandler) ListShared(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	page := pagination(r)
	docs, err := h.service.ListShared(r.Context(), userID, &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list shared documents")
		return
	}

	utils.ResponseSuccess(w, "Shared documents retrieved successfully", docs)
}

// Types handles GET /api/documents/types
func (h *DocumentHandler) Types(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "Document types retrieved successfully", h.service.Types())
}

// Get handles GET /api/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get document")
		return
	}

	utils.ResponseSuccess(w, "Document retrieved successfully", doc)
}

// Update handles PUT /api/documents/{id}
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.service.Update(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update document")
		return
	}

	utils.ResponseSuccess(w, "Document updated successfully", doc)
}

// Delete handles DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		handleServiceError(w, h.log, err, "delete document")
		return
	}

	utils.ResponseSuccess(w, "Document deleted successfully", nil)
}

// Analyze handles POST /api/documents/{id}/analyze
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.Analyze(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "analyze document")
		return
	}

	utils.ResponseSuccess(w, "Document analyzed successfully", result)
}

// GetAnalysis handles GET /api/documents/{id}/analysis
func (h *DocumentHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	analysis, err := h.service.GetAnalysis(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get document analysis")
		return
	}

	utils.ResponseSuccess(w, "Analysis retrieved successfully", analysis)
}

// Share handles POST /api/documents/{id}/share
func (h *DocumentHandler) Share(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.ShareDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	share, err := h.service.Share(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "share document")
		return
	}

	utils.ResponseCreated(w, "Document shared successfully", share)
}

// ListShares handles GET /api/documents/{id}/shares
func (h *DocumentHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	shares, err := h.service.ListShares(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "list document shares")
		return
	}

	utils.ResponseSuccess(w, "Shares retrieved successfully", shares)
}

// RevokeShare handles DELETE /api/documents/{id}/shares/{shareId}
func (h *DocumentHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	shareID, ok := idParam(w, r, "shareId")
	if !ok {
		return
	}

	if err := h.service.RevokeShare(r.Context(), actor, id, shareID); err != nil {
		handleServiceError(w, h.log, err, "revoke document share")
		return
	}

	utils.ResponseSuccess(w, "Share revoked successfully", nil)
}

// ListComments handles GET /api/documents/{id}/comments
func (h *DocumentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.service.ListComments(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "Comments retrieved successfully", comments)
}

// AddComment handles POST /api/documents/{id}/comments
func (h *DocumentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentActor(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add comment")
		return
	}

	utils.ResponseCreated(w, "Comment added", comment)
}
