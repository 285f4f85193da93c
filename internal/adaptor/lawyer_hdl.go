package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LawyerHandler struct {
	service     usecase.LawyerService
	ratings     usecase.RatingService
	maxUploadMB int64
	log         *zap.Logger
}

func NewLawyerHandler(service usecase.LawyerService, ratings usecase.RatingService, maxUploadMB int64, log *zap.Logger) *LawyerHandler {
	return &LawyerHandler{
		service:     service,
		ratings:     ratings,
		maxUploadMB: maxUploadMB,
		log:         log.With(zap.String("handler", "lawyer")),
	}
}

// CreateProfile handles POST /api/lawyers/profile/create
func (h *LawyerHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.CreateLawyerProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create lawyer profile")
		return
	}

	utils.ResponseCreated(w, "Lawyer profile submitted for verification", profile)
}

// GetOwnProfile handles GET /api/lawyers/profile
func (h *LawyerHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetOwnProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get lawyer profile")
		return
	}

	utils.ResponseSuccess(w, "Lawyer profile retrieved successfully", profile)
}

// UpdateOwnProfile handles PUT /api/lawyers/profile
func (h *LawyerHandler) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.UpdateLawyerProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateOwnProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update lawyer profile")
		return
	}

	utils.ResponseSuccess(w, "Lawyer profile updated successfully", profile)
}

// UploadDocument handles POST /api/lawyers/profile/uploads/{kind} (multipart field "file")
func (h *LawyerHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	kind := entity.DocumentKind(chi.URLParam(r, "kind"))
	if !kind.IsValid() {
		utils.ResponseBadRequest(w, "Unknown upload kind", nil)
		return
	}

	file, filename, ok := formFile(w, r, "file", h.maxUploadMB)
	if !ok {
		return
	}
	defer file.Close()

	profile, err := h.service.UploadVerificationDocument(r.Context(), userID, kind, file, filename)
	if err != nil {
		handleServiceError(w, h.log, err, "upload verification document")
		return
	}

	utils.ResponseSuccess(w, "Document uploaded successfully", profile)
}

// ListPublic handles GET /api/lawyers/public
func (h *LawyerHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.LawyerListRequest{
		PaginatedRequest: pagination(r),
		Specialization:   query.Get("specialization"),
		MaxFee:           utils.ParseFloat(query.Get("max_fee")),
		Language:         query.Get("language"),
		City:             query.Get("city"),
		Search:           strings.TrimSpace(query.Get("search")),
	}
	if v := query.Get("min_experience"); v != "" {
		if years, err := strconv.Atoi(v); err == nil && years >= 0 {
			req.MinExperience = &years
		}
	}
	if v := query.Get("ordering"); v != "" {
		for _, field := range strings.Split(v, ",") {
			if field = strings.TrimSpace(field); field != "" {
				req.Ordering = append(req.Ordering, field)
			}
		}
	}

	lawyers, err := h.service.ListPublic(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list lawyers")
		return
	}

	utils.ResponseSuccess(w, "Lawyers retrieved successfully", lawyers)
}

// GetPublic handles GET /api/lawyers/{id}
func (h *LawyerHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	lawyer, err := h.service.GetPublic(r.Context(), lawyerID)
	if err != nil {
		handleServiceError(w, h.log, err, "get lawyer")
		return
	}

	utils.ResponseSuccess(w, "Lawyer retrieved successfully", lawyer)
}

// Specializations handles GET /api/lawyers/specializations
func (h *LawyerHandler) Specializations(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "Specializations retrieved successfully", h.service.Specializations())
}

// Rate handles POST /api/lawyers/rate
func (h *LawyerHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.RateLawyerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.ratings.Rate(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "rate lawyer")
		return
	}

	utils.ResponseCreated(w, "Rating submitted successfully", result)
}

// UpdateRating handles PUT /api/lawyers/ratings/{id}
func (h *LawyerHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	ratingID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateRatingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.ratings.Update(r.Context(), ratingID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update rating")
		return
	}

	utils.ResponseSuccess(w, "Rating updated successfully", result)
}

// DeleteRating handles DELETE /api/lawyers/ratings/{id}
func (h *LawyerHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	ratingID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	result, err := h.ratings.Delete(r.Context(), ratingID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "delete rating")
		return
	}

	utils.ResponseSuccess(w, "Rating deleted successfully", result)
}

// ListRatings handles GET /api/lawyers/{id}/ratings
func (h *LawyerHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	page := pagination(r)
	ratings, err := h.ratings.ListByLawyer(r.Context(), lawyerID, &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list ratings")
		return
	}

	utils.ResponseSuccess(w, "Ratings retrieved successfully", ratings)
}

// ListPending handles GET /api/lawyers/pending (admin only)
func (h *LawyerHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page := pagination(r)
	lawyers, err := h.service.ListPending(r.Context(), &page)
	if err != nil {
		handleServiceError(w, h.log, err, "list pending lawyers")
		return
	}

	utils.ResponseSuccess(w, "Pending lawyers retrieved successfully", lawyers)
}

// Decide handles POST /api/lawyers/{id}/approve (admin only)
func (h *LawyerHandler) Decide(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	lawyerID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.LawyerDecisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.Decide(r.Context(), adminID, lawyerID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "decide lawyer verification")
		return
	}

	utils.ResponseSuccess(w, "Lawyer "+req.Action+"d successfully", profile)
}

// Suspend handles POST /api/lawyers/{id}/suspend (admin only)
func (h *LawyerHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	lawyerID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	// the body is optional
	var req struct {
		Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
		if !validate(w, req) {
			return
		}
	}

	profile, err := h.service.Suspend(r.Context(), adminID, lawyerID, req.Reason)
	if err != nil {
		handleServiceError(w, h.log, err, "suspend lawyer")
		return
	}

	utils.ResponseSuccess(w, "Lawyer suspended successfully", profile)
}

// Reinstate handles POST /api/lawyers/{id}/reinstate (admin only)
func (h *LawyerHandler) Reinstate(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	lawyerID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.service.Reinstate(r.Context(), adminID, lawyerID)
	if err != nil {
		handleServiceError(w, h.log, err, "reinstate lawyer")
		return
	}

	utils.ResponseSuccess(w, "Lawyer reinstated successfully", profile)
}
