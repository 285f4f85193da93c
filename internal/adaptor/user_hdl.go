package adaptor

import (
	"net/http"

	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service     usecase.UserService
	maxUploadMB int64
	log         *zap.Logger
}

func NewUserHandler(service usecase.UserService, maxUploadMB int64, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service:     service,
		maxUploadMB: maxUploadMB,
		log:         log.With(zap.String("handler", "user")),
	}
}

// CurrentUser handles GET /api/auth/user
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get current user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// GetProfile handles GET /api/auth/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// UploadPicture handles POST /api/auth/profile/picture (multipart field "picture")
func (h *UserHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	file, filename, ok := formFile(w, r, "picture", h.maxUploadMB)
	if !ok {
		return
	}
	defer file.Close()

	profile, err := h.service.UploadProfilePicture(r.Context(), userID, file, filename)
	if err != nil {
		handleServiceError(w, h.log, err, "upload profile picture")
		return
	}

	utils.ResponseSuccess(w, "Profile picture updated", profile)
}

// GetDetails handles GET /api/auth/profile/details
func (h *UserHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	details, err := h.service.GetProfileDetails(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile details")
		return
	}

	utils.ResponseSuccess(w, "Profile details retrieved successfully", details)
}

// UpdateDetails handles PUT /api/auth/profile/details
func (h *UserHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.UpdateProfileDetailsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	details, err := h.service.UpdateProfileDetails(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile details")
		return
	}

	utils.ResponseSuccess(w, "Profile details updated successfully", details)
}
