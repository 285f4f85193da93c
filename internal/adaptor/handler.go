package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/http"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Lawyer       *LawyerHandler
	Appointment  *AppointmentHandler
	Availability *AvailabilityHandler
	Chat         *ChatHandler
	Document     *DocumentHandler
}

func NewHandler(service *usecase.Service, maxUploadMB int64, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, maxUploadMB, log),
		Lawyer:       NewLawyerHandler(service.Lawyer, service.Rating, maxUploadMB, log),
		Appointment:  NewAppointmentHandler(service.Appointment, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Chat:         NewChatHandler(service.Chat, service.Conversation, log),
		Document:     NewDocumentHandler(service.Document, maxUploadMB, log),
	}
}

// handleServiceError maps usecase error kinds to HTTP statuses
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var svcErr *usecase.Error
	message := "Internal server error"
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrInvalidInput):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, message, nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, message)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)

	case errors.Is(err, usecase.ErrConflict), errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message)

	case errors.Is(err, usecase.ErrUpstream):
		log.Error(operation+" failed - upstream", zap.Error(err))
		utils.ResponseBadGateway(w, message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeJSON reads and validates the request body into dst, writing the 400 itself on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return validate(w, dst)
}

func validate(w http.ResponseWriter, v any) bool {
	if validationErrors := utils.ValidateStruct(v); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed: "+utils.FormatValidationErrors(validationErrors), validationErrors)
		return false
	}
	return true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}

func currentActor(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return usecase.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{ID: userID, Role: entity.UserRole(role)}, true
}

// idParam parses the named URL parameter as a UUID
func idParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func pagination(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.NewPaginatedRequest(
		utils.ParseInt(query.Get("page"), 1),
		utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	)
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return usecase.ClientInfo{UserAgent: r.UserAgent(), IP: ip}
}

// formFile reads the named multipart file part, bounded by maxUploadMB plus form overhead.
// The caller must close the returned file.
func formFile(w http.ResponseWriter, r *http.Request, field string, maxUploadMB int64) (multipart.File, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, (maxUploadMB+1)<<20)
	if err := r.ParseMultipartForm(maxUploadMB << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseTooLarge(w, fmt.Sprintf("Upload exceeds %d MB", maxUploadMB))
			return nil, "", false
		}
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		utils.ResponseBadRequest(w, "Missing file field: "+field, nil)
		return nil, "", false
	}
	return file, header.Filename, true
}
