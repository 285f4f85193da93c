package adaptor

import (
	"net/http"

	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/utils"

	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// ListOwn handles GET /api/appointments/availability
func (h *AvailabilityHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	rows, err := h.service.ListOwn(r.Context(), lawyerID)
	if err != nil {
		handleServiceError(w, h.log, err, "list availability")
		return
	}

	utils.ResponseSuccess(w, "Availability retrieved successfully", rows)
}

// Create handles POST /api/appointments/availability
func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.AvailabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	row, err := h.service.Create(r.Context(), lawyerID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create availability")
		return
	}

	utils.ResponseCreated(w, "Availability created successfully", row)
}

// Update handles PUT /api/appointments/availability/{id}
func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var req request.AvailabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	row, err := h.service.Update(r.Context(), lawyerID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update availability")
		return
	}

	utils.ResponseSuccess(w, "Availability updated successfully", row)
}

// Delete handles DELETE /api/appointments/availability/{id}
func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), lawyerID, id); err != nil {
		handleServiceError(w, h.log, err, "delete availability")
		return
	}

	utils.ResponseSuccess(w, "Availability deleted successfully", nil)
}

// ListForLawyer handles GET /api/appointments/lawyers/{lawyerId}/availability
func (h *AvailabilityHandler) ListForLawyer(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := idParam(w, r, "lawyerId")
	if !ok {
		return
	}

	rows, err := h.service.ListForLawyer(r.Context(), lawyerID)
	if err != nil {
		handleServiceError(w, h.log, err, "list lawyer availability")
		return
	}

	utils.ResponseSuccess(w, "Availability retrieved successfully", rows)
}

// Slots handles GET /api/appointments/lawyers/{lawyerId}/slots?date=&duration=
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request) {
	lawyerID, ok := idParam(w, r, "lawyerId")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.SlotsRequest{
		Date:     query.Get("date"),
		Duration: utils.ParseInt(query.Get("duration"), 0),
	}
	if !validate(w, req) {
		return
	}

	slots, err := h.service.Slots(r.Context(), lawyerID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "compute slots")
		return
	}

	utils.ResponseSuccess(w, "Slots retrieved successfully", slots)
}
