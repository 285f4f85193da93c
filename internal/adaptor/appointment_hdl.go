package adaptor

import (
	"net/http"

	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	service usecase.AppointmentService
	log     *zap.Logger
}

func NewAppointmentHandler(service usecase.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
		log:     log.With(zap.String("handler", "appointment")),
	}
}

// Create handles POST /api/appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req request.CreateAppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create appointment")
		return
	}

	utils.ResponseCreated(w, "Appointment requested successfully", appt)
}

// List handles GET /api/appointments?status=&as=
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.AppointmentListRequest{
		PaginatedRequest: pagination(r),
		Status:           query.Get("status"),
		As:               query.Get("as"),
	}
	if !validate(w, req) {
		return
	}

	appts, err := h.service.List(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list appointments")
		return
	}

	utils.ResponseSuccess(w, "Appointments retrieved successfully", appts)
}

// Get handles GET /api/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	appt, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get appointment")
		return
	}

	utils.ResponseSuccess(w, "Appointment retrieved successfully", appt)
}

// target resolves the caller and the {id} URL parameter
func (h *AppointmentHandler) target(w http.ResponseWriter, r *http.Request) (usecase.Actor, uuid.UUID, bool) {
	actor, ok := currentActor(w, r)
	if !ok {
		return actor, uuid.Nil, false
	}
	id, ok := idParam(w, r, "id")
	return actor, id, ok
}

// respond writes the outcome of a status change
func (h *AppointmentHandler) respond(w http.ResponseWriter, appt *response.AppointmentResponse, err error, operation, message string) {
	if err != nil {
		handleServiceError(w, h.log, err, operation)
		return
	}
	utils.ResponseSuccess(w, message, appt)
}

// Confirm handles POST /api/appointments/{id}/confirm
func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req request.ConfirmAppointmentRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.service.Confirm(r.Context(), actor, id, &req)
	h.respond(w, appt, err, "confirm appointment", "Appointment confirmed")
}

// Complete handles POST /api/appointments/{id}/complete
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req request.CompleteAppointmentRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.service.Complete(r.Context(), actor, id, &req)
	h.respond(w, appt, err, "complete appointment", "Appointment completed")
}

// NoShow handles POST /api/appointments/{id}/no-show
func (h *AppointmentHandler) NoShow(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	appt, err := h.service.MarkNoShow(r.Context(), actor, id)
	h.respond(w, appt, err, "mark no-show", "Appointment marked as no-show")
}

// Cancel handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req request.CancelAppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.service.Cancel(r.Context(), actor, id, &req)
	h.respond(w, appt, err, "cancel appointment", "Appointment cancelled")
}

// RecordPayment handles POST /api/appointments/{id}/payment
func (h *AppointmentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req request.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.service.RecordPayment(r.Context(), actor, id, &req)
	h.respond(w, appt, err, "record payment", "Payment recorded")
}

// RequestReschedule handles POST /api/appointments/{id}/reschedule
func (h *AppointmentHandler) RequestReschedule(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req request.CreateRescheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rr, err := h.service.RequestReschedule(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "request reschedule")
		return
	}

	utils.ResponseCreated(w, "Reschedule requested", rr)
}

// ListRescheduleRequests handles GET /api/appointments/{id}/reschedule-requests
func (h *AppointmentHandler) ListRescheduleRequests(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListRescheduleRequests(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "list reschedule requests")
		return
	}

	utils.ResponseSuccess(w, "Reschedule requests retrieved successfully", items)
}

// RespondReschedule handles POST /api/appointments/reschedule-requests/{id}/respond
func (h *AppointmentHandler) RespondReschedule(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req request.RespondRescheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rr, err := h.service.RespondReschedule(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "respond to reschedule")
		return
	}

	utils.ResponseSuccess(w, "Reschedule request "+string(rr.Status), rr)
}

// GetFeedback handles GET /api/appointments/{id}/feedback
func (h *AppointmentHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	fb, err := h.service.GetFeedback(r.Context(), actor, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get feedback")
		return
	}

	utils.ResponseSuccess(w, "Feedback retrieved successfully", fb)
}

// SubmitFeedback handles POST /api/appointments/{id}/feedback
func (h *AppointmentHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req request.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fb, err := h.service.SubmitFeedback(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "submit feedback")
		return
	}

	utils.ResponseSuccess(w, "Feedback saved successfully", fb)
}
