package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/internal/dto/response"
	"legal-marketplace/pkg/cache"
	"legal-marketplace/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	dateLayout             = "2006-01-02"
	defaultDurationMinutes = 60
)

type AppointmentService interface {
	Create(ctx context.Context, userID uuid.UUID, req *request.CreateAppointmentRequest) (*response.AppointmentResponse, error)
	List(ctx context.Context, userID uuid.UUID, req *request.AppointmentListRequest) (*response.PaginatedResponse[response.AppointmentResponse], error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*response.AppointmentResponse, error)

	// Lifecycle
	Confirm(ctx context.Context, actor Actor, id uuid.UUID, req *request.ConfirmAppointmentRequest) (*response.AppointmentResponse, error)
	Complete(ctx context.Context, actor Actor, id uuid.UUID, req *request.CompleteAppointmentRequest) (*response.AppointmentResponse, error)
	MarkNoShow(ctx context.Context, actor Actor, id uuid.UUID) (*response.AppointmentResponse, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID, req *request.CancelAppointmentRequest) (*response.AppointmentResponse, error)
	RecordPayment(ctx context.Context, actor Actor, id uuid.UUID, req *request.PaymentRequest) (*response.AppointmentResponse, error)

	// Reschedule
	RequestReschedule(ctx context.Context, actor Actor, id uuid.UUID, req *request.CreateRescheduleRequest) (*response.RescheduleResponse, error)
	ListRescheduleRequests(ctx context.Context, actor Actor, id uuid.UUID) ([]response.RescheduleResponse, error)
	RespondReschedule(ctx context.Context, actor Actor, requestID uuid.UUID, req *request.RespondRescheduleRequest) (*response.RescheduleResponse, error)

	// Feedback
	GetFeedback(ctx context.Context, actor Actor, id uuid.UUID) (*response.FeedbackResponse, error)
	SubmitFeedback(ctx context.Context, actor Actor, id uuid.UUID, req *request.FeedbackRequest) (*response.FeedbackResponse, error)
}

type appointmentService struct {
	repo   *repository.Repository
	events events.Publisher
	cache  cache.Cache
	loc    *time.Location
	log    *zap.Logger
	now    func() time.Time
}

func NewAppointmentService(repo *repository.Repository, pub events.Publisher, c cache.Cache, loc *time.Location, log *zap.Logger) AppointmentService {
	return &appointmentService{
		repo:   repo,
		events: pub,
		cache:  c,
		loc:    loc,
		log:    log.With(zap.String("service", "appointment")),
		now:    time.Now,
	}
}

// parseDate reads a calendar date; the result is midnight UTC so it maps 1:1 onto a DATE column
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// today is the current calendar date in loc, normalized like parseDate
func today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *appointmentService) Create(ctx context.Context, userID uuid.UUID, req *request.CreateAppointmentRequest) (*response.AppointmentResponse, error) {
	lawyerID, err := uuid.Parse(req.LawyerID)
	if err != nil {
		return nil, invalid("invalid lawyer id")
	}
	if lawyerID == userID {
		return nil, invalid("you cannot book an appointment with yourself")
	}

	date, err := parseDate(req.RequestedDate)
	if err != nil {
		return nil, invalid("invalid requested_date")
	}
	clock, err := entity.ParseClock(req.RequestedTime)
	if err != nil {
		return nil, invalid("invalid requested_time")
	}
	now := s.now()
	if date.Before(today(now, s.loc)) {
		return nil, invalid("requested_date cannot be in the past")
	}

	// The lawyer must hold an approved profile
	lawyer, err := s.repo.User.FindByID(ctx, lawyerID)
	if err != nil {
		s.log.Error("Failed to find lawyer", zap.Error(err), zap.String("lawyer_id", lawyerID.String()))
		return nil, fmt.Errorf("find lawyer: %w", err)
	}
	if lawyer == nil || !lawyer.IsLawyer() || !lawyer.IsActive {
		return nil, notFound("lawyer")
	}
	profile, err := s.repo.Lawyer.FindByUserID(ctx, lawyerID)
	if err != nil {
		return nil, fmt.Errorf("find lawyer profile: %w", err)
	}
	if profile == nil || profile.Status != entity.LawyerApproved {
		return nil, forbidden("lawyer is not accepting appointments")
	}

	appt := &entity.Appointment{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		UserID:          userID,
		LawyerID:        lawyerID,
		Title:           req.Title,
		Description:     req.Description,
		AppointmentType: entity.TypeConsultation,
		MeetingType:     entity.MeetingVideoCall,
		RequestedDate:   date,
		RequestedTime:   clock,
		DurationMinutes: defaultDurationMinutes,
		Status:          entity.AppointmentPending,
		Priority:        entity.PriorityNormal,
		ConsultationFee: profile.ConsultationFee,
	}
	if req.AppointmentType != "" {
		appt.AppointmentType = entity.AppointmentType(req.AppointmentType)
	}
	if req.MeetingType != "" {
		appt.MeetingType = entity.MeetingType(req.MeetingType)
	}
	if req.DurationMinutes > 0 {
		appt.DurationMinutes = req.DurationMinutes
	}
	if req.Priority != "" {
		appt.Priority = entity.Priority(req.Priority)
	}

	if err := s.repo.Appointment.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info("Appointment requested",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("lawyer_id", lawyerID.String()),
		zap.String("date", req.RequestedDate),
	)
	s.emit(ctx, events.AppointmentRequested, appt)

	return s.toResponse(ctx, appt), nil
}

func (s *appointmentService) List(ctx context.Context, userID uuid.UUID, req *request.AppointmentListRequest) (*response.PaginatedResponse[response.AppointmentResponse], error) {
	appts, total, err := s.repo.Appointment.List(ctx, repository.AppointmentFilter{
		ParticipantID: userID,
		As:            req.As,
		Status:        entity.AppointmentStatus(req.Status),
		Limit:         req.Limit(),
		Offset:        req.Offset(),
	})
	if err != nil {
		s.log.Error("Failed to list appointments", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(appts)*2)
	for _, a := range appts {
		ids = append(ids, a.UserID, a.LawyerID)
	}
	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	data := make([]response.AppointmentResponse, len(appts))
	for i, a := range appts {
		data[i] = response.AppointmentToResponse(a, users)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// find loads an appointment visible to actor
func (s *appointmentService) find(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Appointment, error) {
	appt, err := s.repo.Appointment.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find appointment", zap.Error(err), zap.String("appointment_id", id.String()))
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if appt == nil {
		return nil, notFound("appointment")
	}
	if !appt.IsParticipant(actor.ID) && !actor.IsAdmin() {
		return nil, forbidden("you are not a participant of this appointment")
	}
	return appt, nil
}

func (s *appointmentService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*response.AppointmentResponse, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, appt), nil
}

// findAsLawyer loads an appointment the actor is the lawyer of
func (s *appointmentService) findAsLawyer(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Appointment, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if appt.LawyerID != actor.ID {
		return nil, forbidden("only the lawyer can do this")
	}
	return appt, nil
}

// move applies next to appt, persists it guarded on the previous status and emits eventType
func (s *appointmentService) move(ctx context.Context, appt *entity.Appointment, next entity.AppointmentStatus, eventType string) error {
	from := appt.Status
	if !from.CanTransitionTo(next) {
		return newError(ErrInvalidTransition, "cannot move appointment from %s to %s", from, next)
	}
	appt.Status = next
	appt.Touch(s.now())

	if err := s.repo.Appointment.UpdateState(ctx, appt, from); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return conflict("appointment was changed by someone else")
		}
		return fmt.Errorf("update appointment: %w", err)
	}

	s.log.Info("Appointment status changed",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)
	s.emit(ctx, eventType, appt)
	return nil
}

func (s *appointmentService) Confirm(ctx context.Context, actor Actor, id uuid.UUID, req *request.ConfirmAppointmentRequest) (*response.AppointmentResponse, error) {
	appt, err := s.findAsLawyer(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	date := appt.RequestedDate
	if req.ConfirmedDate != nil {
		if date, err = parseDate(*req.ConfirmedDate); err != nil {
			return nil, invalid("invalid confirmed_date")
		}
	}
	clock := appt.RequestedTime
	if req.ConfirmedTime != nil {
		if clock, err = entity.ParseClock(*req.ConfirmedTime); err != nil {
			return nil, invalid("invalid confirmed_time")
		}
	}
	appt.ConfirmedDate = &date
	appt.ConfirmedTime = &clock
	if req.MeetingLink != nil {
		appt.MeetingLink = req.MeetingLink
	}
	if req.MeetingLocation != nil {
		appt.MeetingLocation = req.MeetingLocation
	}

	if err := s.move(ctx, appt, entity.AppointmentConfirmed, events.AppointmentConfirmed); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, appt), nil
}

func (s *appointmentService) Complete(ctx context.Context, actor Actor, id uuid.UUID, req *request.CompleteAppointmentRequest) (*response.AppointmentResponse, error) {
	appt, err := s.findAsLawyer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.MeetingNotes != nil {
		appt.MeetingNotes = req.MeetingNotes
	}

	if err := s.move(ctx, appt, entity.AppointmentCompleted, events.AppointmentCompleted); err != nil {
		return nil, err
	}

	if err := s.repo.Lawyer.IncrementConsultations(ctx, appt.LawyerID); err != nil {
		s.log.Warn("Failed to bump consultation count", zap.Error(err), zap.String("lawyer_id", appt.LawyerID.String()))
	} else {
		dropLawyerDetailOf(ctx, s.repo, s.cache, s.log, appt.LawyerID)
	}
	return s.toResponse(ctx, appt), nil
}

func (s *appointmentService) MarkNoShow(ctx context.Context, actor Actor, id uuid.UUID) (*response.AppointmentResponse, error) {
	appt, err := s.findAsLawyer(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.move(ctx, appt, entity.AppointmentNoShow, events.AppointmentNoShow); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, appt), nil
}

func (s *appointmentService) Cancel(ctx context.Context, actor Actor, id uuid.UUID, req *request.CancelAppointmentRequest) (*response.AppointmentResponse, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsParticipant(actor.ID) {
		return nil, forbidden("only participants can cancel an appointment")
	}

	now := s.now()
	appt.CancellationReason = &req.Reason
	appt.CancelledBy = &actor.ID
	appt.CancelledAt = &now

	if err := s.move(ctx, appt, entity.AppointmentCancelled, events.AppointmentCancelled); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, appt), nil
}

func (s *appointmentService) RecordPayment(ctx context.Context, actor Actor, id uuid.UUID, req *request.PaymentRequest) (*response.AppointmentResponse, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if appt.LawyerID != actor.ID && !actor.IsAdmin() {
		return nil, forbidden("only the lawyer or an admin can record payment")
	}
	if appt.Status == entity.AppointmentCancelled {
		return nil, newError(ErrInvalidTransition, "cannot record payment on a cancelled appointment")
	}
	if appt.IsPaid {
		return nil, conflict("appointment is already paid")
	}

	appt.IsPaid = true
	appt.PaymentReference = &req.PaymentReference
	appt.Touch(s.now())

	if err := s.repo.Appointment.UpdateState(ctx, appt, appt.Status); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, conflict("appointment was changed by someone else")
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}

	s.log.Info("Appointment payment recorded", zap.String("appointment_id", appt.ID.String()))
	return s.toResponse(ctx, appt), nil
}

func (s *appointmentService) RequestReschedule(ctx context.Context, actor Actor, id uuid.UUID, req *request.CreateRescheduleRequest) (*response.RescheduleResponse, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsParticipant(actor.ID) {
		return nil, forbidden("only participants can reschedule an appointment")
	}
	if !appt.Status.CanTransitionTo(entity.AppointmentRescheduled) {
		return nil, newError(ErrInvalidTransition, "cannot reschedule a %s appointment", appt.Status)
	}

	date, err := parseDate(req.NewDate)
	if err != nil {
		return nil, invalid("invalid new_date")
	}
	clock, err := entity.ParseClock(req.NewTime)
	if err != nil {
		return nil, invalid("invalid new_time")
	}
	if date.Before(today(s.now(), s.loc)) {
		return nil, invalid("new_date cannot be in the past")
	}

	rr := &entity.RescheduleRequest{
		BaseSimple:       entity.NewBaseSimple(s.now()),
		AppointmentID:    appt.ID,
		RequestedBy:      actor.ID,
		NewRequestedDate: date,
		NewRequestedTime: clock,
		Reason:           req.Reason,
		Status:           entity.ReschedulePending,
	}

	if err := s.repo.Reschedule.Create(ctx, rr); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("a reschedule request is already pending for this appointment")
		}
		return nil, fmt.Errorf("create reschedule request: %w", err)
	}

	s.log.Info("Reschedule requested",
		zap.String("request_id", rr.ID.String()),
		zap.String("appointment_id", appt.ID.String()),
		zap.String("requested_by", actor.ID.String()),
	)

	resp := response.RescheduleToResponse(rr)
	return &resp, nil
}

func (s *appointmentService) ListRescheduleRequests(ctx context.Context, actor Actor, id uuid.UUID) ([]response.RescheduleResponse, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Reschedule.ListByAppointment(ctx, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("list reschedule requests: %w", err)
	}

	out := make([]response.RescheduleResponse, len(items))
	for i, rr := range items {
		out[i] = response.RescheduleToResponse(rr)
	}
	return out, nil
}

func (s *appointmentService) RespondReschedule(ctx context.Context, actor Actor, requestID uuid.UUID, req *request.RespondRescheduleRequest) (*response.RescheduleResponse, error) {
	rr, err := s.repo.Reschedule.FindByID(ctx, requestID)
	if err != nil {
		s.log.Error("Failed to find reschedule request", zap.Error(err), zap.String("request_id", requestID.String()))
		return nil, fmt.Errorf("find reschedule request: %w", err)
	}
	if rr == nil {
		return nil, notFound("reschedule request")
	}

	appt, err := s.find(ctx, actor, rr.AppointmentID)
	if err != nil {
		return nil, err
	}
	// the proposer cannot answer their own request
	if !appt.IsParticipant(actor.ID) || rr.RequestedBy == actor.ID {
		return nil, forbidden("only the other participant can respond to this request")
	}
	if rr.Status != entity.ReschedulePending {
		return nil, conflict("reschedule request was already %s", rr.Status)
	}

	now := s.now()
	rr.ResponseMessage = req.ResponseMessage
	rr.RespondedBy = &actor.ID
	rr.RespondedAt = &now

	if req.Action == "reject" {
		rr.Status = entity.RescheduleRejected
		if err := s.repo.Reschedule.Reject(ctx, rr); err != nil {
			if errors.Is(err, repository.ErrStale) {
				return nil, conflict("reschedule request was already answered")
			}
			return nil, fmt.Errorf("reject reschedule request: %w", err)
		}
		s.log.Info("Reschedule rejected", zap.String("request_id", rr.ID.String()))

		resp := response.RescheduleToResponse(rr)
		return &resp, nil
	}

	from := appt.Status
	if !from.CanTransitionTo(entity.AppointmentRescheduled) {
		return nil, newError(ErrInvalidTransition, "cannot reschedule a %s appointment", from)
	}
	rr.Status = entity.RescheduleApproved
	date, clock := rr.NewRequestedDate, rr.NewRequestedTime
	appt.ConfirmedDate = &date
	appt.ConfirmedTime = &clock
	appt.Status = entity.AppointmentRescheduled
	// reminders for the old slot do not cover the new one
	appt.ReminderSentToUser, appt.ReminderSentToLawyer = false, false
	appt.Touch(now)

	if err := s.repo.Reschedule.Approve(ctx, rr, appt, from); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, conflict("appointment or request was changed by someone else")
		}
		return nil, fmt.Errorf("approve reschedule request: %w", err)
	}

	s.log.Info("Reschedule approved",
		zap.String("request_id", rr.ID.String()),
		zap.String("appointment_id", appt.ID.String()),
	)
	s.emit(ctx, events.AppointmentRescheduled, appt)

	resp := response.RescheduleToResponse(rr)
	return &resp, nil
}

func (s *appointmentService) GetFeedback(ctx context.Context, actor Actor, id uuid.UUID) (*response.FeedbackResponse, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fb, err := s.repo.Feedback.FindByAppointment(ctx, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	if fb == nil {
		return nil, notFound("feedback")
	}

	resp := response.FeedbackToResponse(fb)
	return &resp, nil
}

func (s *appointmentService) SubmitFeedback(ctx context.Context, actor Actor, id uuid.UUID, req *request.FeedbackRequest) (*response.FeedbackResponse, error) {
	appt, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !appt.IsParticipant(actor.ID) {
		return nil, forbidden("only participants can leave feedback")
	}
	if appt.Status != entity.AppointmentCompleted {
		return nil, newError(ErrInvalidTransition, "feedback is only accepted for completed appointments")
	}

	fb, err := s.repo.Feedback.FindByAppointment(ctx, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	if fb == nil {
		fb = &entity.AppointmentFeedback{
			BaseSimple:    entity.NewBaseSimple(s.now()),
			AppointmentID: appt.ID,
		}
	}
	applyFeedback(fb, req, appt.LawyerID == actor.ID)

	if err := s.repo.Feedback.Save(ctx, fb); err != nil {
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	s.log.Info("Appointment feedback saved",
		zap.String("appointment_id", appt.ID.String()),
		zap.Bool("from_lawyer", appt.LawyerID == actor.ID),
	)

	resp := response.FeedbackToResponse(fb)
	return &resp, nil
}

// applyFeedback writes the caller's half; nil request fields keep their stored value
func applyFeedback(fb *entity.AppointmentFeedback, req *request.FeedbackRequest, fromLawyer bool) {
	if fromLawyer {
		if req.Rating != nil {
			fb.LawyerRating = req.Rating
		}
		if req.Feedback != nil {
			fb.LawyerFeedback = req.Feedback
		}
	} else {
		if req.Rating != nil {
			fb.UserRating = req.Rating
		}
		if req.Feedback != nil {
			fb.UserFeedback = req.Feedback
		}
		if req.WouldRecommend != nil {
			fb.UserWouldRecommend = req.WouldRecommend
		}
	}

	if req.MeetingQuality != nil {
		q := entity.MeetingQuality(*req.MeetingQuality)
		fb.MeetingQuality = &q
	}
	if req.TechnicalIssues != nil {
		fb.TechnicalIssues = *req.TechnicalIssues
	}
	if req.TechnicalIssuesDescription != nil {
		fb.TechnicalIssuesDescription = req.TechnicalIssuesDescription
	}
}

func (s *appointmentService) toResponse(ctx context.Context, appt *entity.Appointment) *response.AppointmentResponse {
	users, err := s.repo.User.FindByIDs(ctx, []uuid.UUID{appt.UserID, appt.LawyerID})
	if err != nil {
		s.log.Warn("Failed to load participants", zap.Error(err), zap.String("appointment_id", appt.ID.String()))
	}
	resp := response.AppointmentToResponse(appt, users)
	return &resp
}

func (s *appointmentService) emit(ctx context.Context, eventType string, appt *entity.Appointment) {
	publish(ctx, s.events, s.log, events.New(eventType, appt.ID.String(), map[string]any{
		"appointment_id": appt.ID,
		"user_id":        appt.UserID,
		"lawyer_id":      appt.LawyerID,
		"status":         appt.Status,
		"date":           appt.ScheduledDate().Format(dateLayout),
		"time":           appt.ScheduledTime().String(),
	}))
}
