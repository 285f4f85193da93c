package response

import (
	"time"

	"legal-marketplace/internal/data/entity"

	"github.com/google/uuid"
)

type AppointmentResponse struct {
	ID                 string                   `json:"id"`
	UserID             string                   `json:"user_id"`
	LawyerID           string                   `json:"lawyer_id"`
	User               *PublicUser              `json:"user,omitempty"`
	Lawyer             *PublicUser              `json:"lawyer,omitempty"`
	Title              string                   `json:"title"`
	Description        string                   `json:"description"`
	AppointmentType    entity.AppointmentType   `json:"appointment_type"`
	MeetingType        entity.MeetingType       `json:"meeting_type"`
	RequestedDate      string                   `json:"requested_date"`
	RequestedTime      entity.Clock             `json:"requested_time"`
	ConfirmedDate      *string                  `json:"confirmed_date"`
	ConfirmedTime      *entity.Clock            `json:"confirmed_time"`
	DurationMinutes    int                      `json:"duration_minutes"`
	Status             entity.AppointmentStatus `json:"status"`
	Priority           entity.Priority          `json:"priority"`
	MeetingLink        *string                  `json:"meeting_link,omitempty"`
	MeetingLocation    *string                  `json:"meeting_location,omitempty"`
	MeetingNotes       *string                  `json:"meeting_notes,omitempty"`
	ConsultationFee    *float64                 `json:"consultation_fee,omitempty"`
	IsPaid             bool                     `json:"is_paid"`
	PaymentReference   *string                  `json:"payment_reference,omitempty"`
	CancellationReason *string                  `json:"cancellation_reason,omitempty"`
	CancelledBy        *string                  `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time               `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// AppointmentToResponse converts a; users resolves participant ids and may be nil
func AppointmentToResponse(a *entity.Appointment, users map[uuid.UUID]*entity.User) AppointmentResponse {
	resp := AppointmentResponse{
		ID:                 a.ID.String(),
		UserID:             a.UserID.String(),
		LawyerID:           a.LawyerID.String(),
		User:               ToPublicUser(users[a.UserID]),
		Lawyer:             ToPublicUser(users[a.LawyerID]),
		Title:              a.Title,
		Description:        a.Description,
		AppointmentType:    a.AppointmentType,
		MeetingType:        a.MeetingType,
		RequestedDate:      Date(a.RequestedDate),
		RequestedTime:      a.RequestedTime,
		ConfirmedDate:      DatePtr(a.ConfirmedDate),
		ConfirmedTime:      a.ConfirmedTime,
		DurationMinutes:    a.DurationMinutes,
		Status:             a.Status,
		Priority:           a.Priority,
		MeetingLink:        a.MeetingLink,
		MeetingLocation:    a.MeetingLocation,
		MeetingNotes:       a.MeetingNotes,
		ConsultationFee:    a.ConsultationFee,
		IsPaid:             a.IsPaid,
		PaymentReference:   a.PaymentReference,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
	if a.CancelledBy != nil {
		id := a.CancelledBy.String()
		resp.CancelledBy = &id
	}
	return resp
}

type RescheduleResponse struct {
	ID              string                  `json:"id"`
	AppointmentID   string                  `json:"appointment_id"`
	RequestedBy     string                  `json:"requested_by"`
	NewDate         string                  `json:"new_date"`
	NewTime         entity.Clock            `json:"new_time"`
	Reason          string                  `json:"reason"`
	Status          entity.RescheduleStatus `json:"status"`
	ResponseMessage *string                 `json:"response_message,omitempty"`
	RespondedBy     *string                 `json:"responded_by,omitempty"`
	RespondedAt     *time.Time              `json:"responded_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

func RescheduleToResponse(r *entity.RescheduleRequest) RescheduleResponse {
	resp := RescheduleResponse{
		ID:              r.ID.String(),
		AppointmentID:   r.AppointmentID.String(),
		RequestedBy:     r.RequestedBy.String(),
		NewDate:         Date(r.NewRequestedDate),
		NewTime:         r.NewRequestedTime,
		Reason:          r.Reason,
		Status:          r.Status,
		ResponseMessage: r.ResponseMessage,
		RespondedAt:     r.RespondedAt,
		CreatedAt:       r.CreatedAt,
	}
	if r.RespondedBy != nil {
		id := r.RespondedBy.String()
		resp.RespondedBy = &id
	}
	return resp
}

type FeedbackResponse struct {
	AppointmentID              string                 `json:"appointment_id"`
	UserRating                 *int                   `json:"user_rating,omitempty"`
	UserFeedback               *string                `json:"user_feedback,omitempty"`
	UserWouldRecommend         *bool                  `json:"user_would_recommend,omitempty"`
	LawyerRating               *int                   `json:"lawyer_rating,omitempty"`
	LawyerFeedback             *string                `json:"lawyer_feedback,omitempty"`
	MeetingQuality             *entity.MeetingQuality `json:"meeting_quality,omitempty"`
	TechnicalIssues            bool                   `json:"technical_issues"`
	TechnicalIssuesDescription *string                `json:"technical_issues_description,omitempty"`
	CreatedAt                  time.Time              `json:"created_at"`
}

func FeedbackToResponse(f *entity.AppointmentFeedback) FeedbackResponse {
	return FeedbackResponse{
		AppointmentID:              f.AppointmentID.String(),
		UserRating:                 f.UserRating,
		UserFeedback:               f.UserFeedback,
		UserWouldRecommend:         f.UserWouldRecommend,
		LawyerRating:               f.LawyerRating,
		LawyerFeedback:             f.LawyerFeedback,
		MeetingQuality:             f.MeetingQuality,
		TechnicalIssues:            f.TechnicalIssues,
		TechnicalIssuesDescription: f.TechnicalIssuesDescription,
		CreatedAt:                  f.CreatedAt,
	}
}

type AvailabilityResponse struct {
	ID             string        `json:"id"`
	LawyerID       string        `json:"lawyer_id"`
	Weekday        int           `json:"weekday"`
	WeekdayName    string        `json:"weekday_name"`
	StartTime      entity.Clock  `json:"start_time"`
	EndTime        entity.Clock  `json:"end_time"`
	IsAvailable    bool          `json:"is_available"`
	BreakStartTime *entity.Clock `json:"break_start_time,omitempty"`
	BreakEndTime   *entity.Clock `json:"break_end_time,omitempty"`
	SpecialDate    *string       `json:"special_date,omitempty"`
	IsHoliday      bool          `json:"is_holiday"`
}

func AvailabilityToResponse(a *entity.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:             a.ID.String(),
		LawyerID:       a.LawyerID.String(),
		Weekday:        a.Weekday,
		WeekdayName:    entity.WeekdayName(a.Weekday),
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		IsAvailable:    a.IsAvailable,
		BreakStartTime: a.BreakStartTime,
		BreakEndTime:   a.BreakEndTime,
		SpecialDate:    DatePtr(a.SpecialDate),
		IsHoliday:      a.IsHoliday,
	}
}

type SlotResponse struct {
	Start entity.Clock `json:"start"`
	End   entity.Clock `json:"end"`
}

type SlotsResponse struct {
	LawyerID string         `json:"lawyer_id"`
	Date     string         `json:"date"`
	Duration int            `json:"duration_minutes"`
	Slots    []SlotResponse `json:"slots"`
}
