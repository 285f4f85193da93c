package entity

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentPending     AppointmentStatus = "pending"
	AppointmentConfirmed   AppointmentStatus = "confirmed"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
	AppointmentNoShow      AppointmentStatus = "no_show"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentPending: {AppointmentConfirmed, AppointmentCancelled, AppointmentRescheduled},
	AppointmentConfirmed: {
		AppointmentCompleted, AppointmentCancelled, AppointmentNoShow, AppointmentRescheduled,
	},
	// a rescheduled appointment is a confirmed one at a new time
	AppointmentRescheduled: {
		AppointmentCompleted, AppointmentCancelled, AppointmentNoShow, AppointmentRescheduled,
	},
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted,
		AppointmentCancelled, AppointmentRescheduled, AppointmentNoShow:
		return true
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled || s == AppointmentNoShow
}

// IsScheduled reports whether the appointment holds a slot on the lawyer's calendar
func (s AppointmentStatus) IsScheduled() bool {
	return s == AppointmentConfirmed || s == AppointmentRescheduled
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type AppointmentType string

const (
	TypeConsultation     AppointmentType = "consultation"
	TypeDocumentReview   AppointmentType = "document_review"
	TypeCaseDiscussion   AppointmentType = "case_discussion"
	TypeLegalAdvice      AppointmentType = "legal_advice"
	TypeCourtPreparation AppointmentType = "court_preparation"
	TypeFollowUp         AppointmentType = "follow_up"
)

type MeetingType string

const (
	MeetingVideoCall MeetingType = "video_call"
	MeetingPhoneCall MeetingType = "phone_call"
	MeetingInPerson  MeetingType = "in_person"
	MeetingChat      MeetingType = "chat"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Appointment struct {
	BaseNoDelete
	UserID               uuid.UUID         `db:"user_id"`
	LawyerID             uuid.UUID         `db:"lawyer_id"`
	Title                string            `db:"title"`
	Description          string            `db:"description"`
	AppointmentType      AppointmentType   `db:"appointment_type"`
	MeetingType          MeetingType       `db:"meeting_type"`
	RequestedDate        time.Time         `db:"requested_date"`
	RequestedTime        Clock             `db:"requested_time"`
	ConfirmedDate        *time.Time        `db:"confirmed_date"`
	ConfirmedTime        *Clock            `db:"confirmed_time"`
	DurationMinutes      int               `db:"duration_minutes"`
	Status               AppointmentStatus `db:"status"`
	Priority             Priority          `db:"priority"`
	MeetingLink          *string           `db:"meeting_link"`
	MeetingLocation      *string           `db:"meeting_location"`
	MeetingNotes         *string           `db:"meeting_notes"`
	ConsultationFee      *float64          `db:"consultation_fee"`
	IsPaid               bool              `db:"is_paid"`
	PaymentReference     *string           `db:"payment_reference"`
	ReminderSentToUser   bool              `db:"reminder_sent_to_user"`
	ReminderSentToLawyer bool              `db:"reminder_sent_to_lawyer"`
	CancellationReason   *string           `db:"cancellation_reason"`
	CancelledBy          *uuid.UUID        `db:"cancelled_by"`
	CancelledAt          *time.Time        `db:"cancelled_at"`
}

func (a *Appointment) IsParticipant(userID uuid.UUID) bool {
	return a.UserID == userID || a.LawyerID == userID
}

// Counterpart returns the other participant
func (a *Appointment) Counterpart(userID uuid.UUID) uuid.UUID {
	if a.UserID == userID {
		return a.LawyerID
	}
	return a.UserID
}

// ScheduledDate is the confirmed date once set, otherwise the requested one
func (a *Appointment) ScheduledDate() time.Time {
	if a.ConfirmedDate != nil {
		return *a.ConfirmedDate
	}
	return a.RequestedDate
}

func (a *Appointment) ScheduledTime() Clock {
	if a.ConfirmedTime != nil {
		return *a.ConfirmedTime
	}
	return a.RequestedTime
}

// StartsAt combines the scheduled date and time in loc
func (a *Appointment) StartsAt(loc *time.Location) time.Time {
	return a.ScheduledTime().On(a.ScheduledDate(), loc)
}

type RescheduleStatus string

const (
	ReschedulePending  RescheduleStatus = "pending"
	RescheduleApproved RescheduleStatus = "approved"
	RescheduleRejected RescheduleStatus = "rejected"
)

type RescheduleRequest struct {
	BaseSimple
	AppointmentID    uuid.UUID        `db:"appointment_id"`
	RequestedBy      uuid.UUID        `db:"requested_by"`
	NewRequestedDate time.Time        `db:"new_requested_date"`
	NewRequestedTime Clock            `db:"new_requested_time"`
	Reason           string           `db:"reason"`
	Status           RescheduleStatus `db:"status"`
	ResponseMessage  *string          `db:"response_message"`
	RespondedBy      *uuid.UUID       `db:"responded_by"`
	RespondedAt      *time.Time       `db:"responded_at"`
}

type MeetingQuality string

const (
	QualityPoor      MeetingQuality = "poor"
	QualityFair      MeetingQuality = "fair"
	QualityGood      MeetingQuality = "good"
	QualityExcellent MeetingQuality = "excellent"
)

type AppointmentFeedback struct {
	BaseSimple
	AppointmentID              uuid.UUID       `db:"appointment_id"`
	UserRating                 *int            `db:"user_rating"`
	UserFeedback               *string         `db:"user_feedback"`
	UserWouldRecommend         *bool           `db:"user_would_recommend"`
	LawyerRating               *int            `db:"lawyer_rating"`
	LawyerFeedback             *string         `db:"lawyer_feedback"`
	MeetingQuality             *MeetingQuality `db:"meeting_quality"`
	TechnicalIssues            bool            `db:"technical_issues"`
	TechnicalIssuesDescription *string         `db:"technical_issues_description"`
}
