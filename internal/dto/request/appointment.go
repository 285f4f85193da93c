package request

type CreateAppointmentRequest struct {
	LawyerID        string `json:"lawyer_id" validate:"required,uuid"`
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"required,max=5000"`
	AppointmentType string `json:"appointment_type" validate:"omitempty,oneof=consultation document_review case_discussion legal_advice court_preparation follow_up"`
	MeetingType     string `json:"meeting_type" validate:"omitempty,oneof=video_call phone_call in_person chat"`
	RequestedDate   string `json:"requested_date" validate:"required,date"`
	RequestedTime   string `json:"requested_time" validate:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=15,max=480"`
	Priority        string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type AppointmentListRequest struct {
	PaginatedRequest
	Status string `validate:"omitempty,oneof=pending confirmed completed cancelled rescheduled no_show"`
	As     string `validate:"omitempty,oneof=user lawyer"`
}

// ConfirmAppointmentRequest falls back to the requested date and time when they are omitted
type ConfirmAppointmentRequest struct {
	ConfirmedDate   *string `json:"confirmed_date,omitempty" validate:"omitempty,date"`
	ConfirmedTime   *string `json:"confirmed_time,omitempty" validate:"omitempty,hhmm"`
	MeetingLink     *string `json:"meeting_link,omitempty" validate:"omitempty,url"`
	MeetingLocation *string `json:"meeting_location,omitempty" validate:"omitempty,max=500"`
}

type CompleteAppointmentRequest struct {
	MeetingNotes *string `json:"meeting_notes,omitempty" validate:"omitempty,max=5000"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type PaymentRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required,max=100"`
}

type CreateRescheduleRequest struct {
	NewDate string `json:"new_date" validate:"required,date"`
	NewTime string `json:"new_time" validate:"required,hhmm"`
	Reason  string `json:"reason" validate:"required,max=1000"`
}

type RespondRescheduleRequest struct {
	Action          string  `json:"action" validate:"required,oneof=approve reject"`
	ResponseMessage *string `json:"response_message,omitempty" validate:"omitempty,max=1000"`
}

// FeedbackRequest fills the half of the feedback that belongs to the caller
type FeedbackRequest struct {
	Rating                     *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Feedback                   *string `json:"feedback,omitempty" validate:"omitempty,max=2000"`
	WouldRecommend             *bool   `json:"would_recommend,omitempty"`
	MeetingQuality             *string `json:"meeting_quality,omitempty" validate:"omitempty,oneof=poor fair good excellent"`
	TechnicalIssues            *bool   `json:"technical_issues,omitempty"`
	TechnicalIssuesDescription *string `json:"technical_issues_description,omitempty" validate:"omitempty,max=1000"`
}

type AvailabilityRequest struct {
	Weekday        int     `json:"weekday" validate:"min=0,max=6"`
	StartTime      string  `json:"start_time" validate:"required,hhmm"`
	EndTime        string  `json:"end_time" validate:"required,hhmm"`
	IsAvailable    *bool   `json:"is_available,omitempty"`
	BreakStartTime *string `json:"break_start_time,omitempty" validate:"omitempty,hhmm"`
	BreakEndTime   *string `json:"break_end_time,omitempty" validate:"omitempty,hhmm"`
	SpecialDate    *string `json:"special_date,omitempty" validate:"omitempty,date"`
	IsHoliday      bool    `json:"is_holiday"`
}

type SlotsRequest struct {
	Date     string `validate:"required,date"`
	Duration int    `validate:"omitempty,min=15,max=480"`
}
