package request

type CreateLawyerProfileRequest struct {
	BarCouncilID       string   `json:"bar_council_id" validate:"required,max=50"`
	Specializations    []string `json:"specializations" validate:"required,min=1,dive,required"`
	YearsOfExperience  int      `json:"years_of_experience" validate:"min=0,max=70"`
	Education          string   `json:"education" validate:"required,max=2000"`
	LawFirmName        *string  `json:"law_firm_name,omitempty" validate:"omitempty,max=200"`
	OfficeAddress      string   `json:"office_address" validate:"required,max=500"`
	ConsultationFee    *float64 `json:"consultation_fee,omitempty" validate:"omitempty,min=0"`
	LanguagesSpoken    []string `json:"languages_spoken" validate:"omitempty,dive,required,max=50"`
	Bio                string   `json:"bio" validate:"max=5000"`
	AvailableDays      []string `json:"available_days" validate:"omitempty,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	AvailableTimeStart *string  `json:"available_time_start,omitempty" validate:"omitempty,hhmm"`
	AvailableTimeEnd   *string  `json:"available_time_end,omitempty" validate:"omitempty,hhmm"`
}

// UpdateLawyerProfileRequest leaves nil fields unchanged
type UpdateLawyerProfileRequest struct {
	Specializations    []string `json:"specializations,omitempty" validate:"omitempty,min=1,dive,required"`
	YearsOfExperience  *int     `json:"years_of_experience,omitempty" validate:"omitempty,min=0,max=70"`
	Education          *string  `json:"education,omitempty" validate:"omitempty,max=2000"`
	LawFirmName        *string  `json:"law_firm_name,omitempty" validate:"omitempty,max=200"`
	OfficeAddress      *string  `json:"office_address,omitempty" validate:"omitempty,max=500"`
	ConsultationFee    *float64 `json:"consultation_fee,omitempty" validate:"omitempty,min=0"`
	LanguagesSpoken    []string `json:"languages_spoken,omitempty" validate:"omitempty,dive,required,max=50"`
	Bio                *string  `json:"bio,omitempty" validate:"omitempty,max=5000"`
	AvailableDays      []string `json:"available_days,omitempty" validate:"omitempty,dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	AvailableTimeStart *string  `json:"available_time_start,omitempty" validate:"omitempty,hhmm"`
	AvailableTimeEnd   *string  `json:"available_time_end,omitempty" validate:"omitempty,hhmm"`
}

type LawyerListRequest struct {
	PaginatedRequest
	Specialization string
	MinExperience  *int
	MaxFee         *float64
	Language       string
	City           string
	Search         string
	Ordering       []string
}

type RateLawyerRequest struct {
	LawyerID string  `json:"lawyer_id" validate:"required,uuid"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Review   *string `json:"review,omitempty" validate:"omitempty,max=2000"`
}

type UpdateRatingRequest struct {
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Review *string `json:"review,omitempty" validate:"omitempty,max=2000"`
}

type LawyerDecisionRequest struct {
	Action string  `json:"action" validate:"required,oneof=approve reject"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}
