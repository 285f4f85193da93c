package request

type RegisterRequest struct {
	Username        string  `json:"username" validate:"required,min=3,max=150,alphanum"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	PasswordConfirm string  `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string  `json:"first_name" validate:"max=150"`
	LastName        string  `json:"last_name" validate:"max=150"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

// LoginRequest accepts either the username or the email in Username
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,date"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State       *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Pincode     *string `json:"pincode,omitempty" validate:"omitempty,numeric,len=6"`
}

type UpdateProfileDetailsRequest struct {
	Bio                   *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty" validate:"omitempty,max=100"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty" validate:"omitempty,min=10,max=15"`
	PreferredLanguage     *string `json:"preferred_language,omitempty" validate:"omitempty,max=50"`
	ThemePreference       *string `json:"theme_preference,omitempty" validate:"omitempty,oneof=light dark"`
	EmailNotifications    *bool   `json:"email_notifications,omitempty"`
	SMSNotifications      *bool   `json:"sms_notifications,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}
