package response

import (
	"time"

	"legal-marketplace/internal/data/entity"
)

const dateLayout = "2006-01-02"

// Date renders a DATE column value
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

func DatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Date(*t)
	return &s
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID              string          `json:"id"`
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	FullName        string          `json:"full_name"`
	Role            entity.UserRole `json:"role"`
	Phone           *string         `json:"phone,omitempty"`
	ProfilePicture  *string         `json:"profile_picture,omitempty"`
	DateOfBirth     *string         `json:"date_of_birth,omitempty"`
	Address         *string         `json:"address,omitempty"`
	City            *string         `json:"city,omitempty"`
	State           *string         `json:"state,omitempty"`
	Pincode         *string         `json:"pincode,omitempty"`
	IsVerified      bool            `json:"is_verified"`
	IsActive        bool            `json:"is_active"`
	LawyerProfileID *string         `json:"lawyer_profile_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PublicUser is the part of an account other people may see
type PublicUser struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	FullName       string          `json:"full_name"`
	Role           entity.UserRole `json:"role"`
	ProfilePicture *string         `json:"profile_picture,omitempty"`
}

type UserProfileResponse struct {
	Bio                   *string      `json:"bio,omitempty"`
	EmergencyContactName  *string      `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string      `json:"emergency_contact_phone,omitempty"`
	PreferredLanguage     string       `json:"preferred_language"`
	ThemePreference       entity.Theme `json:"theme_preference"`
	EmailNotifications    bool         `json:"email_notifications"`
	SMSNotifications      bool         `json:"sms_notifications"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.FullName(),
		Role:           user.Role,
		Phone:          user.Phone,
		ProfilePicture: user.ProfilePicture,
		DateOfBirth:    DatePtr(user.DateOfBirth),
		Address:        user.Address,
		City:           user.City,
		State:          user.State,
		Pincode:        user.Pincode,
		IsVerified:     user.IsVerified,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
	}
}

// ToPublicUser tolerates a nil user so callers can pass unresolved lookups
func ToPublicUser(user *entity.User) *PublicUser {
	if user == nil {
		return nil
	}
	return &PublicUser{
		ID:             user.ID.String(),
		Username:       user.Username,
		FullName:       user.FullName(),
		Role:           user.Role,
		ProfilePicture: user.ProfilePicture,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{User: UserToResponse(user)}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}

func UserProfileToResponse(p *entity.UserProfile) UserProfileResponse {
	return UserProfileResponse{
		Bio:                   p.Bio,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		PreferredLanguage:     p.PreferredLanguage,
		ThemePreference:       p.ThemePreference,
		EmailNotifications:    p.EmailNotifications,
		SMSNotifications:      p.SMSNotifications,
		UpdatedAt:             p.UpdatedAt,
	}
}
