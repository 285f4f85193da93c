package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleLawyer UserRole = "lawyer"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleLawyer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Username       string     `db:"username"`
	Email          string     `db:"email"`
	PasswordHash   string     `db:"password"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Role           UserRole   `db:"role"`
	Phone          *string    `db:"phone"`
	ProfilePicture *string    `db:"profile_picture"`
	DateOfBirth    *time.Time `db:"date_of_birth"`
	Address        *string    `db:"address"`
	City           *string    `db:"city"`
	State          *string    `db:"state"`
	Pincode        *string    `db:"pincode"`
	IsVerified     bool       `db:"is_verified"`
	IsActive       bool       `db:"is_active"`
}

// FullName falls back to the username when no name was given
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) IsLawyer() bool { return u.Role == RoleLawyer }
func (u *User) IsAdmin() bool  { return u.Role == RoleAdmin }

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type UserProfile struct {
	BaseNoDelete
	UserID                uuid.UUID `db:"user_id"`
	Bio                   *string   `db:"bio"`
	EmergencyContactName  *string   `db:"emergency_contact_name"`
	EmergencyContactPhone *string   `db:"emergency_contact_phone"`
	PreferredLanguage     string    `db:"preferred_language"`
	ThemePreference       Theme     `db:"theme_preference"`
	EmailNotifications    bool      `db:"email_notifications"`
	SMSNotifications      bool      `db:"sms_notifications"`
}

func NewUserProfile(userID uuid.UUID, now time.Time) *UserProfile {
	return &UserProfile{
		BaseNoDelete:       NewBaseNoDelete(now),
		UserID:             userID,
		PreferredLanguage:  "English",
		ThemePreference:    ThemeLight,
		EmailNotifications: true,
	}
}
