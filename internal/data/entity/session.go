package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer token bound to one account
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	IPAddress *string    `db:"ip_address"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

func NewSession(userID uuid.UUID, ttl time.Duration, userAgent, ip string, now time.Time) *Session {
	s := &Session{
		BaseSimple: NewBaseSimple(now),
		UserID:     userID,
		Token:      uuid.New(),
		ExpiresAt:  now.Add(ttl),
	}
	if userAgent != "" {
		s.UserAgent = &userAgent
	}
	if ip != "" {
		s.IPAddress = &ip
	}
	return s
}
