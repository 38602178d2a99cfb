package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	UserAgent *string    `db:"user_agent"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// ActiveAt reports whether the session can still authenticate requests at t.
func (s *Session) ActiveAt(t time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(t)
}
