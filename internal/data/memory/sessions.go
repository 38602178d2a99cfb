package memory

import (
	"context"
	"fmt"
	"time"

	"airport-ops/internal/data/entity"

	"github.com/google/uuid"
)

type sessionRepo struct {
	s    *Store
	held bool
}

func (r *sessionRepo) Create(_ context.Context, session *entity.Session) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.users[session.UserID]; !ok {
		return fmt.Errorf("create session: user %s does not exist", session.UserID)
	}
	r.s.data.sessions[session.Token] = *session
	return nil
}

func (r *sessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	defer r.s.lock(r.held)()

	session, ok := r.s.data.sessions[token]
	if !ok || !session.ActiveAt(time.Now()) {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepo) Revoke(_ context.Context, token uuid.UUID) (bool, error) {
	defer r.s.lock(r.held)()

	session, ok := r.s.data.sessions[token]
	if !ok || session.RevokedAt != nil {
		return false, nil
	}
	now := time.Now()
	session.RevokedAt = &now
	r.s.data.sessions[token] = session
	return true, nil
}

func (r *sessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	defer r.s.lock(r.held)()

	now := time.Now()
	for token, session := range r.s.data.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
			r.s.data.sessions[token] = session
		}
	}
	return nil
}
