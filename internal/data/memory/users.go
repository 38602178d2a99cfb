package memory

import (
	"context"
	"sort"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
)

type userRepo struct {
	s    *Store
	held bool
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	defer r.s.lock(r.held)()

	for _, existing := range r.s.data.users {
		if existing.Username == user.Username {
			return apperror.AlreadyExists("username %s is already taken", user.Username)
		}
	}
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.s.lock(r.held)()

	user, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.s.lock(r.held)()

	for _, user := range r.s.data.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	defer r.s.lock(r.held)()

	users := make([]*entity.User, 0, len(r.s.data.users))
	for _, user := range r.s.data.users {
		users = append(users, &user)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	defer r.s.lock(r.held)()

	existing, ok := r.s.data.users[user.ID]
	if !ok {
		return apperror.NotFound("user %s not found", user.Username)
	}
	existing.PasswordHash = user.PasswordHash
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.UpdatedAt = user.UpdatedAt
	r.s.data.users[user.ID] = existing
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.users[id]; !ok {
		return apperror.NotFound("user %s not found", id.String())
	}
	r.s.data.deleteUser(id)
	return nil
}
