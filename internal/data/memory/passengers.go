package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
)

type passengerRepo struct {
	s    *Store
	held bool
}

// withUser fills the joined username; callers hold the lock.
func (r *passengerRepo) withUser(p entity.Passenger) *entity.Passenger {
	p.Username = r.s.data.users[p.UserID].Username
	return &p
}

func (r *passengerRepo) Create(_ context.Context, passenger *entity.Passenger) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.users[passenger.UserID]; !ok {
		return fmt.Errorf("create passenger: user %s does not exist", passenger.UserID)
	}
	for _, existing := range r.s.data.passengers {
		if existing.UserID == passenger.UserID {
			return apperror.AlreadyExists("user already has a passenger profile")
		}
		if existing.PassportNumber == passenger.PassportNumber {
			return apperror.AlreadyExists("passport %s is already registered", passenger.PassportNumber)
		}
	}
	stored := *passenger
	stored.Username = ""
	r.s.data.passengers[passenger.ID] = stored
	return nil
}

func (r *passengerRepo) first(match func(entity.Passenger) bool) *entity.Passenger {
	var found *entity.Passenger
	for _, p := range r.s.data.passengers {
		if match(p) && (found == nil || p.CreatedAt.Before(found.CreatedAt)) {
			found = r.withUser(p)
		}
	}
	return found
}

func (r *passengerRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Passenger, error) {
	defer r.s.lock(r.held)()

	p, ok := r.s.data.passengers[id]
	if !ok {
		return nil, nil
	}
	return r.withUser(p), nil
}

func (r *passengerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Passenger, error) {
	defer r.s.lock(r.held)()
	return r.first(func(p entity.Passenger) bool { return p.UserID == userID }), nil
}

func (r *passengerRepo) FindByPassport(_ context.Context, passport string) (*entity.Passenger, error) {
	defer r.s.lock(r.held)()
	return r.first(func(p entity.Passenger) bool { return p.PassportNumber == passport }), nil
}

func (r *passengerRepo) FindByPhone(_ context.Context, phone string) (*entity.Passenger, error) {
	defer r.s.lock(r.held)()
	return r.first(func(p entity.Passenger) bool { return p.Phone == phone }), nil
}

func (r *passengerRepo) FindByEmail(_ context.Context, email string) (*entity.Passenger, error) {
	defer r.s.lock(r.held)()
	return r.first(func(p entity.Passenger) bool { return p.Email == email }), nil
}

func (r *passengerRepo) FindAll(_ context.Context) ([]*entity.Passenger, error) {
	defer r.s.lock(r.held)()

	passengers := make([]*entity.Passenger, 0, len(r.s.data.passengers))
	for _, p := range r.s.data.passengers {
		passengers = append(passengers, r.withUser(p))
	}
	sort.Slice(passengers, func(i, j int) bool {
		if !passengers[i].CreatedAt.Equal(passengers[j].CreatedAt) {
			return passengers[i].CreatedAt.Before(passengers[j].CreatedAt)
		}
		return passengers[i].PassportNumber < passengers[j].PassportNumber
	})
	return passengers, nil
}

func (r *passengerRepo) UpdateLuggage(_ context.Context, passport string, checked bool) (*entity.Passenger, error) {
	defer r.s.lock(r.held)()

	for id, p := range r.s.data.passengers {
		if p.PassportNumber == passport {
			p.LuggageChecked = checked
			p.UpdatedAt = time.Now()
			r.s.data.passengers[id] = p
			return r.withUser(p), nil
		}
	}
	return nil, nil
}

func (r *passengerRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.passengers[id]; !ok {
		return apperror.NotFound("passenger %s not found", id.String())
	}
	r.s.data.deletePassenger(id)
	return nil
}
