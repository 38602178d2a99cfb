package memory

import (
	"context"
	"fmt"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
)

type boardingPassRepo struct {
	s    *Store
	held bool
}

func (r *boardingPassRepo) joined(b entity.BoardingPass) *entity.BoardingPass {
	ticket := r.s.data.tickets[b.TicketID]
	b.TicketNumber = ticket.TicketNumber
	b.TicketStatus = ticket.Status
	return &b
}

func (r *boardingPassRepo) Create(_ context.Context, pass *entity.BoardingPass) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.tickets[pass.TicketID]; !ok {
		return fmt.Errorf("create boarding pass: ticket %s does not exist", pass.TicketID)
	}
	for _, existing := range r.s.data.passes {
		if existing.TicketID == pass.TicketID {
			return apperror.AlreadyExists("ticket already has a boarding pass")
		}
	}
	stored := *pass
	stored.TicketNumber, stored.TicketStatus = "", ""
	r.s.data.passes[pass.ID] = stored
	return nil
}

func (r *boardingPassRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.BoardingPass, error) {
	defer r.s.lock(r.held)()

	b, ok := r.s.data.passes[id]
	if !ok {
		return nil, nil
	}
	return r.joined(b), nil
}

func (r *boardingPassRepo) FindByTicketID(_ context.Context, ticketID uuid.UUID) (*entity.BoardingPass, error) {
	defer r.s.lock(r.held)()

	for _, b := range r.s.data.passes {
		if b.TicketID == ticketID {
			return r.joined(b), nil
		}
	}
	return nil, nil
}

func (r *boardingPassRepo) SetPassportVerified(_ context.Context, id uuid.UUID, verified bool, by uuid.UUID, at time.Time) error {
	return r.modify(id, func(b *entity.BoardingPass) {
		b.PassportVerified = verified
		b.VerifiedByBorderGuard = &by
		b.UpdatedAt = at
	})
}

func (r *boardingPassRepo) SetLuggageVerified(_ context.Context, id uuid.UUID, verified bool, by uuid.UUID, at time.Time) error {
	return r.modify(id, func(b *entity.BoardingPass) {
		b.LuggageVerified = verified
		b.VerifiedByCustoms = &by
		b.UpdatedAt = at
	})
}

func (r *boardingPassRepo) SetBoarded(_ context.Context, id uuid.UUID, boarded bool, at time.Time) error {
	return r.modify(id, func(b *entity.BoardingPass) {
		b.Boarded = boarded
		b.UpdatedAt = at
	})
}

// modify applies change to the stored row under the store lock.
func (r *boardingPassRepo) modify(id uuid.UUID, change func(b *entity.BoardingPass)) error {
	defer r.s.lock(r.held)()

	existing, ok := r.s.data.passes[id]
	if !ok {
		return apperror.NotFound("boarding pass %s not found", id.String())
	}
	change(&existing)
	r.s.data.passes[id] = existing
	return nil
}
