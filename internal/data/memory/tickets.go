package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
)

type ticketRepo struct {
	s    *Store
	held bool
}

// joined fills flight and passport numbers; callers hold the lock.
func (r *ticketRepo) joined(t entity.Ticket) *entity.Ticket {
	t.FlightNumber = r.s.data.flights[t.FlightID].FlightNumber
	t.PassportNumber = r.s.data.passengers[t.PassengerID].PassportNumber
	return &t
}

func (r *ticketRepo) Create(_ context.Context, ticket *entity.Ticket) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.flights[ticket.FlightID]; !ok {
		return fmt.Errorf("create ticket: flight %s does not exist", ticket.FlightID)
	}
	if _, ok := r.s.data.passengers[ticket.PassengerID]; !ok {
		return fmt.Errorf("create ticket: passenger %s does not exist", ticket.PassengerID)
	}
	for _, existing := range r.s.data.tickets {
		if existing.TicketNumber == ticket.TicketNumber {
			return repository.ErrTicketNumberTaken
		}
		if existing.FlightID == ticket.FlightID && existing.SeatNumber == ticket.SeatNumber {
			return apperror.AlreadyExists("seat %s is already taken", ticket.SeatNumber)
		}
	}
	stored := *ticket
	stored.FlightNumber, stored.PassportNumber = "", ""
	r.s.data.tickets[ticket.ID] = stored
	return nil
}

func (r *ticketRepo) FindByNumber(_ context.Context, ticketNumber string) (*entity.Ticket, error) {
	defer r.s.lock(r.held)()

	for _, t := range r.s.data.tickets {
		if t.TicketNumber == ticketNumber {
			return r.joined(t), nil
		}
	}
	return nil, nil
}

func (r *ticketRepo) filter(match func(entity.Ticket) bool) []*entity.Ticket {
	tickets := make([]*entity.Ticket, 0)
	for _, t := range r.s.data.tickets {
		if match(t) {
			tickets = append(tickets, r.joined(t))
		}
	}
	sort.Slice(tickets, func(i, j int) bool {
		if !tickets[i].BookedAt.Equal(tickets[j].BookedAt) {
			return tickets[i].BookedAt.Before(tickets[j].BookedAt)
		}
		return tickets[i].TicketNumber < tickets[j].TicketNumber
	})
	return tickets
}

func (r *ticketRepo) FindByFlight(_ context.Context, flightID uuid.UUID) ([]*entity.Ticket, error) {
	defer r.s.lock(r.held)()
	return r.filter(func(t entity.Ticket) bool { return t.FlightID == flightID }), nil
}

func (r *ticketRepo) FindByPassenger(_ context.Context, passengerID uuid.UUID) ([]*entity.Ticket, error) {
	defer r.s.lock(r.held)()
	return r.filter(func(t entity.Ticket) bool { return t.PassengerID == passengerID }), nil
}

func (r *ticketRepo) SeatTaken(_ context.Context, flightID uuid.UUID, seatNumber string) (bool, error) {
	defer r.s.lock(r.held)()

	for _, t := range r.s.data.tickets {
		if t.FlightID == flightID && t.SeatNumber == seatNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *ticketRepo) OccupiedSeats(_ context.Context, flightID uuid.UUID) ([]string, error) {
	defer r.s.lock(r.held)()

	seats := make([]string, 0)
	for _, t := range r.s.data.tickets {
		if t.FlightID == flightID {
			seats = append(seats, t.SeatNumber)
		}
	}
	entity.SortSeats(seats)
	return seats, nil
}

func (r *ticketRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.TicketStatus) error {
	defer r.s.lock(r.held)()

	t, ok := r.s.data.tickets[id]
	if !ok || t.Status != from {
		return apperror.NotPermitted("ticket is no longer %s", from)
	}
	t.Status = to
	t.UpdatedAt = time.Now()
	r.s.data.tickets[id] = t
	return nil
}

func (r *ticketRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.tickets[id]; !ok {
		return apperror.NotFound("ticket %s not found", id.String())
	}
	r.s.data.deleteTicket(id)
	return nil
}
