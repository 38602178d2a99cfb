// Package memory implements the repository interfaces on process memory. It
// enforces the same unique constraints, bounds and cascades as the Postgres
// schema and is selected with STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"sync"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type tables struct {
	users      map[uuid.UUID]entity.User
	sessions   map[uuid.UUID]entity.Session // by token
	passengers map[uuid.UUID]entity.Passenger
	flights    map[uuid.UUID]entity.Flight
	tickets    map[uuid.UUID]entity.Ticket
	passes     map[uuid.UUID]entity.BoardingPass
	visas      map[uuid.UUID]entity.Visa
}

func newTables() tables {
	return tables{
		users:      make(map[uuid.UUID]entity.User),
		sessions:   make(map[uuid.UUID]entity.Session),
		passengers: make(map[uuid.UUID]entity.Passenger),
		flights:    make(map[uuid.UUID]entity.Flight),
		tickets:    make(map[uuid.UUID]entity.Ticket),
		passes:     make(map[uuid.UUID]entity.BoardingPass),
		visas:      make(map[uuid.UUID]entity.Visa),
	}
}

func (t tables) clone() tables {
	return tables{
		users:      maps.Clone(t.users),
		sessions:   maps.Clone(t.sessions),
		passengers: maps.Clone(t.passengers),
		flights:    maps.Clone(t.flights),
		tickets:    maps.Clone(t.tickets),
		passes:     maps.Clone(t.passes),
		visas:      maps.Clone(t.visas),
	}
}

// Store serializes every operation behind one mutex. A transaction holds the
// mutex for its whole duration and restores a snapshot when it fails.
type Store struct {
	mu   sync.Mutex
	data tables
	log  *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{data: newTables(), log: log.With(zap.String("repository", "memory"))}
}

// NewRepository returns repositories backed by a fresh store.
func NewRepository(log *zap.Logger) *repository.Repository {
	return NewStore(log).Repository()
}

func (s *Store) Repository() *repository.Repository {
	repo := s.bind(false)
	repo.Transactor = s
	return repo
}

func (s *Store) bind(held bool) *repository.Repository {
	return &repository.Repository{
		User:         &userRepo{s: s, held: held},
		Session:      &sessionRepo{s: s, held: held},
		Passenger:    &passengerRepo{s: s, held: held},
		Flight:       &flightRepo{s: s, held: held},
		Ticket:       &ticketRepo{s: s, held: held},
		BoardingPass: &boardingPassRepo{s: s, held: held},
		Visa:         &visaRepo{s: s, held: held},
	}
}

// lock acquires the store unless the caller already runs inside a transaction.
func (s *Store) lock(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
		s.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	repo := s.bind(true)
	repo.Transactor = joined{repo: repo}

	if err := fn(repo); err != nil {
		s.log.Debug("Transaction rolled back", zap.Error(err))
		return err
	}

	committed = true
	return nil
}

type joined struct {
	repo *repository.Repository
}

func (j joined) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(j.repo)
}

// cascade helpers; callers hold the lock

func (t tables) deleteTicket(id uuid.UUID) {
	delete(t.tickets, id)
	for passID, pass := range t.passes {
		if pass.TicketID == id {
			delete(t.passes, passID)
		}
	}
}

func (t tables) deletePassenger(id uuid.UUID) {
	delete(t.passengers, id)
	for ticketID, ticket := range t.tickets {
		if ticket.PassengerID == id {
			t.deleteTicket(ticketID)
		}
	}
}

func (t tables) deleteFlight(id uuid.UUID) {
	delete(t.flights, id)
	for ticketID, ticket := range t.tickets {
		if ticket.FlightID == id {
			t.deleteTicket(ticketID)
		}
	}
}

func (t tables) deleteUser(id uuid.UUID) {
	delete(t.users, id)
	for token, session := range t.sessions {
		if session.UserID == id {
			delete(t.sessions, token)
		}
	}
	for passengerID, passenger := range t.passengers {
		if passenger.UserID == id {
			t.deletePassenger(passengerID)
		}
	}
	for flightID, flight := range t.flights {
		if flight.CreatedBy != nil && *flight.CreatedBy == id {
			flight.CreatedBy = nil
			t.flights[flightID] = flight
		}
	}
	for passID, pass := range t.passes {
		if pass.VerifiedByBorderGuard != nil && *pass.VerifiedByBorderGuard == id {
			pass.VerifiedByBorderGuard = nil
		}
		if pass.VerifiedByCustoms != nil && *pass.VerifiedByCustoms == id {
			pass.VerifiedByCustoms = nil
		}
		t.passes[passID] = pass
	}
	for visaID, visa := range t.visas {
		if visa.IssuedBy != nil && *visa.IssuedBy == id {
			visa.IssuedBy = nil
			t.visas[visaID] = visa
		}
	}
}
