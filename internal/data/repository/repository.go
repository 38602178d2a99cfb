package repository

import (
	"context"

	"airport-ops/pkg/database"

	"go.uber.org/zap"
)

// Transactor runs fn against repositories bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Passenger    PassengerRepository
	Flight       FlightRepository
	Ticket       TicketRepository
	BoardingPass BoardingPassRepository
	Visa         VisaRepository

	Transactor Transactor
}

// WithinTx runs fn in a single transaction. Inside fn only the tx repositories
// may be used.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.Transactor.WithinTx(ctx, fn)
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newQuerierRepository(db, log)
	repo.Transactor = &pgTransactor{db: db, log: log}
	return repo
}

func newQuerierRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(q, log),
		Session:      NewSessionRepository(q, log),
		Passenger:    NewPassengerRepository(q, log),
		Flight:       NewFlightRepository(q, log),
		Ticket:       NewTicketRepository(q, log),
		BoardingPass: NewBoardingPassRepository(q, log),
		Visa:         NewVisaRepository(q, log),
	}
}
