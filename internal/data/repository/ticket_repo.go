package repository

import (
	"context"
	"errors"
	"fmt"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"
	"airport-ops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrTicketNumberTaken is returned by Create when another ticket already
// holds the number.
var ErrTicketNumberTaken = apperror.AlreadyExists("ticket number is already in use")

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByNumber(ctx context.Context, ticketNumber string) (*entity.Ticket, error)
	FindByFlight(ctx context.Context, flightID uuid.UUID) ([]*entity.Ticket, error)
	FindByPassenger(ctx context.Context, passengerID uuid.UUID) ([]*entity.Ticket, error)
	SeatTaken(ctx context.Context, flightID uuid.UUID, seatNumber string) (bool, error)
	OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TicketStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ticketRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTicketRepository(db database.Querier, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketSelect = `
	SELECT t.id, t.flight_id, t.passenger_id, t.ticket_number, t.seat_number, t.price::float8,
	       t.status, t.booked_at, t.created_at, t.updated_at, f.flight_number, p.passport_number
	FROM tickets t
	JOIN flights f ON f.id = t.flight_id
	JOIN passengers p ON p.id = t.passenger_id
`

func scanTicket(row pgx.Row) (*entity.Ticket, error) {
	var t entity.Ticket
	err := row.Scan(
		&t.ID,
		&t.FlightID,
		&t.PassengerID,
		&t.TicketNumber,
		&t.SeatNumber,
		&t.Price,
		&t.Status,
		&t.BookedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.FlightNumber,
		&t.PassportNumber,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create maps a unique violation on (flight, seat) or on the ticket number to
// AlreadyExists, so the loser of a concurrent seat race gets a clean error.
func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, flight_id, passenger_id, ticket_number, seat_number, price,
		                     status, booked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.FlightID,
		ticket.PassengerID,
		ticket.TicketNumber,
		ticket.SeatNumber,
		ticket.Price,
		ticket.Status,
		ticket.BookedAt,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		if database.ConstraintName(err) == "tickets_ticket_number_key" {
			return ErrTicketNumberTaken
		}
		return apperror.AlreadyExists("seat %s is already taken", ticket.SeatNumber)
	}
	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("ticket_number", ticket.TicketNumber),
			zap.String("seat", ticket.SeatNumber),
		)
		return fmt.Errorf("create ticket %s: %w", ticket.TicketNumber, err)
	}

	return nil
}

func (r *ticketRepository) FindByNumber(ctx context.Context, ticketNumber string) (*entity.Ticket, error) {
	ticket, err := scanTicket(r.db.QueryRow(ctx, ticketSelect+` WHERE t.ticket_number = $1`, ticketNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by number",
			zap.Error(err),
			zap.String("ticket_number", ticketNumber),
		)
		return nil, fmt.Errorf("find ticket %s: %w", ticketNumber, err)
	}
	return ticket, nil
}

func (r *ticketRepository) list(ctx context.Context, where string, arg any) ([]*entity.Ticket, error) {
	rows, err := r.db.Query(ctx, ticketSelect+where+` ORDER BY t.booked_at, t.ticket_number`, arg)
	if err != nil {
		r.log.Error("Failed to list tickets", zap.Error(err), zap.String("filter", where))
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate ticket rows: %w", err)
	}

	return tickets, nil
}

func (r *ticketRepository) FindByFlight(ctx context.Context, flightID uuid.UUID) ([]*entity.Ticket, error) {
	return r.list(ctx, ` WHERE t.flight_id = $1`, flightID)
}

func (r *ticketRepository) FindByPassenger(ctx context.Context, passengerID uuid.UUID) ([]*entity.Ticket, error) {
	return r.list(ctx, ` WHERE t.passenger_id = $1`, passengerID)
}

func (r *ticketRepository) SeatTaken(ctx context.Context, flightID uuid.UUID, seatNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tickets WHERE flight_id = $1 AND seat_number = $2)`

	var taken bool
	if err := r.db.QueryRow(ctx, query, flightID, seatNumber).Scan(&taken); err != nil {
		r.log.Error("Failed to check seat",
			zap.Error(err),
			zap.String("flight_id", flightID.String()),
			zap.String("seat", seatNumber),
		)
		return false, fmt.Errorf("check seat %s: %w", seatNumber, err)
	}
	return taken, nil
}

func (r *ticketRepository) OccupiedSeats(ctx context.Context, flightID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT seat_number FROM tickets WHERE flight_id = $1`, flightID)
	if err != nil {
		r.log.Error("Failed to list occupied seats",
			zap.Error(err),
			zap.String("flight_id", flightID.String()),
		)
		return nil, fmt.Errorf("occupied seats of flight %s: %w", flightID.String(), err)
	}

	seats, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		r.log.Error("Failed to scan seat rows", zap.Error(err))
		return nil, fmt.Errorf("scan seat rows: %w", err)
	}

	entity.SortSeats(seats)
	return seats, nil
}

// UpdateStatus only applies when the ticket is still in status from.
func (r *ticketRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TicketStatus) error {
	query := `UPDATE tickets SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update ticket status",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update ticket status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotPermitted("ticket is no longer %s", from)
	}

	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete ticket",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete ticket %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("ticket %s not found", id.String())
	}

	return nil
}
