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

type FlightRepository interface {
	Create(ctx context.Context, flight *entity.Flight) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Flight, error)
	FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error)
	FindAll(ctx context.Context) ([]*entity.Flight, error)
	FindByCities(ctx context.Context, departureCity, arrivalCity string) ([]*entity.Flight, error)
	FindByStatus(ctx context.Context, status entity.FlightStatus) ([]*entity.Flight, error)
	AdjustAvailableSeats(ctx context.Context, id uuid.UUID, delta int) (*entity.Flight, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.FlightStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type flightRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewFlightRepository(db database.Querier, log *zap.Logger) FlightRepository {
	return &flightRepository{
		db:  db,
		log: log.With(zap.String("repository", "flight")),
	}
}

const flightColumns = `id, flight_number, departure_city, arrival_city, departure_time, arrival_time,
	total_seats, available_seats, status, created_by, created_at, updated_at`

func scanFlight(row pgx.Row) (*entity.Flight, error) {
	var f entity.Flight
	err := row.Scan(
		&f.ID,
		&f.FlightNumber,
		&f.DepartureCity,
		&f.ArrivalCity,
		&f.DepartureTime,
		&f.ArrivalTime,
		&f.TotalSeats,
		&f.AvailableSeats,
		&f.Status,
		&f.CreatedBy,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *flightRepository) Create(ctx context.Context, flight *entity.Flight) error {
	query := `
		INSERT INTO flights (` + flightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		flight.ID,
		flight.FlightNumber,
		flight.DepartureCity,
		flight.ArrivalCity,
		flight.DepartureTime,
		flight.ArrivalTime,
		flight.TotalSeats,
		flight.AvailableSeats,
		flight.Status,
		flight.CreatedBy,
		flight.CreatedAt,
		flight.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		return apperror.AlreadyExists("flight %s already exists", flight.FlightNumber)
	}
	if err != nil {
		r.log.Error("Failed to create flight",
			zap.Error(err),
			zap.String("flight_number", flight.FlightNumber),
		)
		return fmt.Errorf("create flight %s: %w", flight.FlightNumber, err)
	}

	return nil
}

func (r *flightRepository) findOne(ctx context.Context, where, key string, arg any) (*entity.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE ` + where

	flight, err := scanFlight(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find flight",
			zap.Error(err),
			zap.String(key, fmt.Sprint(arg)),
		)
		return nil, fmt.Errorf("find flight by %s %v: %w", key, arg, err)
	}
	return flight, nil
}

func (r *flightRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Flight, error) {
	return r.findOne(ctx, "id = $1", "id", id)
}

func (r *flightRepository) FindByNumber(ctx context.Context, flightNumber string) (*entity.Flight, error) {
	return r.findOne(ctx, "flight_number = $1", "flight_number", flightNumber)
}

func (r *flightRepository) list(ctx context.Context, where string, args ...any) ([]*entity.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights ` + where + ` ORDER BY departure_time, flight_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list flights", zap.Error(err), zap.String("filter", where))
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()

	var flights []*entity.Flight
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			r.log.Error("Failed to scan flight row", zap.Error(err))
			return nil, fmt.Errorf("scan flight row: %w", err)
		}
		flights = append(flights, flight)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate flight rows: %w", err)
	}

	return flights, nil
}

func (r *flightRepository) FindAll(ctx context.Context) ([]*entity.Flight, error) {
	return r.list(ctx, "")
}

// FindByCities matches exactly and case-sensitively; an empty city matches any.
func (r *flightRepository) FindByCities(ctx context.Context, departureCity, arrivalCity string) ([]*entity.Flight, error) {
	return r.list(ctx, `WHERE ($1 = '' OR departure_city = $1) AND ($2 = '' OR arrival_city = $2)`,
		departureCity, arrivalCity)
}

func (r *flightRepository) FindByStatus(ctx context.Context, status entity.FlightStatus) ([]*entity.Flight, error) {
	return r.list(ctx, `WHERE status = $1`, status)
}

// AdjustAvailableSeats applies delta in a single guarded statement so the
// bounds check and the write cannot be split by a concurrent transaction.
func (r *flightRepository) AdjustAvailableSeats(ctx context.Context, id uuid.UUID, delta int) (*entity.Flight, error) {
	query := `
		UPDATE flights
		SET available_seats = available_seats + $2, updated_at = NOW()
		WHERE id = $1
		  AND available_seats + $2 >= 0
		  AND available_seats + $2 <= total_seats
		RETURNING ` + flightColumns

	flight, err := scanFlight(r.db.QueryRow(ctx, query, id, delta))
	if err == nil {
		return flight, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to adjust available seats",
			zap.Error(err),
			zap.String("flight_id", id.String()),
			zap.Int("delta", delta),
		)
		return nil, fmt.Errorf("adjust seats of flight %s: %w", id.String(), err)
	}

	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("flight %s not found", id.String())
	}
	if delta < 0 {
		return nil, apperror.NotPermitted("flight %s has no available seats", existing.FlightNumber)
	}
	return nil, apperror.NotPermitted("flight %s cannot exceed %d seats", existing.FlightNumber, existing.TotalSeats)
}

// UpdateStatus only applies when the flight is still in status from.
func (r *flightRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.FlightStatus) error {
	query := `UPDATE flights SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to update flight status",
			zap.Error(err),
			zap.String("flight_id", id.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update flight status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotPermitted("flight is no longer %s", from)
	}

	return nil
}

// Delete removes the flight; its tickets and boarding passes go by cascade.
func (r *flightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete flight",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete flight %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("flight %s not found", id.String())
	}

	return nil
}
