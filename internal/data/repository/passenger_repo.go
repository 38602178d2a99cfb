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

type PassengerRepository interface {
	Create(ctx context.Context, passenger *entity.Passenger) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Passenger, error)
	FindByPassport(ctx context.Context, passport string) (*entity.Passenger, error)
	FindByPhone(ctx context.Context, phone string) (*entity.Passenger, error)
	FindByEmail(ctx context.Context, email string) (*entity.Passenger, error)
	FindAll(ctx context.Context) ([]*entity.Passenger, error)
	UpdateLuggage(ctx context.Context, passport string, checked bool) (*entity.Passenger, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type passengerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPassengerRepository(db database.Querier, log *zap.Logger) PassengerRepository {
	return &passengerRepository{
		db:  db,
		log: log.With(zap.String("repository", "passenger")),
	}
}

const passengerSelect = `
	SELECT p.id, p.user_id, p.passport_number, p.phone, p.email, p.luggage_checked,
	       p.created_at, p.updated_at, u.username
	FROM passengers p
	JOIN users u ON u.id = p.user_id
`

func scanPassenger(row pgx.Row) (*entity.Passenger, error) {
	var p entity.Passenger
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.PassportNumber,
		&p.Phone,
		&p.Email,
		&p.LuggageChecked,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Username,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *passengerRepository) Create(ctx context.Context, passenger *entity.Passenger) error {
	query := `
		INSERT INTO passengers (id, user_id, passport_number, phone, email, luggage_checked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		passenger.ID,
		passenger.UserID,
		passenger.PassportNumber,
		passenger.Phone,
		passenger.Email,
		passenger.LuggageChecked,
		passenger.CreatedAt,
		passenger.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		if database.ConstraintName(err) == "passengers_user_id_key" {
			return apperror.AlreadyExists("user already has a passenger profile")
		}
		return apperror.AlreadyExists("passport %s is already registered", passenger.PassportNumber)
	}
	if err != nil {
		r.log.Error("Failed to create passenger",
			zap.Error(err),
			zap.String("passport", passenger.PassportNumber),
		)
		return fmt.Errorf("create passenger %s: %w", passenger.PassportNumber, err)
	}

	return nil
}

func (r *passengerRepository) findOne(ctx context.Context, where, key string, arg any) (*entity.Passenger, error) {
	p, err := scanPassenger(r.db.QueryRow(ctx, passengerSelect+" WHERE "+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find passenger",
			zap.Error(err),
			zap.String(key, fmt.Sprint(arg)),
		)
		return nil, fmt.Errorf("find passenger by %s %v: %w", key, arg, err)
	}
	return p, nil
}

func (r *passengerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Passenger, error) {
	return r.findOne(ctx, "p.id = $1", "id", id)
}

func (r *passengerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Passenger, error) {
	return r.findOne(ctx, "p.user_id = $1", "user_id", userID)
}

func (r *passengerRepository) FindByPassport(ctx context.Context, passport string) (*entity.Passenger, error) {
	return r.findOne(ctx, "p.passport_number = $1", "passport", passport)
}

// FindByPhone returns the earliest profile using the phone; phones are not unique.
func (r *passengerRepository) FindByPhone(ctx context.Context, phone string) (*entity.Passenger, error) {
	return r.findOne(ctx, "p.phone = $1 ORDER BY p.created_at LIMIT 1", "phone", phone)
}

func (r *passengerRepository) FindByEmail(ctx context.Context, email string) (*entity.Passenger, error) {
	return r.findOne(ctx, "p.email = $1 ORDER BY p.created_at LIMIT 1", "email", email)
}

func (r *passengerRepository) FindAll(ctx context.Context) ([]*entity.Passenger, error) {
	rows, err := r.db.Query(ctx, passengerSelect+" ORDER BY p.created_at, p.passport_number")
	if err != nil {
		r.log.Error("Failed to get all passengers", zap.Error(err))
		return nil, fmt.Errorf("find all passengers: %w", err)
	}
	defer rows.Close()

	var passengers []*entity.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			r.log.Error("Failed to scan passenger row", zap.Error(err))
			return nil, fmt.Errorf("scan passenger row: %w", err)
		}
		passengers = append(passengers, p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate passenger rows: %w", err)
	}

	return passengers, nil
}

// UpdateLuggage returns nil when no passenger holds the passport.
func (r *passengerRepository) UpdateLuggage(ctx context.Context, passport string, checked bool) (*entity.Passenger, error) {
	query := `
		UPDATE passengers
		SET luggage_checked = $2, updated_at = NOW()
		WHERE passport_number = $1
	`

	result, err := r.db.Exec(ctx, query, passport, checked)
	if err != nil {
		r.log.Error("Failed to update luggage status",
			zap.Error(err),
			zap.String("passport", passport),
		)
		return nil, fmt.Errorf("update luggage %s: %w", passport, err)
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}

	return r.FindByPassport(ctx, passport)
}

func (r *passengerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM passengers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete passenger",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete passenger %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("passenger %s not found", id.String())
	}

	return nil
}
