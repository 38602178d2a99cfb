package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"
	"airport-ops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BoardingPassRepository interface {
	Create(ctx context.Context, pass *entity.BoardingPass) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BoardingPass, error)
	FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*entity.BoardingPass, error)
	SetPassportVerified(ctx context.Context, id uuid.UUID, verified bool, by uuid.UUID, at time.Time) error
	SetLuggageVerified(ctx context.Context, id uuid.UUID, verified bool, by uuid.UUID, at time.Time) error
	SetBoarded(ctx context.Context, id uuid.UUID, boarded bool, at time.Time) error
}

type boardingPassRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBoardingPassRepository(db database.Querier, log *zap.Logger) BoardingPassRepository {
	return &boardingPassRepository{
		db:  db,
		log: log.With(zap.String("repository", "boarding_pass")),
	}
}

const boardingPassSelect = `
	SELECT b.id, b.ticket_id, b.check_in_time, b.passport_verified, b.luggage_verified, b.boarded,
	       b.verified_by_border_guard, b.verified_by_customs, b.created_at, b.updated_at,
	       t.ticket_number, t.status
	FROM boarding_passes b
	JOIN tickets t ON t.id = b.ticket_id
`

func (r *boardingPassRepository) Create(ctx context.Context, pass *entity.BoardingPass) error {
	query := `
		INSERT INTO boarding_passes (id, ticket_id, check_in_time, passport_verified, luggage_verified,
		                             boarded, verified_by_border_guard, verified_by_customs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		pass.ID,
		pass.TicketID,
		pass.CheckInTime,
		pass.PassportVerified,
		pass.LuggageVerified,
		pass.Boarded,
		pass.VerifiedByBorderGuard,
		pass.VerifiedByCustoms,
		pass.CreatedAt,
		pass.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		return apperror.AlreadyExists("ticket already has a boarding pass")
	}
	if err != nil {
		r.log.Error("Failed to create boarding pass",
			zap.Error(err),
			zap.String("ticket_id", pass.TicketID.String()),
		)
		return fmt.Errorf("create boarding pass for ticket %s: %w", pass.TicketID.String(), err)
	}

	return nil
}

func (r *boardingPassRepository) findOne(ctx context.Context, where string, id uuid.UUID) (*entity.BoardingPass, error) {
	var b entity.BoardingPass
	err := r.db.QueryRow(ctx, boardingPassSelect+" WHERE "+where, id).Scan(
		&b.ID,
		&b.TicketID,
		&b.CheckInTime,
		&b.PassportVerified,
		&b.LuggageVerified,
		&b.Boarded,
		&b.VerifiedByBorderGuard,
		&b.VerifiedByCustoms,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.TicketNumber,
		&b.TicketStatus,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find boarding pass",
			zap.Error(err),
			zap.String("filter", where),
			zap.String("id", id.String()),
		)
		return nil, fmt.Errorf("find boarding pass %s: %w", id.String(), err)
	}

	return &b, nil
}

func (r *boardingPassRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BoardingPass, error) {
	return r.findOne(ctx, "b.id = $1", id)
}

func (r *boardingPassRepository) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*entity.BoardingPass, error) {
	return r.findOne(ctx, "b.ticket_id = $1", ticketID)
}

// SetPassportVerified writes the border flag and its attribution only, so a
// concurrent customs update of the same pass is kept.
func (r *boardingPassRepository) SetPassportVerified(ctx context.Context, id uuid.UUID, verified bool, by uuid.UUID, at time.Time) error {
	return r.setFields(ctx, id, "passport_verified = $2, verified_by_border_guard = $3, updated_at = $4", verified, by, at)
}

// SetLuggageVerified writes the customs flag and its attribution only.
func (r *boardingPassRepository) SetLuggageVerified(ctx context.Context, id uuid.UUID, verified bool, by uuid.UUID, at time.Time) error {
	return r.setFields(ctx, id, "luggage_verified = $2, verified_by_customs = $3, updated_at = $4", verified, by, at)
}

func (r *boardingPassRepository) SetBoarded(ctx context.Context, id uuid.UUID, boarded bool, at time.Time) error {
	return r.setFields(ctx, id, "boarded = $2, updated_at = $3", boarded, at)
}

func (r *boardingPassRepository) setFields(ctx context.Context, id uuid.UUID, set string, args ...any) error {
	query := `UPDATE boarding_passes SET ` + set + ` WHERE id = $1`

	result, err := r.db.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		r.log.Error("Failed to update boarding pass",
			zap.Error(err),
			zap.String("set", set),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("update boarding pass %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NotFound("boarding pass %s not found", id.String())
	}

	return nil
}
