package repository

import (
	"context"
	"fmt"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VisaRepository interface {
	Create(ctx context.Context, visa *entity.Visa) error
	FindByPassport(ctx context.Context, passport string) ([]*entity.Visa, error)
}

type visaRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewVisaRepository(db database.Querier, log *zap.Logger) VisaRepository {
	return &visaRepository{
		db:  db,
		log: log.With(zap.String("repository", "visa")),
	}
}

func (r *visaRepository) Create(ctx context.Context, visa *entity.Visa) error {
	query := `
		INSERT INTO visas (id, passport_number, country, valid_until, issued_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		visa.ID,
		visa.PassportNumber,
		visa.Country,
		visa.ValidUntil,
		visa.IssuedBy,
		visa.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create visa",
			zap.Error(err),
			zap.String("passport", visa.PassportNumber),
			zap.String("country", visa.Country),
		)
		return fmt.Errorf("create visa for %s: %w", visa.PassportNumber, err)
	}

	return nil
}

func (r *visaRepository) FindByPassport(ctx context.Context, passport string) ([]*entity.Visa, error) {
	query := `
		SELECT id, passport_number, country, valid_until, issued_by, created_at
		FROM visas
		WHERE passport_number = $1
		ORDER BY valid_until DESC
	`

	rows, err := r.db.Query(ctx, query, passport)
	if err != nil {
		r.log.Error("Failed to list visas", zap.Error(err), zap.String("passport", passport))
		return nil, fmt.Errorf("find visas of %s: %w", passport, err)
	}

	visas, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Visa, error) {
		var v entity.Visa
		err := row.Scan(&v.ID, &v.PassportNumber, &v.Country, &v.ValidUntil, &v.IssuedBy, &v.CreatedAt)
		return &v, err
	})
	if err != nil {
		r.log.Error("Failed to scan visa rows", zap.Error(err))
		return nil, fmt.Errorf("scan visa rows: %w", err)
	}

	return visas, nil
}
