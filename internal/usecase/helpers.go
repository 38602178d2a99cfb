package usecase

import (
	"context"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/policy"
	"airport-ops/pkg/apperror"
	"airport-ops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// validate checks input shape before anything is touched.
func validate(log *zap.Logger, operation string, req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		log.Warn(operation+" validation failed", zap.Any("errors", errs))
		return apperror.Validation("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	return nil
}

func requireFlight(ctx context.Context, repo *repository.Repository, flightNumber string) (*entity.Flight, error) {
	flight, err := repo.Flight.FindByNumber(ctx, flightNumber)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, apperror.NotFound("flight %s not found", flightNumber)
	}
	return flight, nil
}

func requirePassenger(ctx context.Context, repo *repository.Repository, passport string) (*entity.Passenger, error) {
	passenger, err := repo.Passenger.FindByPassport(ctx, passport)
	if err != nil {
		return nil, err
	}
	if passenger == nil {
		return nil, apperror.NotFound("passenger with passport %s not found", passport)
	}
	return passenger, nil
}

func requireTicket(ctx context.Context, repo *repository.Repository, ticketNumber string) (*entity.Ticket, error) {
	ticket, err := repo.Ticket.FindByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperror.NotFound("ticket %s not found", ticketNumber)
	}
	return ticket, nil
}

func requireUser(ctx context.Context, repo *repository.Repository, username string) (*entity.User, error) {
	user, err := repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user %s not found", username)
	}
	return user, nil
}

// ownPassenger returns the passenger profile of a PASSENGER actor.
func ownPassenger(ctx context.Context, repo *repository.Repository, actor policy.Actor) (*entity.Passenger, error) {
	passenger, err := repo.Passenger.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if passenger == nil {
		return nil, apperror.NotFound("user %s has no passenger profile", actor.Username)
	}
	return passenger, nil
}

// checkOwnership lets passengers act only on their own profile; every other
// role passed the operation table already.
func checkOwnership(ctx context.Context, repo *repository.Repository, actor policy.Actor, passengerID uuid.UUID) error {
	if !actor.Is(entity.RolePassenger) {
		return nil
	}
	own, err := ownPassenger(ctx, repo, actor)
	if err != nil {
		return err
	}
	if own.ID != passengerID {
		return apperror.Denied("passengers may only act on their own tickets and profile")
	}
	return nil
}

// releaseSeats returns one seat per ticket to its flight.
func releaseSeats(ctx context.Context, tx *repository.Repository, tickets []*entity.Ticket) error {
	for _, ticket := range tickets {
		if _, err := tx.Flight.AdjustAvailableSeats(ctx, ticket.FlightID, 1); err != nil {
			return err
		}
	}
	return nil
}

func invalidateFlights(ctx context.Context, infra Infra, log *zap.Logger) {
	if err := infra.Cache.InvalidateFlights(ctx); err != nil {
		log.Warn("Failed to invalidate flight cache", zap.Error(err))
	}
}
