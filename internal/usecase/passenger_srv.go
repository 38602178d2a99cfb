package usecase

import (
	"context"
	"fmt"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/internal/policy"
	"airport-ops/pkg/apperror"
	"airport-ops/pkg/utils"

	"go.uber.org/zap"
)

type PassengerService interface {
	GetByPassport(ctx context.Context, passport string) (*response.PassengerResponse, error)
	GetByPhone(ctx context.Context, phone string) (*response.PassengerResponse, error)
	GetByEmail(ctx context.Context, email string) (*response.PassengerResponse, error)
	GetByUsername(ctx context.Context, username string) (*response.PassengerResponse, error)
	Create(ctx context.Context, req *request.CreatePassengerRequest) (*response.PassengerResponse, error)
	Delete(ctx context.Context, passport string) error
	UpdateLuggageStatus(ctx context.Context, actor policy.Actor, passport string, checked bool) (*response.PassengerResponse, error)
	VerifyPassport(ctx context.Context, passport string) (*response.PassportVerification, error)
}

type passengerService struct {
	repo  *repository.Repository
	infra Infra
	log   *zap.Logger
}

func NewPassengerService(repo *repository.Repository, infra Infra, log *zap.Logger) PassengerService {
	return &passengerService{
		repo:  repo,
		infra: infra,
		log:   log.With(zap.String("service", "passenger")),
	}
}

func (s *passengerService) GetByPassport(ctx context.Context, passport string) (*response.PassengerResponse, error) {
	return s.lookup(ctx, "passport", passport, s.repo.Passenger.FindByPassport)
}

func (s *passengerService) GetByPhone(ctx context.Context, phone string) (*response.PassengerResponse, error) {
	return s.lookup(ctx, "phone", phone, s.repo.Passenger.FindByPhone)
}

func (s *passengerService) GetByEmail(ctx context.Context, email string) (*response.PassengerResponse, error) {
	return s.lookup(ctx, "email", email, s.repo.Passenger.FindByEmail)
}

func (s *passengerService) lookup(
	ctx context.Context,
	field, value string,
	find func(context.Context, string) (*entity.Passenger, error),
) (*response.PassengerResponse, error) {
	passenger, err := find(ctx, value)
	if err != nil {
		s.log.Error("Failed to find passenger", zap.Error(err), zap.String(field, value))
		return nil, fmt.Errorf("failed to get passenger")
	}
	if passenger == nil {
		return nil, apperror.NotFound("passenger with %s %s not found", field, value)
	}
	resp := response.PassengerToResponse(passenger)
	return &resp, nil
}

func (s *passengerService) GetByUsername(ctx context.Context, username string) (*response.PassengerResponse, error) {
	user, err := requireUser(ctx, s.repo, username)
	if err != nil {
		return nil, err
	}

	passenger, err := s.repo.Passenger.FindByUserID(ctx, user.ID)
	if err != nil {
		s.log.Error("Failed to find passenger", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get passenger")
	}
	if passenger == nil {
		return nil, apperror.NotFound("user %s has no passenger profile", username)
	}

	resp := response.PassengerToResponse(passenger)
	return &resp, nil
}

// Create attaches a passenger profile to an existing account.
func (s *passengerService) Create(ctx context.Context, req *request.CreatePassengerRequest) (*response.PassengerResponse, error) {
	if err := validate(s.log, "CreatePassenger", req); err != nil {
		return nil, err
	}

	owner, err := requireUser(ctx, s.repo, req.OwnerUsername)
	if err != nil {
		return nil, err
	}

	passenger := &entity.Passenger{
		Base:           entity.NewBase(s.infra.Now()),
		UserID:         owner.ID,
		PassportNumber: req.PassportNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Username:       owner.Username,
	}

	if err := s.repo.Passenger.Create(ctx, passenger); err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed to create passenger", zap.Error(err), zap.String("passport", req.PassportNumber))
		}
		return nil, err
	}

	s.log.Info("Passenger created",
		zap.String("passport", passenger.PassportNumber),
		zap.String("owner", owner.Username))

	resp := response.PassengerToResponse(passenger)
	return &resp, nil
}

// Delete removes the profile with its tickets and gives their seats back.
func (s *passengerService) Delete(ctx context.Context, passport string) error {
	var released int
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		passenger, err := requirePassenger(ctx, tx, passport)
		if err != nil {
			return err
		}

		tickets, err := tx.Ticket.FindByPassenger(ctx, passenger.ID)
		if err != nil {
			return err
		}
		if err := releaseSeats(ctx, tx, tickets); err != nil {
			return err
		}
		released = len(tickets)

		return tx.Passenger.Delete(ctx, passenger.ID)
	})
	if err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed to delete passenger", zap.Error(err), zap.String("passport", passport))
		}
		return err
	}

	if released > 0 {
		invalidateFlights(ctx, s.infra, s.log)
	}

	s.log.Info("Passenger deleted", zap.String("passport", passport), zap.Int("released_seats", released))
	return nil
}

func (s *passengerService) UpdateLuggageStatus(ctx context.Context, actor policy.Actor, passport string, checked bool) (*response.PassengerResponse, error) {
	passenger, err := requirePassenger(ctx, s.repo, passport)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(ctx, s.repo, actor, passenger.ID); err != nil {
		return nil, err
	}

	updated, err := s.repo.Passenger.UpdateLuggage(ctx, passport, checked)
	if err != nil {
		s.log.Error("Failed to update luggage status", zap.Error(err), zap.String("passport", passport))
		return nil, fmt.Errorf("failed to update luggage status")
	}
	if updated == nil {
		return nil, apperror.NotFound("passenger with passport %s not found", passport)
	}

	s.log.Info("Luggage status updated",
		zap.String("passport", passport),
		zap.Bool("checked", checked),
		zap.String("by", actor.Username))

	resp := response.PassengerToResponse(updated)
	return &resp, nil
}

// VerifyPassport never fails on bad data; the verdict carries the reason.
func (s *passengerService) VerifyPassport(ctx context.Context, passport string) (*response.PassportVerification, error) {
	passenger, err := s.repo.Passenger.FindByPassport(ctx, passport)
	if err != nil {
		s.log.Error("Failed to find passenger", zap.Error(err), zap.String("passport", passport))
		return nil, fmt.Errorf("failed to verify passport")
	}

	valid, message := passportVerdict(passenger, passport)
	verdict := &response.PassportVerification{Valid: valid, Message: message}
	if passenger != nil {
		resp := response.PassengerToResponse(passenger)
		verdict.Passenger = &resp
	}
	return verdict, nil
}

// passportVerdict checks that the passenger exists and that every stored
// document field has the right shape.
func passportVerdict(passenger *entity.Passenger, passport string) (bool, string) {
	switch {
	case passenger == nil:
		return false, "No passenger with this passport"
	case !utils.ValidPassport(passport):
		return false, "Invalid passport format"
	case !utils.ValidPhone(passenger.Phone):
		return false, "Invalid phone format"
	case !utils.ValidEmail(passenger.Email):
		return false, "Invalid email format"
	default:
		return true, "Valid"
	}
}
