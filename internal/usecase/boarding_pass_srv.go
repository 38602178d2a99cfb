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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BoardingPassService interface {
	GetByTicketNumber(ctx context.Context, ticketNumber string) (*response.BoardingPassResponse, error)
	SetVerificationFlags(ctx context.Context, actor policy.Actor, id uuid.UUID, req *request.VerificationRequest) (*response.BoardingPassResponse, error)
	SetBoardedFlag(ctx context.Context, id uuid.UUID, boarded bool) (*response.BoardingPassResponse, error)
	Readiness(ctx context.Context, id uuid.UUID) (*response.ReadinessResponse, error)
}

type boardingPassService struct {
	repo  *repository.Repository
	infra Infra
	log   *zap.Logger
}

func NewBoardingPassService(repo *repository.Repository, infra Infra, log *zap.Logger) BoardingPassService {
	return &boardingPassService{
		repo:  repo,
		infra: infra,
		log:   log.With(zap.String("service", "boarding_pass")),
	}
}

// GetByTicketNumber returns nil without error until the ticket is checked in.
func (s *boardingPassService) GetByTicketNumber(ctx context.Context, ticketNumber string) (*response.BoardingPassResponse, error) {
	ticket, err := requireTicket(ctx, s.repo, ticketNumber)
	if err != nil {
		return nil, err
	}

	pass, err := s.repo.BoardingPass.FindByTicketID(ctx, ticket.ID)
	if err != nil {
		s.log.Error("Failed to find boarding pass", zap.Error(err), zap.String("ticket_number", ticketNumber))
		return nil, fmt.Errorf("failed to get boarding pass")
	}
	if pass == nil {
		return nil, nil
	}

	resp := response.BoardingPassToResponse(pass)
	return &resp, nil
}

// SetVerificationFlags lets border guards set the passport flag and customs
// officers the luggage flag; each records who verified it.
func (s *boardingPassService) SetVerificationFlags(ctx context.Context, actor policy.Actor, id uuid.UUID, req *request.VerificationRequest) (*response.BoardingPassResponse, error) {
	if req.PassportVerified == nil && req.LuggageVerified == nil {
		return nil, apperror.Validation("validation failed: passport_verified or luggage_verified is required")
	}
	if req.PassportVerified != nil {
		if err := policy.Authorize(actor, policy.VerifyPassportFlag); err != nil {
			return nil, err
		}
	}
	if req.LuggageVerified != nil {
		if err := policy.Authorize(actor, policy.VerifyLuggageFlag); err != nil {
			return nil, err
		}
	}

	// flags are written one column pair at a time
	now := s.infra.Now()
	if req.PassportVerified != nil {
		if err := s.repo.BoardingPass.SetPassportVerified(ctx, id, *req.PassportVerified, actor.UserID, now); err != nil {
			return nil, s.updateFailed(id, err)
		}
	}
	if req.LuggageVerified != nil {
		if err := s.repo.BoardingPass.SetLuggageVerified(ctx, id, *req.LuggageVerified, actor.UserID, now); err != nil {
			return nil, s.updateFailed(id, err)
		}
	}

	pass, err := s.requirePass(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("Boarding pass verified",
		zap.String("ticket_number", pass.TicketNumber),
		zap.Bool("passport_verified", pass.PassportVerified),
		zap.Bool("luggage_verified", pass.LuggageVerified),
		zap.String("by", actor.Username))

	resp := response.BoardingPassToResponse(pass)
	return &resp, nil
}

// SetBoardedFlag raises the flag only for BOARDED tickets; clearing it is
// always allowed and leaves the ticket BOARDED.
func (s *boardingPassService) SetBoardedFlag(ctx context.Context, id uuid.UUID, boarded bool) (*response.BoardingPassResponse, error) {
	pass, err := s.requirePass(ctx, id)
	if err != nil {
		return nil, err
	}

	if boarded && pass.TicketStatus != entity.TicketBoarded {
		return nil, apperror.NotPermitted("ticket %s is %s; board the ticket first", pass.TicketNumber, pass.TicketStatus)
	}

	now := s.infra.Now()
	if err := s.repo.BoardingPass.SetBoarded(ctx, id, boarded, now); err != nil {
		return nil, s.updateFailed(id, err)
	}
	pass.Boarded = boarded
	pass.UpdatedAt = now

	s.log.Info("Boarded flag set", zap.String("ticket_number", pass.TicketNumber), zap.Bool("boarded", boarded))
	resp := response.BoardingPassToResponse(pass)
	return &resp, nil
}

// Readiness reports whether the holder may board: both verifications done
// and the ticket checked in.
func (s *boardingPassService) Readiness(ctx context.Context, id uuid.UUID) (*response.ReadinessResponse, error) {
	pass, err := s.requirePass(ctx, id)
	if err != nil {
		return nil, err
	}

	issues := []string{}
	if !pass.PassportVerified {
		issues = append(issues, "Passport not verified")
	}
	if !pass.LuggageVerified {
		issues = append(issues, "Luggage not verified")
	}
	switch pass.TicketStatus {
	case entity.TicketCheckedIn:
	case entity.TicketBooked:
		issues = append(issues, "Ticket not checked in")
	default:
		issues = append(issues, fmt.Sprintf("Ticket already %s", pass.TicketStatus))
	}

	return &response.ReadinessResponse{
		BoardingPassID:   pass.ID.String(),
		TicketNumber:     pass.TicketNumber,
		TicketStatus:     pass.TicketStatus,
		PassportVerified: pass.PassportVerified,
		LuggageVerified:  pass.LuggageVerified,
		Ready:            len(issues) == 0,
		Issues:           issues,
	}, nil
}

func (s *boardingPassService) requirePass(ctx context.Context, id uuid.UUID) (*entity.BoardingPass, error) {
	pass, err := s.repo.BoardingPass.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find boarding pass", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get boarding pass")
	}
	if pass == nil {
		return nil, apperror.NotFound("boarding pass %s not found", id.String())
	}
	return pass, nil
}

func (s *boardingPassService) updateFailed(id uuid.UUID, err error) error {
	if !apperror.IsExpected(err) {
		s.log.Error("Failed to update boarding pass", zap.Error(err), zap.String("id", id.String()))
	}
	return err
}
