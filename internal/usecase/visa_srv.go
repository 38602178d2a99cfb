package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/internal/policy"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VisaRegistry answers whether a passport holds a visa for a destination.
type VisaRegistry interface {
	HasValidVisa(ctx context.Context, passport, country string, at time.Time) (bool, error)
}

type VisaService interface {
	VisaRegistry
	Register(ctx context.Context, actor policy.Actor, req *request.RegisterVisaRequest) (*response.VisaResponse, error)
	ListByPassport(ctx context.Context, passport string) ([]response.VisaResponse, error)
}

type visaService struct {
	repo  *repository.Repository
	infra Infra
	log   *zap.Logger
}

func NewVisaService(repo *repository.Repository, infra Infra, log *zap.Logger) VisaService {
	return &visaService{
		repo:  repo,
		infra: infra,
		log:   log.With(zap.String("service", "visa")),
	}
}

func (s *visaService) Register(ctx context.Context, actor policy.Actor, req *request.RegisterVisaRequest) (*response.VisaResponse, error) {
	if err := validate(s.log, "RegisterVisa", req); err != nil {
		return nil, err
	}

	if _, err := requirePassenger(ctx, s.repo, req.PassportNumber); err != nil {
		return nil, err
	}

	visa := &entity.Visa{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.infra.Now(),
		},
		PassportNumber: req.PassportNumber,
		Country:        strings.ToUpper(strings.TrimSpace(req.Country)),
		ValidUntil:     req.ValidUntil,
	}
	if actor.UserID != uuid.Nil {
		issuer := actor.UserID
		visa.IssuedBy = &issuer
	}

	if err := s.repo.Visa.Create(ctx, visa); err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed to register visa", zap.Error(err), zap.String("passport", req.PassportNumber))
		}
		return nil, err
	}

	s.log.Info("Visa registered",
		zap.String("passport", visa.PassportNumber),
		zap.String("country", visa.Country),
		zap.Time("valid_until", visa.ValidUntil),
		zap.String("by", actor.Username))

	resp := response.VisaToResponse(visa)
	return &resp, nil
}

func (s *visaService) ListByPassport(ctx context.Context, passport string) ([]response.VisaResponse, error) {
	visas, err := s.repo.Visa.FindByPassport(ctx, passport)
	if err != nil {
		s.log.Error("Failed to list visas", zap.Error(err), zap.String("passport", passport))
		return nil, fmt.Errorf("failed to get visas")
	}

	out := make([]response.VisaResponse, 0, len(visas))
	for _, v := range visas {
		out = append(out, response.VisaToResponse(v))
	}
	return out, nil
}

func (s *visaService) HasValidVisa(ctx context.Context, passport, country string, at time.Time) (bool, error) {
	visas, err := s.repo.Visa.FindByPassport(ctx, passport)
	if err != nil {
		return false, err
	}
	for _, v := range visas {
		if v.CoversAt(country, at) {
			return true, nil
		}
	}
	return false, nil
}
