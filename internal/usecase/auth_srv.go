package usecase

import (
	"context"
	"fmt"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/pkg/apperror"
	"airport-ops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	infra  Infra
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, infra Infra, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		infra:  infra,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Register creates a PASSENGER account together with its passenger profile
// and logs the new user in.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if err := validate(s.log, "Register", req); err != nil {
		return nil, err
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	now := s.infra.Now()
	user := &entity.User{
		Base:         entity.NewBase(now),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Role:         entity.RolePassenger,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	passenger := &entity.Passenger{
		Base:           entity.NewBase(now),
		UserID:         user.ID,
		PassportNumber: req.PassportNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Username:       user.Username,
	}

	// 3. Save user and profile together
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		return tx.Passenger.Create(ctx, passenger)
	})
	if err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed to register user", zap.Error(err), zap.String("username", req.Username))
		}
		return nil, err
	}

	// 4. Log in right away
	session, err := s.createSession(ctx, user.ID, req.Client)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("passport", passenger.PassportNumber))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if err := validate(s.log, "Login", req); err != nil {
		return nil, err
	}

	user, err := s.Authenticate(ctx, req.Username, req.Password)
	s.infra.Metrics.ObserveLogin(err == nil)
	if err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, user.ID, req.Client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

// Authenticate returns NotFound for an unknown username and NotPermitted for
// a wrong password.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.repo.User.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("username", username))
		return nil, apperror.NotFound("user %s not found", username)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, apperror.NotPermitted("invalid credentials")
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return apperror.Validation("invalid token format")
	}

	revoked, err := s.repo.Session.Revoke(ctx, tokenUUID)
	if err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout")
	}
	if !revoked {
		return apperror.NotFound("session not found or already revoked")
	}

	s.log.Info("User logged out")
	return nil
}

// createSession opens a session; client describes the caller's browser and is
// stored only when known.
func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client string) (*entity.Session, error) {
	now := s.infra.Now()
	hours := s.config.Session.ExpiryHours
	if hours <= 0 {
		hours = 24
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(time.Duration(hours) * time.Hour),
	}
	if client != "" {
		session.UserAgent = &client
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
