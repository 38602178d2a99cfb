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

type UserService interface {
	GetProfile(ctx context.Context, actor policy.Actor) (*response.AuthResponse, error)
	Get(ctx context.Context, username string) (*response.UserResponse, error)
	List(ctx context.Context) ([]response.UserResponse, error)
	ListPassengers(ctx context.Context) ([]response.PassengerResponse, error)
	CreateStaff(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	Update(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error)
	Delete(ctx context.Context, actor policy.Actor, username string) error
	EnsureAdmin(ctx context.Context, username, password string) error
}

type userService struct {
	repo  *repository.Repository
	infra Infra
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, infra Infra, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		infra: infra,
		log:   log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, actor policy.Actor) (*response.AuthResponse, error) {
	user, err := us.repo.User.FindByID(ctx, actor.UserID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	resp := response.AuthToResponse(user, nil)
	return &resp, nil
}

func (us *userService) Get(ctx context.Context, username string) (*response.UserResponse, error) {
	user, err := requireUser(ctx, us.repo, username)
	if err != nil {
		return nil, err
	}
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) List(ctx context.Context) ([]response.UserResponse, error) {
	users, err := us.repo.User.FindAll(ctx)
	if err != nil {
		us.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to get users")
	}
	return response.UsersToResponse(users), nil
}

func (us *userService) ListPassengers(ctx context.Context) ([]response.PassengerResponse, error) {
	passengers, err := us.repo.Passenger.FindAll(ctx)
	if err != nil {
		us.log.Error("Failed to list passengers", zap.Error(err))
		return nil, fmt.Errorf("failed to get passengers")
	}
	return response.PassengersToResponse(passengers), nil
}

// CreateStaff creates an account for any role except PASSENGER, which only
// registration can produce.
func (us *userService) CreateStaff(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if err := validate(us.log, "CreateStaff", req); err != nil {
		return nil, err
	}

	role := entity.UserRole(req.Role)
	if !role.Valid() || role == entity.RolePassenger {
		return nil, apperror.Validation("role %s cannot be assigned here", req.Role)
	}

	user, err := us.createUser(ctx, req.Username, req.Password, role, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	us.log.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) Update(ctx context.Context, username string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if err := validate(us.log, "UpdateUser", req); err != nil {
		return nil, err
	}

	user, err := requireUser(ctx, us.repo, username)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			us.log.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("failed to process password")
		}
		user.PasswordHash = hashed
	}
	user.UpdatedAt = us.infra.Now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		if !apperror.IsExpected(err) {
			us.log.Error("Failed to update user", zap.Error(err), zap.String("username", username))
		}
		return nil, err
	}

	us.log.Info("User updated", zap.String("username", username))
	resp := response.UserToResponse(user)
	return &resp, nil
}

// Delete removes the account and everything it owns. Seats held by the
// user's tickets go back to their flights in the same transaction.
func (us *userService) Delete(ctx context.Context, actor policy.Actor, username string) error {
	if actor.Username == username {
		return apperror.Denied("you cannot delete your own account")
	}

	var released int
	err := us.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		user, err := requireUser(ctx, tx, username)
		if err != nil {
			return err
		}

		passenger, err := tx.Passenger.FindByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		if passenger != nil {
			tickets, err := tx.Ticket.FindByPassenger(ctx, passenger.ID)
			if err != nil {
				return err
			}
			if err := releaseSeats(ctx, tx, tickets); err != nil {
				return err
			}
			released = len(tickets)
		}

		return tx.User.Delete(ctx, user.ID)
	})
	if err != nil {
		if !apperror.IsExpected(err) {
			us.log.Error("Failed to delete user", zap.Error(err), zap.String("username", username))
		}
		return err
	}

	if released > 0 {
		invalidateFlights(ctx, us.infra, us.log)
	}

	us.log.Info("User deleted",
		zap.String("username", username),
		zap.String("deleted_by", actor.Username),
		zap.Int("released_seats", released))
	return nil
}

// EnsureAdmin creates the configured administrator when it does not exist.
func (us *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	existing, err := us.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("find admin %s: %w", username, err)
	}
	if existing != nil {
		return nil
	}

	user, err := us.createUser(ctx, username, password, entity.RoleAdmin, "System", "Administrator")
	if err != nil {
		return fmt.Errorf("create admin %s: %w", username, err)
	}

	us.log.Info("Administrator created", zap.String("username", user.Username))
	return nil
}

func (us *userService) createUser(ctx context.Context, username, password string, role entity.UserRole, first, last string) (*entity.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		us.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	user := &entity.User{
		Base:         entity.NewBase(us.infra.Now()),
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		FirstName:    first,
		LastName:     last,
	}

	if err := us.repo.User.Create(ctx, user); err != nil {
		if !apperror.IsExpected(err) {
			us.log.Error("Failed to create user", zap.Error(err), zap.String("username", username))
		}
		return nil, err
	}
	return user, nil
}
