package usecase

import (
	"testing"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/dto/request"
	"airport-ops/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStaff(t *testing.T) {
	f := newFixture(t)

	guard := f.staff("guard", entity.RoleBorderGuard)
	assert.Equal(t, entity.RoleBorderGuard, guard.Role)

	_, err := f.svc.User.CreateStaff(f.ctx, &request.CreateUserRequest{
		Username:  "sneaky",
		Password:  "password1",
		Role:      string(entity.RolePassenger),
		FirstName: "S",
		LastName:  "P",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.svc.User.CreateStaff(f.ctx, &request.CreateUserRequest{
		Username:  "guard",
		Password:  "password1",
		Role:      string(entity.RoleCustomsOfficer),
		FirstName: "G",
		LastName:  "D",
	})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)

	users, err := f.svc.User.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdateUserKeepsRole(t *testing.T) {
	f := newFixture(t)
	f.register("ivan", "RU123456")

	first, password := "Ivan", "new-password"
	updated, err := f.svc.User.Update(f.ctx, "ivan", &request.UpdateUserRequest{FirstName: &first, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, entity.RolePassenger, updated.Role)

	_, err = f.svc.Auth.Authenticate(f.ctx, "ivan", "new-password")
	assert.NoError(t, err)

	_, err = f.svc.User.Update(f.ctx, "ghost", &request.UpdateUserRequest{FirstName: &first})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteUserReleasesSeats(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 4)
	f.mustBook(ivan, "SU100", "", "1A")
	f.mustBook(ivan, "SU100", "", "1B")
	assert.Equal(t, 2, f.availableSeats("SU100"))

	require.NoError(t, f.svc.User.Delete(f.ctx, f.admin, "ivan"))
	assert.Equal(t, 4, f.availableSeats("SU100"))

	_, err := f.svc.Passenger.GetByPassport(f.ctx, "RU123456")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	seats, err := f.svc.Ticket.OccupiedSeats(f.ctx, "SU100")
	require.NoError(t, err)
	assert.Empty(t, seats.OccupiedSeats)

	assert.ErrorIs(t, f.svc.User.Delete(f.ctx, f.admin, "ivan"), apperror.ErrNotFound)
	assert.ErrorIs(t, f.svc.User.Delete(f.ctx, f.admin, "admin"), apperror.ErrNotPermitted)
}
