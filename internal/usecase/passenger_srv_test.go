package usecase

import (
	"testing"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/dto/request"
	"airport-ops/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPassport(t *testing.T) {
	f := newFixture(t)
	f.register("ivan", "RU123456")

	verdict, err := f.svc.Passenger.VerifyPassport(f.ctx, "RU123456")
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Equal(t, "Valid", verdict.Message)
	require.NotNil(t, verdict.Passenger)
	assert.Equal(t, "ivan", verdict.Passenger.Username)

	verdict, err = f.svc.Passenger.VerifyPassport(f.ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.Equal(t, "No passenger with this passport", verdict.Message)
	assert.Nil(t, verdict.Passenger)
}

func TestPassportVerdict(t *testing.T) {
	good := &entity.Passenger{Phone: "+79991234567", Email: "ivan@example.com"}

	tests := []struct {
		name      string
		passenger *entity.Passenger
		passport  string
		valid     bool
		message   string
	}{
		{"missing passenger", nil, "AB1234", false, "No passenger with this passport"},
		{"short lowercase", good, "ab12", false, "Invalid passport format"},
		{"well formed", good, "AB1234", true, "Valid"},
		{"bad phone", &entity.Passenger{Phone: "12-34", Email: "ivan@example.com"}, "AB1234", false, "Invalid phone format"},
		{"bad email", &entity.Passenger{Phone: "+79991234567", Email: "ivan.example.com"}, "AB1234", false, "Invalid email format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, message := passportVerdict(tt.passenger, tt.passport)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestPassengerLookups(t *testing.T) {
	f := newFixture(t)
	f.register("ivan", "RU123456")

	byPhone, err := f.svc.Passenger.GetByPhone(f.ctx, "+79991234567")
	require.NoError(t, err)
	assert.Equal(t, "RU123456", byPhone.PassportNumber)

	byEmail, err := f.svc.Passenger.GetByEmail(f.ctx, "ivan@example.com")
	require.NoError(t, err)
	assert.Equal(t, "RU123456", byEmail.PassportNumber)

	_, err = f.svc.Passenger.GetByEmail(f.ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	all, err := f.svc.User.ListPassengers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreatePassengerForExistingUser(t *testing.T) {
	f := newFixture(t)
	f.staff("clerk", entity.RoleAirportStaff)

	created, err := f.svc.Passenger.Create(f.ctx, &request.CreatePassengerRequest{
		OwnerUsername:  "clerk",
		PassportNumber: "GB765432",
		Phone:          "+441234567890",
		Email:          "clerk@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "clerk", created.Username)

	_, err = f.svc.Passenger.Create(f.ctx, &request.CreatePassengerRequest{
		OwnerUsername:  "ghost",
		PassportNumber: "GB111111",
		Phone:          "+441234567891",
		Email:          "ghost@example.com",
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.Passenger.Create(f.ctx, &request.CreatePassengerRequest{
		OwnerUsername:  "clerk",
		PassportNumber: "GB222222",
		Phone:          "+441234567892",
		Email:          "clerk2@example.com",
	})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestUpdateLuggageStatus(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	anna := f.register("anna", "RU654321")

	updated, err := f.svc.Passenger.UpdateLuggageStatus(f.ctx, ivan, "RU123456", true)
	require.NoError(t, err)
	assert.True(t, updated.LuggageChecked)

	_, err = f.svc.Passenger.UpdateLuggageStatus(f.ctx, anna, "RU123456", false)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	_, err = f.svc.Passenger.UpdateLuggageStatus(f.ctx, f.admin, "XX000000", true)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeletePassengerReleasesSeats(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 2)
	f.mustBook(ivan, "SU100", "", "1A")

	require.NoError(t, f.svc.Passenger.Delete(f.ctx, "RU123456"))
	assert.Equal(t, 2, f.availableSeats("SU100"))

	// the account survives without a profile
	_, err := f.svc.User.Get(f.ctx, "ivan")
	assert.NoError(t, err)
	_, err = f.svc.Passenger.GetByUsername(f.ctx, "ivan")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, f.svc.Passenger.Delete(f.ctx, "RU123456"), apperror.ErrNotFound)
}
