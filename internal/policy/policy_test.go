package policy

import (
	"context"
	"testing"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		role entity.UserRole
		op   Operation
		want bool
	}{
		{entity.RoleAdmin, ManageFlights, true},
		{entity.RoleAirportStaff, ManageFlights, false},
		{entity.RoleAirportStaff, UpdateFlightStatus, true},
		{entity.RolePassenger, BookTicket, true},
		{entity.RolePassenger, Board, false},
		{entity.RoleBorderGuard, BorderCheck, true},
		{entity.RoleBorderGuard, CustomsCheck, false},
		{entity.RoleCustomsOfficer, CustomsCheck, true},
		{entity.RoleCustomsOfficer, VerifyPassportFlag, false},
		{entity.RoleCustomsOfficer, VerifyLuggageFlag, true},
		{entity.RoleAdmin, ViewOwnTickets, false},
		{entity.UserRole("customer"), ViewTickets, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Allowed(c.role, c.op), "%s/%s", c.role, c.op)
	}
}

func TestAuthorize(t *testing.T) {
	err := Authorize(Actor{Role: entity.RolePassenger}, ManageUsers)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	assert.NoError(t, Authorize(Actor{Role: entity.RoleAdmin}, ManageUsers))
}

func TestEveryOperationHasARole(t *testing.T) {
	for _, op := range allOperations {
		assert.NotEmpty(t, table[op], string(op))
	}
	assert.Len(t, table, len(allOperations))
}

func TestOperations(t *testing.T) {
	ops := Operations(entity.RoleBorderGuard)
	assert.ElementsMatch(t, []Operation{ManageVisas, ViewTickets, LookupPassengers, BorderCheck, VerifyPassportFlag}, ops)
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	actor := Actor{UserID: uuid.New(), Username: "ivan", Role: entity.RolePassenger}
	got, ok := ActorFromContext(WithActor(context.Background(), actor))
	assert.True(t, ok)
	assert.Equal(t, actor, got)
}
