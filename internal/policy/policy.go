// Package policy holds the single role to operation table consulted at the
// HTTP entry boundary, and the Actor identity passed explicitly into services.
package policy

import (
	"context"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     entity.UserRole
}

func (a Actor) Is(role entity.UserRole) bool {
	return a.Role == role
}

// System is used for work the service performs on its own behalf, such as
// bootstrapping the first administrator.
var System = Actor{Username: "system", Role: entity.RoleAdmin}

type Operation string

const (
	ManageFlights      Operation = "manage_flights"
	ManageUsers        Operation = "manage_users"
	ManageVisas        Operation = "manage_visas"
	UpdateFlightStatus Operation = "update_flight_status"
	BookTicket         Operation = "book_ticket"
	CancelTicket       Operation = "cancel_ticket"
	ViewOwnTickets     Operation = "view_own_tickets"
	CheckIn            Operation = "check_in"
	Board              Operation = "board"
	ViewTickets        Operation = "view_tickets"
	LookupPassengers   Operation = "lookup_passengers"
	UpdateLuggage      Operation = "update_luggage"
	BorderCheck        Operation = "border_check"
	VerifyPassportFlag Operation = "verify_passport_flag"
	CustomsCheck       Operation = "customs_check"
	VerifyLuggageFlag  Operation = "verify_luggage_flag"
)

var (
	admin     = entity.RoleAdmin
	passenger = entity.RolePassenger
	staff     = entity.RoleAirportStaff
	border    = entity.RoleBorderGuard
	customs   = entity.RoleCustomsOfficer
)

var table = map[Operation][]entity.UserRole{
	ManageFlights:      {admin},
	ManageUsers:        {admin},
	ManageVisas:        {admin, border},
	UpdateFlightStatus: {admin, staff},
	BookTicket:         {admin, passenger},
	CancelTicket:       {admin, passenger},
	ViewOwnTickets:     {passenger},
	CheckIn:            {admin, passenger, staff},
	Board:              {admin, staff},
	ViewTickets:        {admin, staff, border, customs},
	LookupPassengers:   {admin, staff, border, customs},
	UpdateLuggage:      {admin, passenger, staff, customs},
	BorderCheck:        {admin, border},
	VerifyPassportFlag: {admin, border},
	CustomsCheck:       {admin, customs},
	VerifyLuggageFlag:  {admin, customs},
}

// Allowed reports whether role may perform op.
func Allowed(role entity.UserRole, op Operation) bool {
	for _, r := range table[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns NotPermitted when the actor's role may not perform op.
func Authorize(actor Actor, op Operation) error {
	if !Allowed(actor.Role, op) {
		return apperror.Denied("role %s may not %s", actor.Role, op)
	}
	return nil
}

// Operations lists what role may do, for profile responses.
func Operations(role entity.UserRole) []Operation {
	var ops []Operation
	for _, op := range allOperations {
		if Allowed(role, op) {
			ops = append(ops, op)
		}
	}
	return ops
}

var allOperations = []Operation{
	ManageFlights, ManageUsers, ManageVisas, UpdateFlightStatus, BookTicket, CancelTicket,
	ViewOwnTickets, CheckIn, Board, ViewTickets, LookupPassengers, UpdateLuggage,
	BorderCheck, VerifyPassportFlag, CustomsCheck, VerifyLuggageFlag,
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
