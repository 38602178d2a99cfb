package wire

import (
	"airport-ops/internal/adaptor"
	"airport-ops/internal/policy"

	"github.com/go-chi/chi/v5"
)

func wirePassenger(r chi.Router, passengerHandler *adaptor.PassengerHandler, ticketHandler *adaptor.TicketHandler, guard guards) {
	// ==================== OWN PROFILE ====================
	r.With(guard.allow(policy.ViewOwnTickets)...).Get("/api/passenger/profile", passengerHandler.GetOwn)
	r.With(guard.allow(policy.ViewOwnTickets)...).Get("/api/passenger/tickets", ticketHandler.ListOwn)
	r.With(guard.allow(policy.UpdateLuggage)...).Put("/api/passenger/profile/luggage", passengerHandler.UpdateOwnLuggage)

	// ==================== STAFF ROUTES ====================
	lookup := r.With(guard.allow(policy.LookupPassengers)...)
	lookup.Get("/api/passengers", passengerHandler.Lookup)
	lookup.Get("/api/passengers/{passportNumber}/tickets", ticketHandler.ListByPassport)
	lookup.Post("/api/passengers/{passportNumber}/verify", passengerHandler.VerifyPassport)

	r.With(guard.allow(policy.UpdateLuggage)...).Put("/api/passengers/{passportNumber}/luggage", passengerHandler.UpdateLuggage)

	// ==================== ADMIN ROUTES ====================
	r.With(guard.allow(policy.ManageUsers)...).Route("/api/admin/passengers", func(r chi.Router) {
		r.Post("/", passengerHandler.Create)
		r.Delete("/{passportNumber}", passengerHandler.Delete)
	})
}
