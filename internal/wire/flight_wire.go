package wire

import (
	"airport-ops/internal/adaptor"
	"airport-ops/internal/policy"

	"github.com/go-chi/chi/v5"
)

func wireFlight(r chi.Router, flightHandler *adaptor.FlightHandler, ticketHandler *adaptor.TicketHandler, guard guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/flights", flightHandler.List)
	r.Get("/api/flights/{flightNumber}", flightHandler.Get)
	r.Get("/api/flights/{flightNumber}/seats", ticketHandler.OccupiedSeats)

	// ==================== STAFF ROUTES ====================
	r.With(guard.allow(policy.UpdateFlightStatus)...).Put("/api/flights/{flightNumber}/status", flightHandler.UpdateStatus)
	r.With(guard.allow(policy.ViewTickets)...).Get("/api/flights/{flightNumber}/tickets", ticketHandler.ListByFlight)
	r.With(guard.allow(policy.Board)...).Post("/api/flights/{flightNumber}/check-in", ticketHandler.BulkCheckIn)

	// ==================== ADMIN ROUTES ====================
	r.With(guard.allow(policy.ManageFlights)...).Route("/api/admin/flights", func(r chi.Router) {
		r.Post("/", flightHandler.Create)
		r.Delete("/{flightNumber}", flightHandler.Delete)
		r.Post("/{flightNumber}/seats", flightHandler.AdjustSeats)
	})
}
