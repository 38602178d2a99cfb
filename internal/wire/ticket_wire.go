package wire

import (
	"airport-ops/internal/adaptor"
	"airport-ops/internal/policy"

	"github.com/go-chi/chi/v5"
)

func wireTicket(r chi.Router, ticketHandler *adaptor.TicketHandler, passHandler *adaptor.BoardingPassHandler, guard guards) {
	// ==================== PASSENGER ROUTES ====================
	r.With(guard.allow(policy.BookTicket)...).Post("/api/tickets", ticketHandler.Book)
	r.With(guard.allow(policy.CancelTicket)...).Delete("/api/tickets/{ticketNumber}", ticketHandler.Cancel)
	r.With(guard.allow(policy.CheckIn)...).Post("/api/tickets/{ticketNumber}/check-in", ticketHandler.CheckIn)

	// ==================== STAFF ROUTES ====================
	view := r.With(guard.allow(policy.ViewTickets)...)
	view.Get("/api/tickets/{ticketNumber}", ticketHandler.Get)
	view.Get("/api/tickets/{ticketNumber}/boarding-pass", passHandler.GetByTicket)
	view.Get("/api/boarding-passes/{id}/readiness", passHandler.Readiness)

	r.With(guard.allow(policy.Board)...).Post("/api/tickets/{ticketNumber}/board", ticketHandler.Board)
	r.With(guard.allow(policy.Board)...).Put("/api/boarding-passes/{id}/boarded", passHandler.SetBoarded)

	// each flag is checked against the caller's role again inside the service
	r.With(guard.allow(policy.VerifyPassportFlag, policy.VerifyLuggageFlag)...).
		Put("/api/boarding-passes/{id}/verification", passHandler.SetVerification)
}
