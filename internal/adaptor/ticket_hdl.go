package adaptor

import (
	"net/http"

	"airport-ops/internal/dto/request"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TicketHandler struct {
	service usecase.TicketService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.TicketService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log,
	}
}

// Book handles POST /api/tickets
func (h *TicketHandler) Book(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.BookTicketRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ticket, err := h.service.Book(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "book ticket")
		return
	}

	utils.ResponseCreated(w, "Ticket booked successfully", ticket)
}

// Get handles GET /api/tickets/{ticketNumber}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.service.Get(r.Context(), chi.URLParam(r, "ticketNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "get ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket retrieved successfully", ticket)
}

// Cancel handles DELETE /api/tickets/{ticketNumber}
func (h *TicketHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "ticketNumber")); err != nil {
		handleServiceError(w, h.log, err, "cancel ticket")
		return
	}

	utils.ResponseSuccess(w, "Ticket cancelled successfully", nil)
}

// CheckIn handles POST /api/tickets/{ticketNumber}/check-in
func (h *TicketHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.service.CheckIn(r.Context(), actor, chi.URLParam(r, "ticketNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "check in")
		return
	}

	utils.ResponseSuccess(w, "Check-in successful", result)
}

// Board handles POST /api/tickets/{ticketNumber}/board
func (h *TicketHandler) Board(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.service.Board(r.Context(), chi.URLParam(r, "ticketNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "board")
		return
	}

	utils.ResponseSuccess(w, "Passenger boarded", ticket)
}

// ListByFlight handles GET /api/flights/{flightNumber}/tickets
func (h *TicketHandler) ListByFlight(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.service.ListByFlight(r.Context(), chi.URLParam(r, "flightNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "get tickets")
		return
	}

	utils.ResponseSuccess(w, "Tickets retrieved successfully", tickets)
}

// ListByPassport handles GET /api/passengers/{passportNumber}/tickets
func (h *TicketHandler) ListByPassport(w http.ResponseWriter, r *http.Request) {
	h.listByPassport(w, r, chi.URLParam(r, "passportNumber"))
}

// ListOwn handles GET /api/passenger/tickets. The passport is resolved from
// the caller inside the service.
func (h *TicketHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	h.listByPassport(w, r, "")
}

func (h *TicketHandler) listByPassport(w http.ResponseWriter, r *http.Request, passport string) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	tickets, err := h.service.ListByPassport(r.Context(), actor, passport)
	if err != nil {
		handleServiceError(w, h.log, err, "get tickets")
		return
	}

	utils.ResponseSuccess(w, "Tickets retrieved successfully", tickets)
}

// OccupiedSeats handles GET /api/flights/{flightNumber}/seats
func (h *TicketHandler) OccupiedSeats(w http.ResponseWriter, r *http.Request) {
	seats, err := h.service.OccupiedSeats(r.Context(), chi.URLParam(r, "flightNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "get seats")
		return
	}

	utils.ResponseSuccess(w, "Seat map retrieved successfully", seats)
}

// BulkCheckIn handles POST /api/flights/{flightNumber}/check-in
func (h *TicketHandler) BulkCheckIn(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.BulkCheckIn(r.Context(), chi.URLParam(r, "flightNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "bulk check in")
		return
	}

	utils.ResponseSuccess(w, "Flight checked in", result)
}
