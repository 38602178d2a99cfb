package adaptor

import (
	"net/http"

	"airport-ops/internal/dto/request"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FlightHandler struct {
	service usecase.FlightService
	log     *zap.Logger
}

func NewFlightHandler(service usecase.FlightService, log *zap.Logger) *FlightHandler {
	return &FlightHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/flights?departure_city=&arrival_city=&status=
func (h *FlightHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := request.FlightFilter{
		DepartureCity: query.Get("departure_city"),
		ArrivalCity:   query.Get("arrival_city"),
		Status:        query.Get("status"),
	}

	flights, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.log, err, "get flights")
		return
	}

	utils.ResponseSuccess(w, "Flights retrieved successfully", flights)
}

// Get handles GET /api/flights/{flightNumber}
func (h *FlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	flight, err := h.service.Get(r.Context(), chi.URLParam(r, "flightNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "get flight")
		return
	}

	utils.ResponseSuccess(w, "Flight retrieved successfully", flight)
}

// Create handles POST /api/admin/flights
func (h *FlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateFlightRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flight, err := h.service.Create(r.Context(), actor.Username, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create flight")
		return
	}

	utils.ResponseCreated(w, "Flight created successfully", flight)
}

// Delete handles DELETE /api/admin/flights/{flightNumber}
func (h *FlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "flightNumber")); err != nil {
		handleServiceError(w, h.log, err, "delete flight")
		return
	}

	utils.ResponseSuccess(w, "Flight deleted successfully", nil)
}

// AdjustSeats handles POST /api/admin/flights/{flightNumber}/seats
func (h *FlightHandler) AdjustSeats(w http.ResponseWriter, r *http.Request) {
	var req request.AdjustSeatsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flight, err := h.service.AdjustAvailableSeats(r.Context(), chi.URLParam(r, "flightNumber"), req.Delta)
	if err != nil {
		handleServiceError(w, h.log, err, "adjust seats")
		return
	}

	utils.ResponseSuccess(w, "Available seats updated", flight)
}

// UpdateStatus handles PUT /api/flights/{flightNumber}/status
func (h *FlightHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateFlightStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flight, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "flightNumber"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update flight status")
		return
	}

	utils.ResponseSuccess(w, "Flight status updated", flight)
}
