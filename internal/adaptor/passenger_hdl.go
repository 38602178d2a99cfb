package adaptor

import (
	"net/http"

	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PassengerHandler struct {
	service usecase.PassengerService
	log     *zap.Logger
}

func NewPassengerHandler(service usecase.PassengerService, log *zap.Logger) *PassengerHandler {
	return &PassengerHandler{
		service: service,
		log:     log,
	}
}

// Lookup handles GET /api/passengers?passport=&phone=&email=
// Exactly one query parameter is expected; passport wins when several are set.
func (h *PassengerHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		passenger *response.PassengerResponse
		err       error
	)
	switch {
	case query.Get("passport") != "":
		passenger, err = h.service.GetByPassport(r.Context(), query.Get("passport"))
	case query.Get("phone") != "":
		passenger, err = h.service.GetByPhone(r.Context(), query.Get("phone"))
	case query.Get("email") != "":
		passenger, err = h.service.GetByEmail(r.Context(), query.Get("email"))
	default:
		utils.ResponseBadRequest(w, "One of passport, phone or email is required", nil)
		return
	}
	if err != nil {
		handleServiceError(w, h.log, err, "find passenger")
		return
	}

	utils.ResponseSuccess(w, "Passenger retrieved successfully", passenger)
}

// GetOwn handles GET /api/passenger/profile
func (h *PassengerHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	passenger, err := h.service.GetByUsername(r.Context(), actor.Username)
	if err != nil {
		handleServiceError(w, h.log, err, "get passenger profile")
		return
	}

	utils.ResponseSuccess(w, "Passenger profile retrieved successfully", passenger)
}

// Create handles POST /api/admin/passengers
func (h *PassengerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePassengerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	passenger, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create passenger")
		return
	}

	utils.ResponseCreated(w, "Passenger created successfully", passenger)
}

// Delete handles DELETE /api/admin/passengers/{passportNumber}
func (h *PassengerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "passportNumber")); err != nil {
		handleServiceError(w, h.log, err, "delete passenger")
		return
	}

	utils.ResponseSuccess(w, "Passenger deleted successfully", nil)
}

// UpdateLuggage handles PUT /api/passengers/{passportNumber}/luggage
func (h *PassengerHandler) UpdateLuggage(w http.ResponseWriter, r *http.Request) {
	h.updateLuggage(w, r, chi.URLParam(r, "passportNumber"))
}

// UpdateOwnLuggage handles PUT /api/passenger/profile/luggage
func (h *PassengerHandler) UpdateOwnLuggage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	own, err := h.service.GetByUsername(r.Context(), actor.Username)
	if err != nil {
		handleServiceError(w, h.log, err, "update luggage status")
		return
	}

	h.updateLuggage(w, r, own.PassportNumber)
}

func (h *PassengerHandler) updateLuggage(w http.ResponseWriter, r *http.Request, passport string) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateLuggageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	passenger, err := h.service.UpdateLuggageStatus(r.Context(), actor, passport, *req.Checked)
	if err != nil {
		handleServiceError(w, h.log, err, "update luggage status")
		return
	}

	utils.ResponseSuccess(w, "Luggage status updated", passenger)
}

// VerifyPassport handles POST /api/passengers/{passportNumber}/verify
func (h *PassengerHandler) VerifyPassport(w http.ResponseWriter, r *http.Request) {
	verdict, err := h.service.VerifyPassport(r.Context(), chi.URLParam(r, "passportNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "verify passport")
		return
	}

	utils.ResponseSuccess(w, verdict.Message, verdict)
}
