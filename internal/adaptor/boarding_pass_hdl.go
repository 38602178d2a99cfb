package adaptor

import (
	"net/http"

	"airport-ops/internal/dto/request"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BoardingPassHandler struct {
	service usecase.BoardingPassService
	log     *zap.Logger
}

func NewBoardingPassHandler(service usecase.BoardingPassService, log *zap.Logger) *BoardingPassHandler {
	return &BoardingPassHandler{
		service: service,
		log:     log,
	}
}

func passID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid boarding pass ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// GetByTicket handles GET /api/tickets/{ticketNumber}/boarding-pass
func (h *BoardingPassHandler) GetByTicket(w http.ResponseWriter, r *http.Request) {
	pass, err := h.service.GetByTicketNumber(r.Context(), chi.URLParam(r, "ticketNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "get boarding pass")
		return
	}
	if pass == nil {
		utils.ResponseSuccess(w, "Ticket is not checked in yet", nil)
		return
	}

	utils.ResponseSuccess(w, "Boarding pass retrieved successfully", pass)
}

// Readiness handles GET /api/boarding-passes/{id}/readiness
func (h *BoardingPassHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	id, ok := passID(w, r)
	if !ok {
		return
	}

	readiness, err := h.service.Readiness(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get boarding readiness")
		return
	}

	utils.ResponseSuccess(w, "Boarding readiness retrieved", readiness)
}

// SetVerification handles PUT /api/boarding-passes/{id}/verification
func (h *BoardingPassHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	id, ok := passID(w, r)
	if !ok {
		return
	}

	var req request.VerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pass, err := h.service.SetVerificationFlags(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update verification")
		return
	}

	utils.ResponseSuccess(w, "Verification updated", pass)
}

// SetBoarded handles PUT /api/boarding-passes/{id}/boarded
func (h *BoardingPassHandler) SetBoarded(w http.ResponseWriter, r *http.Request) {
	id, ok := passID(w, r)
	if !ok {
		return
	}

	var req request.BoardedRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pass, err := h.service.SetBoardedFlag(r.Context(), id, *req.Boarded)
	if err != nil {
		handleServiceError(w, h.log, err, "update boarded flag")
		return
	}

	utils.ResponseSuccess(w, "Boarded flag updated", pass)
}
