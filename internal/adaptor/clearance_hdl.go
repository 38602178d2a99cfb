package adaptor

import (
	"context"
	"net/http"

	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/internal/policy"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/utils"

	"go.uber.org/zap"
)

type ClearanceHandler struct {
	service usecase.ClearanceService
	log     *zap.Logger
}

func NewClearanceHandler(service usecase.ClearanceService, log *zap.Logger) *ClearanceHandler {
	return &ClearanceHandler{
		service: service,
		log:     log,
	}
}

// BorderCheck handles POST /api/border/check. A failed check is still a
// successful request; the verdict is in the body.
func (h *ClearanceHandler) BorderCheck(w http.ResponseWriter, r *http.Request) {
	var req request.ClearanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	verdict := h.service.BorderCheck(r.Context(), req.PassportNumber, req.TicketNumber)
	utils.ResponseSuccess(w, verdict.Message, verdict)
}

// CustomsCheck handles POST /api/customs/check
func (h *ClearanceHandler) CustomsCheck(w http.ResponseWriter, r *http.Request) {
	var req request.ClearanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	verdict := h.service.CustomsCheck(r.Context(), req.PassportNumber, req.TicketNumber)
	utils.ResponseSuccess(w, verdict.Message, verdict)
}

// MarkBorderCleared handles POST /api/border/clear
func (h *ClearanceHandler) MarkBorderCleared(w http.ResponseWriter, r *http.Request) {
	h.markCleared(w, r, h.service.MarkBorderCleared, "Border clearance recorded")
}

// MarkCustomsCleared handles POST /api/customs/clear
func (h *ClearanceHandler) MarkCustomsCleared(w http.ResponseWriter, r *http.Request) {
	h.markCleared(w, r, h.service.MarkCustomsCleared, "Customs clearance recorded")
}

type markFunc = func(ctx context.Context, actor policy.Actor, passport, notes string) (*response.ClearanceRecord, error)

func (h *ClearanceHandler) markCleared(w http.ResponseWriter, r *http.Request, mark markFunc, message string) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.ClearanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := mark(r.Context(), actor, req.PassportNumber, req.Notes)
	if err != nil {
		handleServiceError(w, h.log, err, "record clearance")
		return
	}

	utils.ResponseCreated(w, message, record)
}
