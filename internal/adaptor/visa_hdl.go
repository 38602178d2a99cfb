package adaptor

import (
	"net/http"

	"airport-ops/internal/dto/request"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VisaHandler struct {
	service usecase.VisaService
	log     *zap.Logger
}

func NewVisaHandler(service usecase.VisaService, log *zap.Logger) *VisaHandler {
	return &VisaHandler{
		service: service,
		log:     log,
	}
}

// Register handles POST /api/admin/visas
func (h *VisaHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.RegisterVisaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	visa, err := h.service.Register(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "register visa")
		return
	}

	utils.ResponseCreated(w, "Visa registered successfully", visa)
}

// ListByPassport handles GET /api/visas/{passportNumber}
func (h *VisaHandler) ListByPassport(w http.ResponseWriter, r *http.Request) {
	visas, err := h.service.ListByPassport(r.Context(), chi.URLParam(r, "passportNumber"))
	if err != nil {
		handleServiceError(w, h.log, err, "get visas")
		return
	}

	utils.ResponseSuccess(w, "Visas retrieved successfully", visas)
}
