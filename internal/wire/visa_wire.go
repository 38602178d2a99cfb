package wire

import (
	"airport-ops/internal/adaptor"
	"airport-ops/internal/policy"

	"github.com/go-chi/chi/v5"
)

func wireVisa(r chi.Router, visaHandler *adaptor.VisaHandler, guard guards) {
	visas := r.With(guard.allow(policy.ManageVisas)...)
	visas.Post("/api/admin/visas", visaHandler.Register)
	visas.Get("/api/visas/{passportNumber}", visaHandler.ListByPassport)
}
