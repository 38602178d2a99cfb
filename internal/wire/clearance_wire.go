package wire

import (
	"airport-ops/internal/adaptor"
	"airport-ops/internal/policy"

	"github.com/go-chi/chi/v5"
)

func wireClearance(r chi.Router, clearanceHandler *adaptor.ClearanceHandler, guard guards) {
	r.With(guard.allow(policy.BorderCheck)...).Route("/api/border", func(r chi.Router) {
		r.Post("/check", clearanceHandler.BorderCheck)
		r.Post("/clear", clearanceHandler.MarkBorderCleared)
	})

	r.With(guard.allow(policy.CustomsCheck)...).Route("/api/customs", func(r chi.Router) {
		r.Post("/check", clearanceHandler.CustomsCheck)
		r.Post("/clear", clearanceHandler.MarkCustomsCleared)
	})
}
