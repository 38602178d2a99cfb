package wire

import (
	"airport-ops/internal/adaptor"
	"airport-ops/internal/policy"

	"github.com/go-chi/chi/v5"
)

// wireUser configures profile and account administration routes
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, guard guards) {
	r.With(guard.authenticated()...).Get("/api/user/profile", userHandler.GetProfile)

	// ==================== ADMIN ROUTES ====================
	r.With(guard.allow(policy.ManageUsers)...).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.List)
		r.Post("/", userHandler.Create)
		r.Get("/passengers", userHandler.ListPassengers)
		r.Get("/{username}", userHandler.Get)
		r.Put("/{username}", userHandler.Update)
		r.Delete("/{username}", userHandler.Delete)
	})
}
