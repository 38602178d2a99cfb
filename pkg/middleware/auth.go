package middleware

import (
	"net/http"
	"strings"

	"airport-ops/internal/data/repository"
	"airport-ops/internal/policy"
	"airport-ops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthSession resolves "Authorization: Bearer <session-token>" to the caller
// and stores it in the request context as a policy.Actor.
func AuthSession(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" || raw == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			token, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			// Find valid session
			session, err := sessionRepo.FindValidSession(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if session == nil {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := userRepo.FindByID(r.Context(), session.UserID)
			if err != nil {
				logger.Error("Failed to load session user",
					zap.Error(err), zap.String("user_id", session.UserID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			actor := policy.Actor{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			}
			noteCaller(r.Context(), actor)

			ctx := utils.SetTokenContext(r.Context(), token.String())
			ctx = policy.WithActor(ctx, actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOperation lets the request through when the caller's role may
// perform at least one of ops.
func RequireOperation(logger *zap.Logger, ops ...policy.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := policy.ActorFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			for _, op := range ops {
				if policy.Allowed(actor.Role, op) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("Operation denied",
				zap.String("username", actor.Username),
				zap.String("role", string(actor.Role)),
				zap.String("path", r.URL.Path))
			utils.ResponseForbidden(w, "You are not allowed to perform this operation")
		})
	}
}
