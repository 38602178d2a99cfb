package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/memory"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/policy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sessionFor(t *testing.T, repo *repository.Repository, role entity.UserRole, expiresIn time.Duration) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	user := &entity.User{Base: entity.NewBase(now), Username: "user-" + string(role), Role: role}
	require.NoError(t, repo.User.Create(ctx, user))

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     user.ID,
		Token:      uuid.New(),
		ExpiresAt:  now.Add(expiresIn),
	}
	require.NoError(t, repo.Session.Create(ctx, session))
	return session.Token
}

func protected(repo *repository.Repository, ops ...policy.Operation) http.Handler {
	log := zap.NewNop()
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := policy.ActorFromContext(r.Context())
		w.Header().Set("X-Role", string(actor.Role))
		w.WriteHeader(http.StatusOK)
	})
	return AuthSession(repo.Session, repo.User, log)(RequireOperation(log, ops...)(final))
}

func TestAuthSession(t *testing.T) {
	repo := memory.NewRepository(zap.NewNop())
	valid := sessionFor(t, repo, entity.RoleAirportStaff, time.Hour)
	expired := sessionFor(t, repo, entity.RoleBorderGuard, -time.Hour)
	handler := protected(repo, policy.Board)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid.String(), http.StatusUnauthorized},
		{"not a uuid", "Bearer abc", http.StatusUnauthorized},
		{"unknown session", "Bearer " + uuid.NewString(), http.StatusUnauthorized},
		{"expired session", "Bearer " + expired.String(), http.StatusUnauthorized},
		{"valid session", "Bearer " + valid.String(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireOperation(t *testing.T) {
	repo := memory.NewRepository(zap.NewNop())
	guard := sessionFor(t, repo, entity.RoleBorderGuard, time.Hour)
	officer := sessionFor(t, repo, entity.RoleCustomsOfficer, time.Hour)
	passenger := sessionFor(t, repo, entity.RolePassenger, time.Hour)

	handler := protected(repo, policy.VerifyPassportFlag, policy.VerifyLuggageFlag)

	for token, status := range map[uuid.UUID]int{
		guard:     http.StatusOK,
		officer:   http.StatusOK,
		passenger: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPut, "/api/boarding-passes/x/verification", nil)
		req.Header.Set("Authorization", "Bearer "+token.String())
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, status, rec.Code)
	}

	rec := httptest.NewRecorder()
	RequireOperation(zap.NewNop(), policy.Board)(http.NotFoundHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/flights", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func TestLoggerNamesCaller(t *testing.T) {
	repo := memory.NewRepository(zap.NewNop())
	guard := sessionFor(t, repo, entity.RoleBorderGuard, time.Hour)
	passenger := sessionFor(t, repo, entity.RolePassenger, time.Hour)

	core, logs := observer.New(zapcore.InfoLevel)
	handler := Logger(zap.New(core))(protected(repo, policy.VerifyPassportFlag))

	send := func(token string) {
		req := httptest.NewRequest(http.MethodPut, "/api/boarding-passes/x/verification", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	send(guard.String())
	send(passenger.String())
	send("")

	entries := logs.All()
	require.Len(t, entries, 3)

	allowed := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "user-BORDER_GUARD", allowed["username"])
	assert.Equal(t, "BORDER_GUARD", allowed["role"])
	assert.EqualValues(t, http.StatusOK, allowed["status"])

	denied := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "user-PASSENGER", denied["username"])
	assert.EqualValues(t, http.StatusForbidden, denied["status"])

	anonymous := entries[2].ContextMap()
	assert.NotContains(t, anonymous, "username")
	assert.EqualValues(t, http.StatusUnauthorized, anonymous["status"])
}
