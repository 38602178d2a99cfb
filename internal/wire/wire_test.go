package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"airport-ops/internal/data/memory"
	"airport-ops/internal/usecase"
	"airport-ops/pkg/metrics"
	"airport-ops/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) call(method, path, token string, body any) (int, envelope) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func (c client) login(username, password string) string {
	c.t.Helper()
	code, env := c.call(http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(c.t, http.StatusOK, code, env.Message)

	var auth struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &auth))
	return auth.Token
}

func newApp(t *testing.T) (*App, client) {
	t.Helper()
	log := zap.NewNop()
	reg := prometheus.NewRegistry()

	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 1},
		Clearance: utils.ClearanceConfig{
			VisaRequired: []string{"USA"},
			Restricted:   []string{"SYRIA"},
		},
	}

	app := Wiring(memory.NewRepository(log), config, usecase.Infra{Metrics: metrics.New(reg)}, reg, log)
	require.NoError(t, app.Service.User.EnsureAdmin(context.Background(), "admin", "admin-secret"))
	return app, client{t: t, router: app.Router}
}

func TestHealthAndMetrics(t *testing.T) {
	_, c := newApp(t)

	code, _ := c.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	c.login("admin", "admin-secret")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `airport_logins_total{result="pass"} 1`)
}

func TestBookingOverHTTP(t *testing.T) {
	_, c := newApp(t)

	code, env := c.call(http.MethodPost, "/api/register", "", map[string]string{
		"username":        "ivan",
		"password":        "secret1",
		"first_name":      "Ivan",
		"last_name":       "Petrov",
		"passport_number": "RU123456",
		"phone":           "+79991234567",
		"email":           "ivan@example.com",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, _ = c.call(http.MethodPost, "/api/login", "", map[string]string{"username": "ivan", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, code)

	ivan := c.login("ivan", "secret1")
	admin := c.login("admin", "admin-secret")

	departure := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	flight := map[string]any{
		"flight_number":  "SU100",
		"departure_city": "MOSCOW",
		"arrival_city":   "SOCHI",
		"departure_time": departure,
		"arrival_time":   departure.Add(2 * time.Hour),
		"total_seats":    2,
	}

	code, _ = c.call(http.MethodPost, "/api/admin/flights", ivan, flight)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = c.call(http.MethodPost, "/api/admin/flights", admin, flight)
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = c.call(http.MethodPost, "/api/tickets", ivan, map[string]any{"flight_number": "SU100", "seat_number": "1A", "price": 100})
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, _ = c.call(http.MethodPost, "/api/tickets", ivan, map[string]any{"flight_number": "SU100", "seat_number": "1A", "price": 100})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.call(http.MethodPost, "/api/tickets", ivan, map[string]any{"flight_number": "SU100", "seat_number": "Z9", "price": 100})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = c.call(http.MethodGet, "/api/flights/SU100/seats", "", nil)
	require.Equal(t, http.StatusOK, code)
	var seats struct {
		AvailableSeats int      `json:"available_seats"`
		OccupiedSeats  []string `json:"occupied_seats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &seats))
	assert.Equal(t, 1, seats.AvailableSeats)
	assert.Equal(t, []string{"1A"}, seats.OccupiedSeats)

	code, env = c.call(http.MethodGet, "/api/passenger/tickets", ivan, nil)
	require.Equal(t, http.StatusOK, code)
	var tickets []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &tickets))
	assert.Len(t, tickets, 1)

	code, _ = c.call(http.MethodPut, "/api/flights/SU100/status", ivan, map[string]string{"status": "BOARDING"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.call(http.MethodPut, "/api/flights/SU100/status", admin, map[string]string{"status": "SCHEDULED"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = c.call(http.MethodGet, "/api/flights/XX999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSessionLifecycle(t *testing.T) {
	_, c := newApp(t)

	code, _ := c.call(http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	admin := c.login("admin", "admin-secret")

	code, env := c.call(http.MethodGet, "/api/user/profile", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "admin", profile.Username)
	assert.Equal(t, "ADMIN", profile.Role)

	code, _ = c.call(http.MethodGet, "/api/boarding-passes/not-a-uuid/readiness", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.call(http.MethodDelete, "/api/admin/users/admin", admin, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.call(http.MethodPost, "/api/logout", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = c.call(http.MethodGet, "/api/user/profile", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestClearanceVerdictIsNotAnError(t *testing.T) {
	_, c := newApp(t)
	admin := c.login("admin", "admin-secret")

	code, env := c.call(http.MethodPost, "/api/border/check", admin, map[string]string{"passport_number": "NOPE00"})
	require.Equal(t, http.StatusOK, code)

	var verdict struct {
		PassportValid    bool `json:"passport_valid"`
		ClearanceGranted bool `json:"clearance_granted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &verdict))
	assert.False(t, verdict.PassportValid)
	assert.False(t, verdict.ClearanceGranted)

	code, _ = c.call(http.MethodPost, "/api/border/clear", admin, map[string]string{"passport_number": "NOPE00"})
	assert.Equal(t, http.StatusNotFound, code)
}
