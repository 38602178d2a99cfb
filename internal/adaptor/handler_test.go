package adaptor

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"airport-ops/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", apperror.NotFound("flight %s not found", "SU100"), http.StatusNotFound, "flight SU100 not found"},
		{"already exists", fmt.Errorf("book: %w", apperror.AlreadyExists("seat 1A already taken")), http.StatusConflict, "seat 1A already taken"},
		{"denied", apperror.Denied("not your ticket"), http.StatusForbidden, "not your ticket"},
		{"state rule", apperror.NotPermitted("flight departed"), http.StatusUnprocessableEntity, "flight departed"},
		{"validation", apperror.Validation("bad seat"), http.StatusBadRequest, "bad seat"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Failed to book ticket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "book ticket")

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var req struct {
		Seat string `json:"seat" validate:"required,seat"`
	}

	rec := httptest.NewRecorder()
	ok := decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")

	rec = httptest.NewRecorder()
	ok = decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seat":"0Z"}`)), &req)
	assert.False(t, ok)
	assert.Contains(t, rec.Body.String(), "Validation failed")

	rec = httptest.NewRecorder()
	ok = decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"seat":"12C"}`)), &req)
	assert.True(t, ok)
	assert.Equal(t, "12C", req.Seat)
}

func TestActorFromMissingContext(t *testing.T) {
	rec := httptest.NewRecorder()
	_, ok := actorFrom(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
