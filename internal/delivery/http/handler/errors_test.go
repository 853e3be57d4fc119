package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"medical-clinic-api/internal/service"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"slot taken", service.ErrSlotTaken, http.StatusConflict},
		{"bad credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", usecase.ErrInvalidToken, http.StatusUnauthorized},
		{"inactive account", usecase.ErrAccountInactive, http.StatusUnauthorized},
		{"no doctor profile", usecase.ErrNoDoctorProfile, http.StatusForbidden},
		{"not owner", usecase.ErrAppointmentNotOwned, http.StatusForbidden},
		{"appointment missing", usecase.ErrAppointmentNotFound, http.StatusNotFound},
		{"notification missing", usecase.ErrNotificationNotFound, http.StatusNotFound},
		{"terminal status", usecase.ErrInvalidStatusTransition, http.StatusBadRequest},
		{"slip before approval", usecase.ErrSlipNotAvailable, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load: %w", usecase.ErrDoctorNotFound), http.StatusNotFound},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Something failed")

			assert.Equal(t, tt.status, rec.Code)
			body := decodeResponse(t, rec)
			assert.False(t, body.Success)
		})
	}
}

func TestWriteError_FieldErrors(t *testing.T) {
	tests := []struct {
		err   error
		field string
	}{
		{usecase.ErrUsernameAlreadyExists, "username"},
		{usecase.ErrEmailAlreadyExists, "email"},
		{usecase.ErrBookingTooSoon, "scheduled_at"},
		{usecase.ErrOutsideAvailability, "scheduled_at"},
		{usecase.ErrRescheduleSameTime, "scheduled_at"},
		{usecase.ErrInvalidTimeRange, "end_time"},
		{usecase.ErrInvalidRating, "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "Something failed")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeResponse(t, rec)
			assert.Equal(t, "Validation failed", body.Message)
			fields, ok := body.Error.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.err.Error(), fields[tt.field])
		})
	}
}

func TestWriteError_UnknownErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: relation does not exist"), "Failed to get appointments")

	body := decodeResponse(t, rec)
	assert.Equal(t, "Failed to get appointments", body.Message)
	assert.NotContains(t, rec.Body.String(), "relation")
}
