package handler

import (
	"errors"
	"net/http"

	"medical-clinic-api/internal/service"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/response"
)

// fieldErrors maps usecase errors to the request field they concern.
var fieldErrors = []struct {
	err   error
	field string
}{
	{usecase.ErrUsernameAlreadyExists, "username"},
	{usecase.ErrEmailAlreadyExists, "email"},
	{usecase.ErrInvalidRole, "role"},
	{usecase.ErrSpecialtyNotFound, "specialty_id"},
	{usecase.ErrInvalidDateFormat, "date_of_birth"},
	{usecase.ErrOldPasswordMismatch, "old_password"},
	{usecase.ErrInvalidTimeRange, "end_time"},
	{usecase.ErrAvailabilityDayTaken, "day"},
	{usecase.ErrInvalidStatus, "status"},
	{usecase.ErrBookingTooSoon, "scheduled_at"},
	{usecase.ErrOutsideAvailability, "scheduled_at"},
	{usecase.ErrRescheduleSameTime, "scheduled_at"},
	{usecase.ErrPatientRequired, "patient_id"},
	{usecase.ErrInvalidRating, "rating"},
	{usecase.ErrSpecialtyAlreadyExists, "name"},
}

var badRequestErrors = []error{
	usecase.ErrInvalidStatusTransition,
	usecase.ErrAppointmentRejected,
	usecase.ErrDoctorInactive,
	usecase.ErrSlipNotAvailable,
}

var unauthorizedErrors = []error{
	usecase.ErrInvalidCredentials,
	usecase.ErrInvalidToken,
	usecase.ErrTokenRevoked,
	usecase.ErrAccountInactive,
	usecase.ErrUnauthenticated,
}

var forbiddenErrors = []error{
	usecase.ErrNoDoctorProfile,
	usecase.ErrNotPatient,
	usecase.ErrAppointmentNotOwned,
}

var notFoundErrors = []error{
	usecase.ErrUserNotFound,
	usecase.ErrDoctorNotFound,
	usecase.ErrPatientNotFound,
	usecase.ErrAvailabilityNotFound,
	usecase.ErrAppointmentNotFound,
	usecase.ErrSystemAlertNotFound,
	usecase.ErrNotificationNotFound,
	usecase.ErrActivityLogNotFound,
}

// writeError maps a usecase error onto the response envelope. Unknown errors
// become a 500 with the fallback message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			response.FieldError(w, fe.field, fe.err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrSlotTaken):
		response.Conflict(w, err.Error())
	case matchesAny(err, unauthorizedErrors):
		response.Unauthorized(w, err.Error())
	case matchesAny(err, forbiddenErrors):
		response.Forbidden(w, err.Error())
	case matchesAny(err, notFoundErrors):
		response.NotFound(w, err.Error())
	case matchesAny(err, badRequestErrors):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
