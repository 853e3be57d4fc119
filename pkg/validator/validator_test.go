package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

type accountRequest struct {
	Username       string `json:"username" validate:"required,username,max=150"`
	Email          string `json:"email" validate:"required,email"`
	Role           string `json:"role" validate:"required,oneof=doctor patient"`
	Specialization string `json:"specialization" validate:"required_if=Role doctor"`
}

func TestValidate_SlotRequest(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&slotRequest{Day: "Monday", StartTime: "09:00", EndTime: "17:30"}))

	err := v.Validate(&slotRequest{Day: "Funday", StartTime: "9am", EndTime: "25:00"})
	require.Error(t, err)

	fields := v.FormatValidationErrors(err)
	assert.Contains(t, fields, "day")
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "end_time")
	assert.Equal(t, "start_time must be a time in HH:MM format", fields["start_time"])
}

func TestValidate_RequiredIfDoctor(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&accountRequest{Username: "house", Email: "house@clinic.test", Role: "doctor"})
	require.Error(t, err)
	assert.Equal(t, "specialization is required", v.FormatValidationErrors(err)["specialization"])

	assert.NoError(t, v.Validate(&accountRequest{Username: "jane", Email: "jane@clinic.test", Role: "patient"}))
}

func TestValidate_Username(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&accountRequest{Username: "bad name!", Email: "x@clinic.test", Role: "patient"})
	require.Error(t, err)
	assert.Contains(t, v.FormatValidationErrors(err), "username")
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.FormatValidationErrors(assert.AnError))
}

type passwordChange struct {
	Password    *string `json:"password" validate:"omitempty,min=8"`
	OldPassword *string `json:"old_password" validate:"required_with=Password"`
}

func TestValidate_RequiredWith(t *testing.T) {
	v := NewValidator()
	pw := "new-secret-1"

	err := v.Validate(&passwordChange{Password: &pw})
	require.Error(t, err)
	assert.Equal(t, "old_password is required when changing password", v.FormatValidationErrors(err)["old_password"])

	assert.NoError(t, v.Validate(&passwordChange{}))
}

type birthday struct {
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidate_Datetime(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&birthday{DateOfBirth: "1990-02-28"}))

	err := v.Validate(&birthday{DateOfBirth: "28/02/1990"})
	require.Error(t, err)
	assert.Equal(t, "date_of_birth must be a date in YYYY-MM-DD format", v.FormatValidationErrors(err)["date_of_birth"])
}
