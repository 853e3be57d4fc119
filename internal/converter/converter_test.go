package converter

import (
	"testing"
	"time"

	"medical-clinic-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserToResponse_FallsBackToRoleID(t *testing.T) {
	user := &entity.User{ID: uuid.New(), RoleID: entity.RoleIDDoctor, Username: "house", IsActive: entity.BoolPtr(false)}

	resp := UserToResponse(user)
	require.NotNil(t, resp)
	assert.Equal(t, entity.RoleDoctor, resp.Role)
	assert.Equal(t, "house", resp.FullName)
	assert.False(t, resp.IsActive)
	assert.Nil(t, UserToResponse(nil))
}

func TestDoctorProfileToResponse(t *testing.T) {
	id := uuid.New()
	profile := &entity.DoctorProfile{
		UserID:         id,
		Specialization: "Cardiology",
		Phone:          "555-0100",
		Rating:         decimal.RequireFromString("4.5"),
		Moderation:     entity.Moderation{IsApproved: true},
		User:           entity.User{ID: id, FirstName: "Gregory", LastName: "House", IsActive: entity.BoolPtr(true)},
		Availabilities: []entity.DoctorAvailability{{ID: 1, DoctorID: id, Day: "Monday", StartTime: "09:00:00", EndTime: "12:00:00"}},
	}

	resp := DoctorProfileToResponse(profile)
	require.NotNil(t, resp)
	assert.Equal(t, "Gregory House", resp.FullName)
	assert.Equal(t, "Cardiology", resp.Specialization)
	assert.True(t, resp.IsApproved)
	assert.Equal(t, "4.5", resp.Rating.String())
	require.Len(t, resp.Availabilities, 1)
	assert.Equal(t, "09:00", resp.Availabilities[0].StartTime)
	assert.Equal(t, "12:00", resp.Availabilities[0].EndTime)
}

func TestPatientProfileToResponse_DateOfBirth(t *testing.T) {
	dob := time.Date(1990, 2, 28, 0, 0, 0, 0, time.UTC)
	profile := &entity.PatientProfile{UserID: uuid.New(), DateOfBirth: &dob, Gender: entity.GenderFemale}

	resp := PatientProfileToResponse(profile)
	require.NotNil(t, resp.DateOfBirth)
	assert.Equal(t, "1990-02-28", *resp.DateOfBirth)
	assert.NotNil(t, resp.Age)
	assert.Equal(t, "F", resp.Gender)
}

func TestAppointmentToResponse_Names(t *testing.T) {
	doctorID, patientID := uuid.New(), uuid.New()
	appointment := &entity.Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Status:    entity.AppointmentStatusPending,
		Doctor:    entity.DoctorProfile{Specialization: "ENT", User: entity.User{ID: doctorID, Username: "doc"}},
	}

	resp := AppointmentToResponse(appointment)
	assert.Equal(t, "doc", resp.DoctorName)
	assert.Equal(t, "ENT", resp.Specialization)
	assert.Empty(t, resp.PatientName)
	assert.Equal(t, "pending", resp.Status)
}

func TestActivityLogsToResponses(t *testing.T) {
	actor := uuid.New()
	logs := []entity.ActivityLog{{
		ID:          1,
		PerformedBy: &actor,
		Action:      entity.ActionApprove,
		Entity:      entity.EntityDoctor,
		EntityID:    "x",
		Metadata:    entity.JSON{"new_value": true},
		User:        &entity.User{Username: "admin", Role: entity.Role{RoleName: "admin"}},
	}}

	resp := ActivityLogsToResponses(logs)
	require.Len(t, resp, 1)
	assert.Equal(t, "admin", resp[0].Username)
	assert.Equal(t, "admin", resp[0].Role)
	assert.Equal(t, true, resp[0].Metadata["new_value"])
}
