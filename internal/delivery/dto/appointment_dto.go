package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest books a visit. PatientID is only honoured for admins.
type CreateAppointmentRequest struct {
	DoctorID    uuid.UUID  `json:"doctor_id" validate:"required"`
	PatientID   *uuid.UUID `json:"patient_id"`
	ScheduledAt time.Time  `json:"scheduled_at" validate:"required"`
	Notes       string     `json:"notes"`
}

// UpdateAppointmentStatusRequest is the doctor's decision on an appointment.
type UpdateAppointmentStatusRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Notes  *string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       *string   `json:"notes"`
}

type AdminUpdateAppointmentRequest struct {
	Status      *string    `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Notes       *string    `json:"notes"`
}

// Response DTOs

type AppointmentResponse struct {
	ID             uuid.UUID `json:"id"`
	DoctorID       uuid.UUID `json:"doctor_id"`
	DoctorName     string    `json:"doctor_name,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	PatientID      uuid.UUID `json:"patient_id"`
	PatientName    string    `json:"patient_name,omitempty"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
