package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "pending"
	AppointmentStatusApproved AppointmentStatus = "approved"
	AppointmentStatusRejected AppointmentStatus = "rejected"
)

// Appointment represents a patient's visit booked with a doctor
type Appointment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ScheduledAt time.Time         `gorm:"type:timestamptz;not null;index" json:"scheduled_at"`
	Status      AppointmentStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ParseAppointmentStatus validates a status coming from a request.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case AppointmentStatusPending, AppointmentStatusApproved, AppointmentStatusRejected:
		return st, true
	}
	return "", false
}

// IsPending checks if appointment is waiting for a decision
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsApproved checks if appointment is approved
func (a *Appointment) IsApproved() bool {
	return a.Status == AppointmentStatusApproved
}

// IsRejected checks if appointment is rejected. Rejected is terminal.
func (a *Appointment) IsRejected() bool {
	return a.Status == AppointmentStatusRejected
}

// CanTransitionTo reports whether a decision may move the appointment to next.
// Allowed: pending->approved, pending->rejected, approved->rejected. Staying in
// the current state is accepted as a no-op except for rejected.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	switch a.Status {
	case AppointmentStatusPending:
		return next == AppointmentStatusPending || next == AppointmentStatusApproved || next == AppointmentStatusRejected
	case AppointmentStatusApproved:
		return next == AppointmentStatusApproved || next == AppointmentStatusRejected
	}
	return false
}

// HoldsSlot reports whether the appointment still occupies its doctor's time slot.
func (a *Appointment) HoldsSlot() bool {
	return !a.IsRejected()
}

// Reschedule moves the appointment and sends it back for approval.
func (a *Appointment) Reschedule(at time.Time) {
	a.ScheduledAt = at
	a.Status = AppointmentStatusPending
}
