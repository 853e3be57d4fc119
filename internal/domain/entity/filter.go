package entity

import "github.com/google/uuid"

// DoctorFilter is a domain-level filter for querying doctors.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Name           string // first/last/username (ILIKE)
	Specialization string // ILIKE
	SpecialtyID    *int
	ActiveOnly     bool
	IsApproved     *bool
	IsBlocked      *bool
}

// PatientFilter narrows admin patient listings.
type PatientFilter struct {
	Name       string
	IsApproved *bool
	IsBlocked  *bool
}

// AppointmentFilter narrows appointment listings. Zero values are ignored.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    AppointmentStatus
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UserID     *uuid.UUID
	UnreadOnly bool
}
