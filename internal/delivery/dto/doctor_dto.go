package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// UpdateDoctorProfileRequest is a partial update of the signed-in doctor.
type UpdateDoctorProfileRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name" validate:"omitempty,max=150"`
	Email          *string `json:"email" validate:"omitempty,email,max=255"`
	Specialization *string `json:"specialization" validate:"omitempty,min=1,max=100"`
	SpecialtyID    *int    `json:"specialty_id" validate:"omitempty,min=1"`
	Phone          *string `json:"phone" validate:"omitempty,min=1,max=20"`
	Bio            *string `json:"bio"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url,max=500"`
	Password       *string `json:"password" validate:"omitempty,min=8"`
	OldPassword    *string `json:"old_password" validate:"required_with=Password"`
}

type CreateDoctorRequest struct {
	Username       string           `json:"username" validate:"required,username,max=150"`
	Email          string           `json:"email" validate:"required,email,max=255"`
	Password       string           `json:"password" validate:"required,min=8"`
	FirstName      string           `json:"first_name" validate:"omitempty,max=150"`
	LastName       string           `json:"last_name" validate:"omitempty,max=150"`
	Specialization string           `json:"specialization" validate:"required,max=100"`
	Phone          string           `json:"phone" validate:"required,max=20"`
	SpecialtyID    *int             `json:"specialty_id" validate:"omitempty,min=1"`
	Bio            string           `json:"bio"`
	Address        string           `json:"address" validate:"omitempty,max=255"`
	ImageURL       string           `json:"image_url" validate:"omitempty,url,max=500"`
	Rating         *decimal.Decimal `json:"rating"`
	IsApproved     bool             `json:"is_approved"`
}

type UpdateDoctorRequest struct {
	Username       *string          `json:"username" validate:"omitempty,username,max=150"`
	FirstName      *string          `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string          `json:"last_name" validate:"omitempty,max=150"`
	Email          *string          `json:"email" validate:"omitempty,email,max=255"`
	Password       *string          `json:"password" validate:"omitempty,min=8"`
	Specialization *string          `json:"specialization" validate:"omitempty,min=1,max=100"`
	SpecialtyID    *int             `json:"specialty_id" validate:"omitempty,min=1"`
	Phone          *string          `json:"phone" validate:"omitempty,min=1,max=20"`
	Bio            *string          `json:"bio"`
	Address        *string          `json:"address" validate:"omitempty,max=255"`
	ImageURL       *string          `json:"image_url" validate:"omitempty,url,max=500"`
	Rating         *decimal.Decimal `json:"rating"`
	IsApproved     *bool            `json:"is_approved"`
	IsBlocked      *bool            `json:"is_blocked"`
}

// Response DTOs

type DoctorProfileResponse struct {
	Specialization string             `json:"specialization"`
	SpecialtyID    *int               `json:"specialty_id,omitempty"`
	Specialty      *SpecialtyResponse `json:"specialty,omitempty"`
	Phone          string             `json:"phone"`
	Bio            string             `json:"bio,omitempty"`
	Address        string             `json:"address,omitempty"`
	ImageURL       string             `json:"image_url,omitempty"`
	Rating         decimal.Decimal    `json:"rating"`
	IsApproved     bool               `json:"is_approved"`
	IsBlocked      bool               `json:"is_blocked"`
}

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	DoctorProfileResponse
	Availabilities []AvailabilityResponse `json:"availabilities,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type DoctorDashboardResponse struct {
	UpcomingAppointments int64 `json:"upcoming_appointments"`
	TotalPatients        int64 `json:"total_patients"`
	TodayAppointments    int64 `json:"today_appointments"`
}
