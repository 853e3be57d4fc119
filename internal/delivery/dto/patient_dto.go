package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UpdatePatientProfileRequest is a partial update of the signed-in patient.
type UpdatePatientProfileRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name" validate:"omitempty,max=150"`
	Email          *string `json:"email" validate:"omitempty,email,max=255"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Address        *string `json:"address"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=M F O"`
	BloodType      *string `json:"blood_type" validate:"omitempty,max=5"`
	Allergies      *string `json:"allergies"`
	MedicalHistory *string `json:"medical_history"`
	Password       *string `json:"password" validate:"omitempty,min=8"`
	OldPassword    *string `json:"old_password" validate:"required_with=Password"`
}

type CreatePatientRequest struct {
	Username       string `json:"username" validate:"required,username,max=150"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"omitempty,max=150"`
	LastName       string `json:"last_name" validate:"omitempty,max=150"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
	Address        string `json:"address"`
	DateOfBirth    string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         string `json:"gender" validate:"omitempty,oneof=M F O"`
	BloodType      string `json:"blood_type" validate:"omitempty,max=5"`
	Allergies      string `json:"allergies"`
	MedicalHistory string `json:"medical_history"`
	IsApproved     *bool  `json:"is_approved"`
}

type UpdatePatientRequest struct {
	Username       *string `json:"username" validate:"omitempty,username,max=150"`
	FirstName      *string `json:"first_name" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name" validate:"omitempty,max=150"`
	Email          *string `json:"email" validate:"omitempty,email,max=255"`
	Password       *string `json:"password" validate:"omitempty,min=8"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	Address        *string `json:"address"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=M F O"`
	BloodType      *string `json:"blood_type" validate:"omitempty,max=5"`
	Allergies      *string `json:"allergies"`
	MedicalHistory *string `json:"medical_history"`
	IsApproved     *bool   `json:"is_approved"`
	IsBlocked      *bool   `json:"is_blocked"`
}

// Response DTOs

type PatientProfileResponse struct {
	Phone          string  `json:"phone,omitempty"`
	Address        string  `json:"address,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	Age            *int    `json:"age,omitempty"`
	Gender         string  `json:"gender,omitempty"`
	BloodType      string  `json:"blood_type,omitempty"`
	Allergies      string  `json:"allergies,omitempty"`
	MedicalHistory string  `json:"medical_history,omitempty"`
	IsApproved     bool    `json:"is_approved"`
	IsBlocked      bool    `json:"is_blocked"`
}

type PatientResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	PatientProfileResponse
	CreatedAt time.Time `json:"created_at"`
}
