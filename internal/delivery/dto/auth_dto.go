package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterRequest creates a doctor or patient account. Doctors must also send
// specialization and phone.
type RegisterRequest struct {
	Username       string `json:"username" validate:"required,username,max=150"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"omitempty,max=150"`
	LastName       string `json:"last_name" validate:"omitempty,max=150"`
	Role           string `json:"role" validate:"required,oneof=doctor patient"`
	Specialization string `json:"specialization" validate:"required_if=Role doctor,max=100"`
	Phone          string `json:"phone" validate:"required_if=Role doctor,max=20"`
	SpecialtyID    *int   `json:"specialty_id" validate:"omitempty,min=1"`
	Bio            string `json:"bio"`
	Address        string `json:"address" validate:"omitempty,max=255"`
	ImageURL       string `json:"image_url" validate:"omitempty,url,max=500"`
	DateOfBirth    string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender         string `json:"gender" validate:"omitempty,oneof=M F O"`
}

// LoginRequest accepts either a username or an e-mail address as identifier.
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// Identifier returns whichever login identifier was supplied.
func (r *LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	Role         string        `json:"role"`
	User         *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID             uuid.UUID               `json:"id"`
	Username       string                  `json:"username"`
	Email          string                  `json:"email"`
	FirstName      string                  `json:"first_name"`
	LastName       string                  `json:"last_name"`
	FullName       string                  `json:"full_name"`
	Role           string                  `json:"role"`
	IsActive       bool                    `json:"is_active"`
	DoctorProfile  *DoctorProfileResponse  `json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfileResponse `json:"patient_profile,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}
