package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SpecialtyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type SystemAlertRequest struct {
	Title     string     `json:"title" validate:"required,max=200"`
	Message   string     `json:"message" validate:"required"`
	Severity  string     `json:"severity" validate:"omitempty,oneof=info warning critical"`
	IsActive  *bool      `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type UpdateSystemAlertRequest struct {
	Title     *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Message   *string    `json:"message" validate:"omitempty,min=1"`
	Severity  *string    `json:"severity" validate:"omitempty,oneof=info warning critical"`
	IsActive  *bool      `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// NotificationRequest creates a notification. A missing user_id addresses the admin inbox.
type NotificationRequest struct {
	UserID  *uuid.UUID `json:"user_id"`
	Title   string     `json:"title" validate:"required,max=200"`
	Message string     `json:"message" validate:"required"`
}

type UpdateNotificationRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Message *string `json:"message" validate:"omitempty,min=1"`
	IsRead  *bool   `json:"is_read"`
}

// Response DTOs

type SpecialtyResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SystemAlertResponse struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Severity  string     `json:"severity"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type NotificationResponse struct {
	ID        int64      `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

type ActivityLogResponse struct {
	ID          int64                  `json:"id"`
	PerformedBy *uuid.UUID             `json:"performed_by,omitempty"`
	Username    string                 `json:"username,omitempty"`
	Role        string                 `json:"role,omitempty"`
	Action      string                 `json:"action"`
	Entity      string                 `json:"entity"`
	EntityID    string                 `json:"entity_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type AdminDashboardResponse struct {
	TotalDoctors            int64            `json:"total_doctors"`
	TotalPatients           int64            `json:"total_patients"`
	PendingDoctorApprovals  int64            `json:"pending_doctor_approvals"`
	PendingPatientApprovals int64            `json:"pending_patient_approvals"`
	Appointments            map[string]int64 `json:"appointments"`
}
