package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Phone          string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address        string     `gorm:"type:text" json:"address,omitempty"`
	DateOfBirth    *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender         string     `gorm:"type:char(1)" json:"gender,omitempty"`
	BloodType      string     `gorm:"type:varchar(5)" json:"blood_type,omitempty"`
	Allergies      string     `gorm:"type:text" json:"allergies,omitempty"`
	MedicalHistory string     `gorm:"type:text" json:"medical_history,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Moderation

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Age returns the patient's age in whole years at the given moment, or nil when
// the date of birth is unknown.
func (p *PatientProfile) Age(at time.Time) *int {
	if p.DateOfBirth == nil {
		return nil
	}
	dob := *p.DateOfBirth
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	return &age
}
