package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	SpecialtyID    *int            `gorm:"index" json:"specialty_id,omitempty"`
	Specialization string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Phone          string          `gorm:"type:varchar(20);not null" json:"phone"`
	Bio            string          `gorm:"type:text" json:"bio,omitempty"`
	Address        string          `gorm:"type:varchar(255)" json:"address,omitempty"`
	ImageURL       string          `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	Rating         decimal.Decimal `gorm:"type:numeric(2,1);not null;default:0" json:"rating"`
	Moderation

	// Relationships
	User           User                 `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Specialty      *Specialty           `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	Availabilities []DoctorAvailability `gorm:"foreignKey:DoctorID" json:"availabilities,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

var (
	MinRating = decimal.Zero
	MaxRating = decimal.NewFromInt(5)
)

// ValidRating reports whether r lies in the 0..5 rating scale.
func ValidRating(r decimal.Decimal) bool {
	return r.GreaterThanOrEqual(MinRating) && r.LessThanOrEqual(MaxRating)
}
