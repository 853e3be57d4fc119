package entity

import "time"

// Alert severities
const (
	AlertSeverityInfo     = "info"
	AlertSeverityWarning  = "warning"
	AlertSeverityCritical = "critical"
)

// SystemAlert is a banner message published by admins to every signed-in user.
type SystemAlert struct {
	ID        int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Severity  string     `gorm:"type:varchar(10);not null;default:'info'" json:"severity"`
	IsActive  bool       `gorm:"not null;default:true;index" json:"is_active"`
	ExpiresAt *time.Time `gorm:"type:timestamptz" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemAlert) TableName() string {
	return "system_alerts"
}

// LiveAt reports whether the alert should be shown at the given moment.
func (a *SystemAlert) LiveAt(at time.Time) bool {
	if !a.IsActive {
		return false
	}
	return a.ExpiresAt == nil || at.Before(*a.ExpiresAt)
}
