package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityLog records a mutation performed through the API
type ActivityLog struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PerformedBy *uuid.UUID `gorm:"type:uuid;index" json:"performed_by,omitempty"`
	Action      string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Entity      string     `gorm:"type:varchar(50);not null" json:"entity"`
	EntityID    string     `gorm:"type:varchar(64)" json:"entity_id,omitempty"`
	Metadata    JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:PerformedBy" json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Entity names used in activity log rows
const (
	EntityUser         = "user"
	EntityDoctor       = "doctor"
	EntityPatient      = "patient"
	EntityAvailability = "availability"
	EntityAppointment  = "appointment"
	EntitySpecialty    = "specialty"
	EntitySystemAlert  = "system_alert"
	EntityNotification = "notification"
)

// Activity actions
const (
	ActionUserRegister       = "user.register"
	ActionUserLogin          = "user.login"
	ActionUserLogout         = "user.logout"
	ActionCreate             = "create"
	ActionUpdate             = "update"
	ActionDelete             = "delete"
	ActionApprove            = "approve"
	ActionBlock              = "block"
	ActionUnblock            = "unblock"
	ActionAppointmentBook    = "appointment.book"
	ActionAppointmentDecide  = "appointment.status"
	ActionAppointmentMove    = "appointment.reschedule"
	ActionAppointmentCancel  = "appointment.cancel"
	ActionAvailabilityUpsert = "availability.upsert"
)
