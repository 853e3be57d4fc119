package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an in-app message. A nil UserID addresses the admin inbox.
type Notification struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	IsRead    bool       `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// AddressedTo reports whether userID may read this notification as its owner.
func (n *Notification) AddressedTo(userID uuid.UUID) bool {
	return n.UserID != nil && *n.UserID == userID
}
