package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationNewResponse     = "new_response"
	NotificationFormCreated     = "form_created"
	NotificationFormUpdated     = "form_updated"
	NotificationAnalyticsUpdate = "analytics_update"
)

// Notification is the durable per-user event record. Immutable once created
// except for IsRead.
type Notification struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	UserID           uint           `json:"user_id" gorm:"not null;index"`
	NotificationType string         `json:"notification_type" gorm:"not null"`
	Title            string         `json:"title" gorm:"not null"`
	Message          string         `json:"message"`
	IsRead           bool           `json:"is_read" gorm:"not null;default:false"`
	Data             datatypes.JSON `json:"data,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User User `json:"-" gorm:"foreignKey:UserID"`
}
