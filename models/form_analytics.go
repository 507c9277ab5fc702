package models

import (
	"time"
)

// FormAnalytics is the derived summary row, exactly one per form. It is always
// reproducible from the response data; recomputation fully overwrites it.
type FormAnalytics struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FormID         string    `json:"form_id" gorm:"type:uuid;not null;uniqueIndex"`
	TotalResponses int       `json:"total_responses" gorm:"not null;default:0"`
	CompletionRate float64   `json:"completion_rate" gorm:"not null;default:0"` // percentage 0-100
	AverageRating  float64   `json:"average_rating" gorm:"not null;default:0"`
	LastUpdated    time.Time `json:"last_updated"`

	// Relationships
	Form Form `json:"-" gorm:"foreignKey:FormID"`
}
