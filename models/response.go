package models

import (
	"time"

	"gorm.io/gorm"
)

type Response struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	FormID      string         `json:"form_id" gorm:"type:uuid;not null;index"`
	SubmittedAt time.Time      `json:"submitted_at"`
	IPAddress   string         `json:"-"`
	UserAgent   string         `json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Form    Form     `json:"-" gorm:"foreignKey:FormID"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:ResponseID"`
}
