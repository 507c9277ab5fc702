package models

import (
	"time"

	"gorm.io/gorm"
)

// FormType values accepted for Form.FormType.
var FormTypes = []struct {
	Value string `json:"value"`
	Label string `json:"label"`
}{
	{"customer_satisfaction", "Customer Satisfaction"},
	{"employee_feedback", "Employee Feedback"},
	{"product_feedback", "Product Feedback"},
	{"service_feedback", "Service Feedback"},
	{"general", "General Feedback"},
}

type Form struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	FormType    string         `json:"form_type" gorm:"not null;default:'general'"`
	CreatedByID uint           `json:"created_by" gorm:"not null;index"`
	IsActive    bool           `json:"is_active" gorm:"not null;default:true"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	CreatedBy User       `json:"-" gorm:"foreignKey:CreatedByID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:FormID"`
	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:FormID"`
}

func (f *Form) IsExpired() bool {
	if f.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*f.ExpiresAt)
}

func (f *Form) ShareableLink() string {
	return "/feedback/" + f.ID + "/"
}
