package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer holds one question's value within a response. The unique index enforces
// at most one answer per (response, question) pair.
type Answer struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ResponseID  string         `json:"response_id" gorm:"type:uuid;not null;uniqueIndex:idx_answer_response_question"`
	QuestionID  uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_response_question;index"`
	AnswerText  string         `json:"answer_text"`
	AnswerValue datatypes.JSON `json:"answer_value,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Response Response `json:"-" gorm:"foreignKey:ResponseID"`
	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}
