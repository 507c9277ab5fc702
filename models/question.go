package models

import (
	"time"

	"gorm.io/gorm"
)

// Question types. Rating answers are stored as text and validated on submission.
const (
	QuestionTypeText     = "text"
	QuestionTypeTextarea = "textarea"
	QuestionTypeRadio    = "radio"
	QuestionTypeCheckbox = "checkbox"
	QuestionTypeRating   = "rating"    // 1-5
	QuestionTypeRating10 = "rating_10" // 1-10
	QuestionTypeYesNo    = "yes_no"
	QuestionTypeEmail    = "email"
	QuestionTypePhone    = "phone"
)

type Question struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	FormID       string         `json:"form_id" gorm:"type:uuid;not null;index"`
	Text         string         `json:"text" gorm:"not null"`
	QuestionType string         `json:"question_type" gorm:"not null"`
	IsRequired   bool           `json:"is_required" gorm:"not null;default:true"`
	Order        int            `json:"order" gorm:"not null;default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Form    Form             `json:"-" gorm:"foreignKey:FormID"`
	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

// IsRatingType reports whether answers to this question count toward rating averages.
func (q *Question) IsRatingType() bool {
	return q.QuestionType == QuestionTypeRating || q.QuestionType == QuestionTypeRating10
}

// IsChoiceType reports whether answers to this question are bucketed into a distribution.
func (q *Question) IsChoiceType() bool {
	return q.QuestionType == QuestionTypeRadio ||
		q.QuestionType == QuestionTypeCheckbox ||
		q.QuestionType == QuestionTypeYesNo
}

func (q *Question) IsTextType() bool {
	return q.QuestionType == QuestionTypeText || q.QuestionType == QuestionTypeTextarea
}
