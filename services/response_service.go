package services

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"feedbackhub/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResponseService struct {
	db            *gorm.DB
	analytics     *AnalyticsService
	notifications *NotificationService
}

func NewResponseService(db *gorm.DB, analytics *AnalyticsService, notifications *NotificationService) *ResponseService {
	return &ResponseService{
		db:            db,
		analytics:     analytics,
		notifications: notifications,
	}
}

type SubmitAnswerRequest struct {
	QuestionID  uint                   `json:"question_id" binding:"required"`
	AnswerText  string                 `json:"answer_text"`
	AnswerValue map[string]interface{} `json:"answer_value"`
}

type SubmitResponseRequest struct {
	Answers []SubmitAnswerRequest `json:"answers" binding:"required,min=1"`
}

type ResponseFilter struct {
	FormID   string
	FormType string
	DateFrom *time.Time
	DateTo   *time.Time
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Submit validates and persists one response against a form. The response and
// its answers commit in a single transaction; the analytics recompute and the
// owner notification run afterwards as advisory side effects and can never
// fail the submission.
func (s *ResponseService) Submit(form *models.Form, req *SubmitResponseRequest, ipAddress, userAgent string) (*models.Response, error) {
	questions := make(map[uint]*models.Question, len(form.Questions))
	answered := make(map[uint]bool, len(req.Answers))
	for i := range form.Questions {
		questions[form.Questions[i].ID] = &form.Questions[i]
	}

	for _, aReq := range req.Answers {
		question, ok := questions[aReq.QuestionID]
		if !ok {
			return nil, fmt.Errorf("question %d does not belong to this form", aReq.QuestionID)
		}
		if answered[aReq.QuestionID] {
			return nil, fmt.Errorf("duplicate answer for question %d", aReq.QuestionID)
		}
		answered[aReq.QuestionID] = true

		if err := validateAnswer(question, aReq.AnswerText); err != nil {
			return nil, err
		}
	}

	// Every required question must be answered
	for _, question := range form.Questions {
		if question.IsRequired && !answered[question.ID] {
			return nil, fmt.Errorf("answer is required for question: %s", question.Text)
		}
	}

	response := models.Response{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		SubmittedAt: time.Now().UTC(),
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&response).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, aReq := range req.Answers {
		value := datatypes.JSON("{}")
		if aReq.AnswerValue != nil {
			data, err := json.Marshal(aReq.AnswerValue)
			if err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("invalid answer value for question %d: %w", aReq.QuestionID, err)
			}
			value = datatypes.JSON(data)
		}

		answer := models.Answer{
			ResponseID:  response.ID,
			QuestionID:  aReq.QuestionID,
			AnswerText:  aReq.AnswerText,
			AnswerValue: value,
		}
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.runSideEffects(form, &response)

	return &response, nil
}

// runSideEffects recomputes analytics and notifies the form owner. Each is
// wrapped on its own so a fault in one does not stop the other, and neither
// reaches the submitter.
func (s *ResponseService) runSideEffects(form *models.Form, response *models.Response) {
	s.analytics.Recompute(form.ID)

	if _, err := s.notifications.Notify(
		form.CreatedByID,
		models.NotificationNewResponse,
		"New Response",
		fmt.Sprintf("New response received for '%s'", form.Title),
		map[string]interface{}{
			"form_id":     form.ID,
			"response_id": response.ID,
			"form_title":  form.Title,
		},
	); err != nil {
		log.Printf("Failed to notify owner %d about response %s: %v", form.CreatedByID, response.ID, err)
	}
}

// validateAnswer applies the per-type submission rules. Blank optional
// answers pass; the analytics layer buckets them separately.
func validateAnswer(question *models.Question, answerText string) error {
	trimmed := strings.TrimSpace(answerText)

	if question.IsRequired && trimmed == "" {
		return fmt.Errorf("answer is required for question: %s", question.Text)
	}
	if trimmed == "" {
		return nil
	}

	switch question.QuestionType {
	case models.QuestionTypeRating, models.QuestionTypeRating10:
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("rating must be a valid number for question: %s", question.Text)
		}
		maxRating := 5.0
		if question.QuestionType == models.QuestionTypeRating10 {
			maxRating = 10.0
		}
		if value < 1 || value > maxRating {
			return fmt.Errorf("rating must be between 1 and %.0f for question: %s", maxRating, question.Text)
		}

	case models.QuestionTypeEmail:
		if !emailPattern.MatchString(trimmed) {
			return fmt.Errorf("please enter a valid email address for question: %s", question.Text)
		}
	}

	return nil
}

// ListByOwner returns responses to the owner's forms, newest first.
func (s *ResponseService) ListByOwner(userID uint, filter *ResponseFilter) ([]models.Response, error) {
	query := s.db.
		Joins("JOIN forms ON forms.id = responses.form_id").
		Where("forms.created_by_id = ? AND forms.deleted_at IS NULL", userID)

	if filter != nil {
		if filter.FormID != "" {
			query = query.Where("responses.form_id = ?", filter.FormID)
		}
		if filter.FormType != "" {
			query = query.Where("forms.form_type = ?", filter.FormType)
		}
		if filter.DateFrom != nil {
			query = query.Where("responses.submitted_at >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("responses.submitted_at <= ?", *filter.DateTo)
		}
	}

	var responses []models.Response
	err := query.
		Preload("Answers").
		Preload("Answers.Question").
		Order("responses.submitted_at DESC").
		Find(&responses).Error
	return responses, err
}
