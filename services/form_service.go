package services

import (
	"errors"
	"time"

	"feedbackhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FormService struct {
	db *gorm.DB
}

func NewFormService(db *gorm.DB) *FormService {
	return &FormService{db: db}
}

type CreateFormRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	FormType    string                  `json:"form_type"`
	IsActive    *bool                   `json:"is_active"`
	ExpiresAt   *time.Time              `json:"expires_at"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1"`
}

type CreateQuestionRequest struct {
	Text         string   `json:"text" binding:"required"`
	QuestionType string   `json:"question_type" binding:"required"`
	IsRequired   *bool    `json:"is_required"`
	Options      []string `json:"options"`
}

type UpdateFormRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	FormType    string                  `json:"form_type"`
	IsActive    *bool                   `json:"is_active"`
	ExpiresAt   *time.Time              `json:"expires_at"`
	Questions   []CreateQuestionRequest `json:"questions"`
}

type FormFilter struct {
	FormType string
	IsActive *bool
	Search   string
}

var validQuestionTypes = map[string]bool{
	models.QuestionTypeText:     true,
	models.QuestionTypeTextarea: true,
	models.QuestionTypeRadio:    true,
	models.QuestionTypeCheckbox: true,
	models.QuestionTypeRating:   true,
	models.QuestionTypeRating10: true,
	models.QuestionTypeYesNo:    true,
	models.QuestionTypeEmail:    true,
	models.QuestionTypePhone:    true,
}

func (s *FormService) CreateForm(userID uint, req *CreateFormRequest) (*models.Form, error) {
	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	formType := req.FormType
	if formType == "" {
		formType = "general"
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	form := models.Form{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		FormType:    formType,
		CreatedByID: userID,
		IsActive:    isActive,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := tx.Create(&form).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createQuestions(tx, form.ID, req.Questions); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// Fetch the form with questions and options loaded
	return s.GetFormByID(form.ID, userID)
}

// createQuestions writes the question tree. Order follows the request order;
// choice questions require at least two options.
func createQuestions(tx *gorm.DB, formID string, reqs []CreateQuestionRequest) error {
	for i, qReq := range reqs {
		if !validQuestionTypes[qReq.QuestionType] {
			return errors.New("invalid question type: " + qReq.QuestionType)
		}

		isRequired := true
		if qReq.IsRequired != nil {
			isRequired = *qReq.IsRequired
		}

		question := models.Question{
			FormID:       formID,
			Text:         qReq.Text,
			QuestionType: qReq.QuestionType,
			IsRequired:   isRequired,
			Order:        i,
		}

		if question.QuestionType == models.QuestionTypeRadio ||
			question.QuestionType == models.QuestionTypeCheckbox {
			if len(qReq.Options) < 2 {
				return errors.New("choice questions must have at least two options")
			}
		}

		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		for j, label := range qReq.Options {
			option := models.QuestionOption{
				QuestionID: question.ID,
				Label:      label,
				Order:      j,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *FormService) GetUserForms(userID uint, filter *FormFilter) ([]models.Form, error) {
	query := s.db.Where("created_by_id = ?", userID)

	if filter != nil {
		if filter.FormType != "" {
			query = query.Where("form_type = ?", filter.FormType)
		}
		if filter.IsActive != nil {
			query = query.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
		}
	}

	var forms []models.Form
	err := query.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order"`)
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order(`question_options."order"`)
		}).
		Order("created_at DESC").
		Find(&forms).Error
	return forms, err
}

func (s *FormService) GetFormByID(formID string, userID uint) (*models.Form, error) {
	var form models.Form
	err := s.db.Where("id = ? AND created_by_id = ?", formID, userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order"`)
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order(`question_options."order"`)
		}).
		First(&form).Error
	return &form, err
}

func (s *FormService) UpdateForm(formID string, userID uint, req *UpdateFormRequest) (*models.Form, error) {
	// Check if form exists and belongs to user
	form, err := s.GetFormByID(formID, userID)
	if err != nil {
		return nil, err
	}

	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if req.Title != "" {
		form.Title = req.Title
	}
	if req.Description != "" {
		form.Description = req.Description
	}
	if req.FormType != "" {
		form.FormType = req.FormType
	}
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		form.ExpiresAt = req.ExpiresAt
	}
	form.Questions = nil

	if err := tx.Save(form).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// If questions are provided, replace the whole question set
	if req.Questions != nil {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("form_id = ?", formID).
			Pluck("id", &questionIDs).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.QuestionOption{}).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.Question{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := createQuestions(tx, formID, req.Questions); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetFormByID(formID, userID)
}

func (s *FormService) DeleteForm(formID string, userID uint) error {
	// Check if form exists and belongs to user
	if _, err := s.GetFormByID(formID, userID); err != nil {
		return err
	}

	return s.db.Where("id = ?", formID).Delete(&models.Form{}).Error
}

// GetPublicForm loads an active form for anonymous access. ErrFormExpired is
// distinct from not-found so the handler can answer 410 instead of 404.
func (s *FormService) GetPublicForm(formID string) (*models.Form, error) {
	var form models.Form
	err := s.db.Where("id = ? AND is_active = ?", formID, true).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order"`)
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order(`question_options."order"`)
		}).
		First(&form).Error
	if err != nil {
		return nil, err
	}

	if form.IsExpired() {
		return nil, ErrFormExpired
	}

	return &form, nil
}

var ErrFormExpired = errors.New("this form has expired")

func (s *FormService) ListPublicForms() ([]models.Form, error) {
	var forms []models.Form
	err := s.db.Where("is_active = ?", true).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order"`)
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order(`question_options."order"`)
		}).
		Order("created_at DESC").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}

	// Filter out expired forms
	activeForms := make([]models.Form, 0, len(forms))
	for _, form := range forms {
		if !form.IsExpired() {
			activeForms = append(activeForms, form)
		}
	}
	return activeForms, nil
}
