package services

import (
	"fmt"
	"testing"
	"time"

	"feedbackhub/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
// The DSN is unique per call so tests cannot see each other's data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Form{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Response{},
		&models.Answer{},
		&models.FormAnalytics{},
		&models.Notification{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := models.User{
		Username:     "owner-" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestForm(t *testing.T, db *gorm.DB, userID uint, questionTypes ...string) *models.Form {
	t.Helper()

	form := models.Form{
		ID:          uuid.NewString(),
		Title:       "Test Form",
		FormType:    "general",
		CreatedByID: userID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&form).Error)

	for i, questionType := range questionTypes {
		question := models.Question{
			FormID:       form.ID,
			Text:         fmt.Sprintf("Question %d", i+1),
			QuestionType: questionType,
			IsRequired:   true,
			Order:        i,
		}
		require.NoError(t, db.Create(&question).Error)
		form.Questions = append(form.Questions, question)
	}

	return &form
}

// submitAnswers writes one response with the given answer texts, keyed by
// position into the form's question list. A nil-valued entry skips that
// question.
func submitAnswers(t *testing.T, db *gorm.DB, form *models.Form, answers map[int]string) *models.Response {
	t.Helper()
	return submitAnswersAt(t, db, form, answers, time.Now().UTC())
}

func submitAnswersAt(t *testing.T, db *gorm.DB, form *models.Form, answers map[int]string, submittedAt time.Time) *models.Response {
	t.Helper()

	response := models.Response{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		SubmittedAt: submittedAt,
	}
	require.NoError(t, db.Create(&response).Error)

	for index, text := range answers {
		require.Less(t, index, len(form.Questions), "answer index out of range")
		answer := models.Answer{
			ResponseID: response.ID,
			QuestionID: form.Questions[index].ID,
			AnswerText: text,
		}
		require.NoError(t, db.Create(&answer).Error)
	}

	return &response
}
