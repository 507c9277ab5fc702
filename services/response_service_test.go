package services

import (
	"testing"

	"feedbackhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newResponseService(db *gorm.DB) *ResponseService {
	analytics := NewAnalyticsService(db)
	notifications := NewNotificationService(db, nil)
	return NewResponseService(db, analytics, notifications)
}

func loadPublicForm(t *testing.T, db *gorm.DB, formID string) *models.Form {
	t.Helper()
	form, err := NewFormService(db).GetPublicForm(formID)
	require.NoError(t, err)
	return form
}

func TestSubmitCreatesResponseAndRunsSideEffects(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	created := createTestForm(t, db, owner.ID, models.QuestionTypeRating, models.QuestionTypeTextarea)
	service := newResponseService(db)

	form := loadPublicForm(t, db, created.ID)
	response, err := service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{
			{QuestionID: form.Questions[0].ID, AnswerText: "4"},
			{QuestionID: form.Questions[1].ID, AnswerText: "great service"},
		},
	}, "203.0.113.9", "test-agent")
	require.NoError(t, err)

	var answerCount int64
	require.NoError(t, db.Model(&models.Answer{}).Where("response_id = ?", response.ID).Count(&answerCount).Error)
	assert.EqualValues(t, 2, answerCount)

	// Analytics recomputed synchronously after the commit
	var analytics models.FormAnalytics
	require.NoError(t, db.Where("form_id = ?", form.ID).First(&analytics).Error)
	assert.Equal(t, 1, analytics.TotalResponses)
	assert.Equal(t, 100.0, analytics.CompletionRate)
	assert.InDelta(t, 4.0, analytics.AverageRating, 0.0001)

	// Owner got the durable notification even with no live subscriber
	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNewResponse, notifications[0].NotificationType)
	assert.False(t, notifications[0].IsRead)
}

func TestSubmitRejectsMissingRequiredAnswer(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	created := createTestForm(t, db, owner.ID, models.QuestionTypeText, models.QuestionTypeText)
	service := newResponseService(db)

	form := loadPublicForm(t, db, created.ID)
	_, err := service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{
			{QuestionID: form.Questions[0].ID, AnswerText: "only one"},
		},
	}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	// Nothing persisted
	var count int64
	require.NoError(t, db.Model(&models.Response{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubmitValidatesRatingScale(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	created := createTestForm(t, db, owner.ID, models.QuestionTypeRating)
	service := newResponseService(db)
	form := loadPublicForm(t, db, created.ID)

	// 6 is past the 1-5 scale at submission time, even though the
	// aggregation layer would tolerate it
	_, err := service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{{QuestionID: form.Questions[0].ID, AnswerText: "6"}},
	}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 5")

	_, err = service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{{QuestionID: form.Questions[0].ID, AnswerText: "not a number"}},
	}, "", "")
	require.Error(t, err)
}

func TestSubmitValidatesEmail(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	created := createTestForm(t, db, owner.ID, models.QuestionTypeEmail)
	service := newResponseService(db)
	form := loadPublicForm(t, db, created.ID)

	_, err := service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{{QuestionID: form.Questions[0].ID, AnswerText: "not-an-email"}},
	}, "", "")
	require.Error(t, err)

	_, err = service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{{QuestionID: form.Questions[0].ID, AnswerText: "user@example.com"}},
	}, "", "")
	require.NoError(t, err)
}

func TestSubmitRejectsForeignQuestion(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	created := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	other := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	service := newResponseService(db)
	form := loadPublicForm(t, db, created.ID)

	_, err := service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{
			{QuestionID: form.Questions[0].ID, AnswerText: "mine"},
			{QuestionID: other.Questions[0].ID, AnswerText: "someone else's"},
		},
	}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestSubmitRejectsDuplicateAnswerInRequest(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	created := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	service := newResponseService(db)
	form := loadPublicForm(t, db, created.ID)

	_, err := service.Submit(form, &SubmitResponseRequest{
		Answers: []SubmitAnswerRequest{
			{QuestionID: form.Questions[0].ID, AnswerText: "once"},
			{QuestionID: form.Questions[0].ID, AnswerText: "twice"},
		},
	}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestAnswerUniquenessEnforcedByStore(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	form := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	response := submitAnswers(t, db, form, map[int]string{0: "first"})

	duplicate := models.Answer{
		ResponseID: response.ID,
		QuestionID: form.Questions[0].ID,
		AnswerText: "second",
	}
	err := db.Create(&duplicate).Error
	require.Error(t, err)
}

func TestListByOwnerScopesAndFilters(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	mine := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	theirs := createTestForm(t, db, stranger.ID, models.QuestionTypeText)
	service := newResponseService(db)

	submitAnswers(t, db, mine, map[int]string{0: "a"})
	submitAnswers(t, db, mine, map[int]string{0: "b"})
	submitAnswers(t, db, theirs, map[int]string{0: "c"})

	responses, err := service.ListByOwner(owner.ID, nil)
	require.NoError(t, err)
	assert.Len(t, responses, 2)

	responses, err = service.ListByOwner(owner.ID, &ResponseFilter{FormID: theirs.ID})
	require.NoError(t, err)
	assert.Empty(t, responses)
}
