package services

import (
	"testing"
	"time"

	"feedbackhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormWithQuestionTree(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	service := NewFormService(db)

	form, err := service.CreateForm(user.ID, &CreateFormRequest{
		Title:    "Customer Survey",
		FormType: "customer_satisfaction",
		Questions: []CreateQuestionRequest{
			{Text: "How satisfied are you?", QuestionType: models.QuestionTypeRating},
			{Text: "Would you recommend us?", QuestionType: models.QuestionTypeRadio, Options: []string{"Yes", "No", "Maybe"}},
			{Text: "Any comments?", QuestionType: models.QuestionTypeTextarea},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, form.ID)
	require.Len(t, form.Questions, 3)

	// Order follows the request order
	assert.Equal(t, 0, form.Questions[0].Order)
	assert.Equal(t, 1, form.Questions[1].Order)
	assert.Equal(t, 2, form.Questions[2].Order)

	require.Len(t, form.Questions[1].Options, 3)
	assert.Equal(t, "Yes", form.Questions[1].Options[0].Label)
	assert.Equal(t, "Maybe", form.Questions[1].Options[2].Label)
}

func TestCreateFormRejectsBadQuestions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	service := NewFormService(db)

	_, err := service.CreateForm(user.ID, &CreateFormRequest{
		Title: "Bad",
		Questions: []CreateQuestionRequest{
			{Text: "Pick one", QuestionType: models.QuestionTypeRadio, Options: []string{"Only"}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two options")

	_, err = service.CreateForm(user.ID, &CreateFormRequest{
		Title: "Bad",
		Questions: []CreateQuestionRequest{
			{Text: "Huh", QuestionType: "carousel"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid question type")
}

func TestGetFormByIDIsOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	form := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	service := NewFormService(db)

	_, err := service.GetFormByID(form.ID, owner.ID)
	require.NoError(t, err)

	_, err = service.GetFormByID(form.ID, stranger.ID)
	require.Error(t, err)
}

func TestUpdateFormReplacesQuestions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	service := NewFormService(db)

	form, err := service.CreateForm(user.ID, &CreateFormRequest{
		Title: "Original",
		Questions: []CreateQuestionRequest{
			{Text: "Old question", QuestionType: models.QuestionTypeText},
			{Text: "Pick", QuestionType: models.QuestionTypeRadio, Options: []string{"A", "B"}},
		},
	})
	require.NoError(t, err)

	updated, err := service.UpdateForm(form.ID, user.ID, &UpdateFormRequest{
		Title: "Renamed",
		Questions: []CreateQuestionRequest{
			{Text: "New question", QuestionType: models.QuestionTypeYesNo},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	require.Len(t, updated.Questions, 1)
	assert.Equal(t, "New question", updated.Questions[0].Text)
}

func TestGetPublicFormExpiry(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	service := NewFormService(db)

	form := createTestForm(t, db, user.ID, models.QuestionTypeText)
	expired := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Form{}).Where("id = ?", form.ID).Update("expires_at", expired).Error)

	_, err := service.GetPublicForm(form.ID)
	assert.ErrorIs(t, err, ErrFormExpired)
}

func TestListPublicFormsSkipsInactiveAndExpired(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	service := NewFormService(db)

	live := createTestForm(t, db, user.ID, models.QuestionTypeText)

	inactive := createTestForm(t, db, user.ID, models.QuestionTypeText)
	require.NoError(t, db.Model(&models.Form{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	expired := createTestForm(t, db, user.ID, models.QuestionTypeText)
	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&models.Form{}).Where("id = ?", expired.ID).Update("expires_at", past).Error)

	forms, err := service.ListPublicForms()
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, live.ID, forms[0].ID)
}

func TestGetUserFormsFilters(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	service := NewFormService(db)

	_, err := service.CreateForm(user.ID, &CreateFormRequest{
		Title:    "Lunch feedback",
		FormType: "service_feedback",
		Questions: []CreateQuestionRequest{
			{Text: "Rate lunch", QuestionType: models.QuestionTypeRating},
		},
	})
	require.NoError(t, err)
	_, err = service.CreateForm(user.ID, &CreateFormRequest{
		Title:    "Onboarding survey",
		FormType: "employee_feedback",
		Questions: []CreateQuestionRequest{
			{Text: "Rate onboarding", QuestionType: models.QuestionTypeRating},
		},
	})
	require.NoError(t, err)

	forms, err := service.GetUserForms(user.ID, &FormFilter{FormType: "employee_feedback"})
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Onboarding survey", forms[0].Title)

	forms, err = service.GetUserForms(user.ID, &FormFilter{Search: "lunch"})
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Lunch feedback", forms[0].Title)
}

func TestDeleteFormIsSoft(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	form := createTestForm(t, db, user.ID, models.QuestionTypeText)
	service := NewFormService(db)

	require.NoError(t, service.DeleteForm(form.ID, user.ID))

	_, err := service.GetFormByID(form.ID, user.ID)
	require.Error(t, err)

	// The row is still there, just soft-deleted
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Form{}).Where("id = ?", form.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
