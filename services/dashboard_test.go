package services

import (
	"testing"
	"time"

	"feedbackhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	service := NewAnalyticsService(db)

	busy := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	quiet := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	require.NoError(t, db.Model(&models.Form{}).Where("id = ?", quiet.ID).Update("is_active", false).Error)
	foreign := createTestForm(t, db, stranger.ID, models.QuestionTypeText)

	submitAnswers(t, db, busy, map[int]string{0: "a"})
	submitAnswers(t, db, busy, map[int]string{0: "b"})
	submitAnswersAt(t, db, busy, map[int]string{0: "old"}, time.Now().UTC().AddDate(0, 0, -10))
	submitAnswers(t, db, foreign, map[int]string{0: "not yours"})

	service.Recompute(busy.ID)
	service.Recompute(quiet.ID)

	summary, err := service.Dashboard(owner.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalForms)
	assert.Equal(t, 1, summary.ActiveForms)
	assert.Equal(t, 3, summary.TotalResponses)
	assert.Equal(t, 2, summary.RecentResponses)
	assert.InDelta(t, 50.0, summary.AverageCompletionRate, 0.0001)
	assert.Len(t, summary.DailyResponses, 30)
	assert.Len(t, summary.RecentResponsesList, 3)

	require.NotEmpty(t, summary.TopForms)
	assert.Equal(t, busy.ID, summary.TopForms[0].ID)
	assert.Equal(t, 3, summary.TopForms[0].ResponseCount)
}

func TestStatsWindow(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	service := NewAnalyticsService(db)

	form := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	expired := createTestForm(t, db, owner.ID, models.QuestionTypeText)
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Model(&models.Form{}).Where("id = ?", expired.ID).Update("expires_at", past).Error)

	submitAnswers(t, db, form, map[int]string{0: "recent"})
	submitAnswersAt(t, db, form, map[int]string{0: "ancient"}, time.Now().UTC().AddDate(0, 0, -45))

	stats, err := service.Stats(owner.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, 30, stats.PeriodDays)
	assert.Equal(t, 2, stats.Forms.Total)
	assert.Equal(t, 2, stats.Forms.Active)
	assert.Equal(t, 1, stats.Forms.Expired)

	// The 45-day-old response falls outside the window
	assert.Equal(t, 1, stats.Responses.Total)
	assert.Len(t, stats.Responses.DailyTrend, 30)
	require.NotEmpty(t, stats.TopForms)
	assert.Equal(t, form.ID, stats.TopForms[0].ID)
}
