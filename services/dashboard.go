package services

import (
	"database/sql"
	"sort"
	"time"

	"feedbackhub/models"
)

type FormTypeCount struct {
	FormType      string `json:"form_type"`
	Count         int    `json:"count"`
	ResponseCount int    `json:"response_count"`
}

type RecentResponse struct {
	ID          string    `json:"id"`
	FormID      string    `json:"form_id"`
	FormTitle   string    `json:"form_title"`
	FormType    string    `json:"form_type"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type TopForm struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	FormType      string `json:"form_type"`
	ResponseCount int    `json:"response_count"`
	IsActive      bool   `json:"is_active"`
}

type DashboardSummary struct {
	TotalForms            int              `json:"total_forms"`
	ActiveForms           int              `json:"active_forms"`
	TotalResponses        int              `json:"total_responses"`
	RecentResponses       int              `json:"recent_responses"`
	AverageCompletionRate float64          `json:"average_completion_rate"`
	FormTypeDistribution  []FormTypeCount  `json:"form_type_distribution"`
	DailyResponses        []DailyCount     `json:"daily_responses"`
	RecentResponsesList   []RecentResponse `json:"recent_responses_list"`
	TopForms              []TopForm        `json:"top_forms"`
}

type FormStats struct {
	PeriodDays int `json:"period_days"`
	Forms      struct {
		Total   int             `json:"total"`
		Active  int             `json:"active"`
		Expired int             `json:"expired"`
		ByType  []FormTypeCount `json:"by_type"`
	} `json:"forms"`
	Responses struct {
		Total      int          `json:"total"`
		DailyTrend []DailyCount `json:"daily_trend"`
	} `json:"responses"`
	TopForms []TopForm `json:"top_forms"`
}

// Dashboard builds the owner's overview: form counts, response volume over the
// last week and month, and the best performing forms.
func (s *AnalyticsService) Dashboard(userID uint) (*DashboardSummary, error) {
	var forms []models.Form
	if err := s.db.Where("created_by_id = ?", userID).Find(&forms).Error; err != nil {
		return nil, err
	}

	var responses []models.Response
	if err := s.db.
		Joins("JOIN forms ON forms.id = responses.form_id").
		Where("forms.created_by_id = ? AND forms.deleted_at IS NULL", userID).
		Order("responses.submitted_at DESC").
		Preload("Form").
		Find(&responses).Error; err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalForms:           len(forms),
		TotalResponses:       len(responses),
		FormTypeDistribution: formTypeCounts(forms, countResponsesByForm(responses)),
		DailyResponses:       dailyCounts(responses, 30),
		RecentResponsesList:  []RecentResponse{},
		TopForms:             topFormsByResponses(forms, countResponsesByForm(responses), 5),
	}

	for _, form := range forms {
		if form.IsActive {
			summary.ActiveForms++
		}
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	for _, response := range responses {
		if response.SubmittedAt.After(weekAgo) {
			summary.RecentResponses++
		}
	}

	for i, response := range responses {
		if i >= 10 {
			break
		}
		summary.RecentResponsesList = append(summary.RecentResponsesList, RecentResponse{
			ID:          response.ID,
			FormID:      response.FormID,
			FormTitle:   response.Form.Title,
			FormType:    response.Form.FormType,
			SubmittedAt: response.SubmittedAt,
		})
	}

	var avgRate sql.NullFloat64
	if err := s.db.Model(&models.FormAnalytics{}).
		Joins("JOIN forms ON forms.id = form_analytics.form_id").
		Where("forms.created_by_id = ? AND forms.deleted_at IS NULL", userID).
		Select("AVG(form_analytics.completion_rate)").
		Scan(&avgRate).Error; err != nil {
		return nil, err
	}
	if avgRate.Valid {
		summary.AverageCompletionRate = avgRate.Float64
	}

	return summary, nil
}

// Stats builds windowed statistics over the owner's forms for the given
// trailing number of days.
func (s *AnalyticsService) Stats(userID uint, days int) (*FormStats, error) {
	if days <= 0 {
		days = 30
	}

	var forms []models.Form
	if err := s.db.Where("created_by_id = ?", userID).Find(&forms).Error; err != nil {
		return nil, err
	}

	startDate := time.Now().UTC().AddDate(0, 0, -days)
	var responses []models.Response
	if err := s.db.
		Joins("JOIN forms ON forms.id = responses.form_id").
		Where("forms.created_by_id = ? AND forms.deleted_at IS NULL AND responses.submitted_at >= ?", userID, startDate).
		Find(&responses).Error; err != nil {
		return nil, err
	}

	responseCounts := countResponsesByForm(responses)

	stats := &FormStats{PeriodDays: days}
	stats.Forms.Total = len(forms)
	for _, form := range forms {
		if form.IsActive {
			stats.Forms.Active++
		}
		if form.IsExpired() {
			stats.Forms.Expired++
		}
	}
	stats.Forms.ByType = formTypeCounts(forms, responseCounts)
	stats.Responses.Total = len(responses)
	stats.Responses.DailyTrend = dailyCounts(responses, days)
	stats.TopForms = topFormsByResponses(forms, responseCounts, 10)

	return stats, nil
}

func countResponsesByForm(responses []models.Response) map[string]int {
	counts := map[string]int{}
	for _, response := range responses {
		counts[response.FormID]++
	}
	return counts
}

func formTypeCounts(forms []models.Form, responseCounts map[string]int) []FormTypeCount {
	perType := map[string]*FormTypeCount{}
	for _, form := range forms {
		entry, ok := perType[form.FormType]
		if !ok {
			entry = &FormTypeCount{FormType: form.FormType}
			perType[form.FormType] = entry
		}
		entry.Count++
		entry.ResponseCount += responseCounts[form.ID]
	}

	result := make([]FormTypeCount, 0, len(perType))
	for _, entry := range perType {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].FormType < result[j].FormType
	})
	return result
}

func topFormsByResponses(forms []models.Form, responseCounts map[string]int, limit int) []TopForm {
	top := make([]TopForm, 0, len(forms))
	for _, form := range forms {
		top = append(top, TopForm{
			ID:            form.ID,
			Title:         form.Title,
			FormType:      form.FormType,
			ResponseCount: responseCounts[form.ID],
			IsActive:      form.IsActive,
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].ResponseCount != top[j].ResponseCount {
			return top[i].ResponseCount > top[j].ResponseCount
		}
		return top[i].Title < top[j].Title
	})
	if len(top) > limit {
		top = top[:limit]
	}
	return top
}
