package services

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"feedbackhub/models"

	"gorm.io/gorm"
)

const (
	textSampleLimit    = 5
	textSampleMaxRunes = 100
	noAnswerBucket     = "No Answer"
)

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type QuestionAnalytics struct {
	QuestionID         uint           `json:"question_id"`
	QuestionText       string         `json:"question_text"`
	QuestionType       string         `json:"question_type"`
	ResponseCount      int            `json:"response_count"`
	ResponseRate       float64        `json:"response_rate"`
	AverageRating      *float64       `json:"average_rating"`
	AnswerDistribution map[string]int `json:"answer_distribution"`
	TopAnswers         []string       `json:"top_answers,omitempty"`
	SampleAnswers      []SampleAnswer `json:"sample_answers,omitempty"`
}

type SampleAnswer struct {
	Answer string    `json:"answer"`
	Date   time.Time `json:"date"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type FormAnalyticsReport struct {
	FormID            string              `json:"form_id"`
	FormTitle         string              `json:"form_title"`
	TotalResponses    int                 `json:"total_responses"`
	RecentResponses   int                 `json:"recent_responses"`
	DailyResponses    []DailyCount        `json:"daily_responses"`
	CompletionRate    float64             `json:"completion_rate"`
	AverageRating     float64             `json:"average_rating"`
	QuestionAnalytics []QuestionAnalytics `json:"question_analytics"`
	LastUpdated       time.Time           `json:"last_updated"`
}

// GetOrCreate returns the form's analytics row, creating a zero-initialized one
// if the form has never been aggregated.
func (s *AnalyticsService) GetOrCreate(formID string) (*models.FormAnalytics, error) {
	var analytics models.FormAnalytics
	err := s.db.Where("form_id = ?", formID).First(&analytics).Error
	if err == nil {
		return &analytics, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	analytics = models.FormAnalytics{
		FormID:      formID,
		LastUpdated: time.Now().UTC(),
	}
	if err := s.db.Create(&analytics).Error; err != nil {
		return nil, err
	}
	return &analytics, nil
}

// Recompute rebuilds the form's analytics row from the stored responses and
// overwrites it. It never returns an error: any internal fault falls back to
// the zero-state summary so callers always get a consistent snapshot. A
// response counts as complete only when its answer count equals the form's
// question count, required or not. Concurrent recomputes of the same form are
// last-writer-wins; the row self-heals on the next call since the computation
// is pure over the stored answers.
func (s *AnalyticsService) Recompute(formID string) *models.FormAnalytics {
	analytics, err := s.GetOrCreate(formID)
	if err != nil {
		log.Printf("Failed to load analytics row for form %s: %v", formID, err)
		return &models.FormAnalytics{FormID: formID, LastUpdated: time.Now().UTC()}
	}

	total, completionRate, averageRating, err := s.compute(formID)
	if err != nil {
		log.Printf("Analytics computation failed for form %s, storing zero state: %v", formID, err)
		total, completionRate, averageRating = 0, 0, 0
	}

	analytics.TotalResponses = total
	analytics.CompletionRate = completionRate
	analytics.AverageRating = averageRating
	analytics.LastUpdated = time.Now().UTC()

	if err := s.db.Save(analytics).Error; err != nil {
		log.Printf("Failed to save analytics for form %s: %v", formID, err)
	}

	return analytics
}

func (s *AnalyticsService) compute(formID string) (int, float64, float64, error) {
	var responses []models.Response
	if err := s.db.Where("form_id = ?", formID).
		Preload("Answers").
		Find(&responses).Error; err != nil {
		return 0, 0, 0, err
	}

	total := len(responses)
	if total == 0 {
		return 0, 0, 0, nil
	}

	var questionCount int64
	if err := s.db.Model(&models.Question{}).Where("form_id = ?", formID).Count(&questionCount).Error; err != nil {
		return 0, 0, 0, err
	}

	// Completion rate: a response is complete when it answered every question.
	completionRate := 100.0 // vacuously complete when the form has no questions
	if questionCount > 0 {
		completed := 0
		for _, response := range responses {
			if int64(len(response.Answers)) == questionCount {
				completed++
			}
		}
		completionRate = float64(completed) / float64(total) * 100
	}

	ratingAnswers, err := s.ratingAnswers(formID)
	if err != nil {
		return 0, 0, 0, err
	}

	averageRating := 0.0
	validRatings := []float64{}
	for _, answer := range ratingAnswers {
		if value, ok := parseRating(answer.AnswerText); ok {
			validRatings = append(validRatings, value)
		}
	}
	if len(validRatings) > 0 {
		sum := 0.0
		for _, value := range validRatings {
			sum += value
		}
		averageRating = sum / float64(len(validRatings))
	}

	return total, completionRate, averageRating, nil
}

// ratingAnswers fetches every answer on the form whose question is a rating type.
func (s *AnalyticsService) ratingAnswers(formID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.form_id = ? AND questions.question_type IN ?",
			formID, []string{models.QuestionTypeRating, models.QuestionTypeRating10}).
		Find(&answers).Error
	return answers, err
}

// parseRating validates raw rating text. The [0, 10] range is deliberately
// type-agnostic so it tolerates both the 1-5 and 1-10 scales; anything
// unparseable or out of range is skipped, never an error.
func parseRating(text string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	if value < 0 || value > 10 {
		return 0, false
	}
	return value, true
}

// FormAnalytics recomputes the summary synchronously and returns the full
// report for the form, including per-question breakdowns and the 30-day
// response trend. Freshness over latency: there is no auto-refresh on read.
func (s *AnalyticsService) FormAnalytics(form *models.Form) *FormAnalyticsReport {
	analytics := s.Recompute(form.ID)

	report := &FormAnalyticsReport{
		FormID:            form.ID,
		FormTitle:         form.Title,
		TotalResponses:    analytics.TotalResponses,
		CompletionRate:    analytics.CompletionRate,
		AverageRating:     analytics.AverageRating,
		LastUpdated:       analytics.LastUpdated,
		DailyResponses:    []DailyCount{},
		QuestionAnalytics: []QuestionAnalytics{},
	}

	var responses []models.Response
	if err := s.db.Where("form_id = ?", form.ID).Find(&responses).Error; err != nil {
		log.Printf("Failed to load responses for form %s trend: %v", form.ID, err)
		return report
	}

	thirtyDaysAgo := time.Now().UTC().AddDate(0, 0, -30)
	for _, response := range responses {
		if response.SubmittedAt.After(thirtyDaysAgo) {
			report.RecentResponses++
		}
	}
	report.DailyResponses = dailyCounts(responses, 30)

	questionAnalytics, err := s.QuestionAnalytics(form.ID)
	if err != nil {
		log.Printf("Failed to build question analytics for form %s: %v", form.ID, err)
		return report
	}
	report.QuestionAnalytics = questionAnalytics

	return report
}

// QuestionAnalytics builds the per-question breakdown: distributions for
// choice and yes/no questions, averages for rating questions, and a bounded
// sample of recent raw answers for free-text questions.
func (s *AnalyticsService) QuestionAnalytics(formID string) ([]QuestionAnalytics, error) {
	var questions []models.Question
	if err := s.db.Where("form_id = ?", formID).
		Order(`questions."order"`).
		Find(&questions).Error; err != nil {
		return nil, err
	}

	var totalResponses int64
	if err := s.db.Model(&models.Response{}).Where("form_id = ?", formID).Count(&totalResponses).Error; err != nil {
		return nil, err
	}

	result := make([]QuestionAnalytics, 0, len(questions))
	for _, question := range questions {
		var answers []models.Answer
		if err := s.db.Where("question_id = ?", question.ID).Find(&answers).Error; err != nil {
			return nil, err
		}

		qa := QuestionAnalytics{
			QuestionID:         question.ID,
			QuestionText:       question.Text,
			QuestionType:       question.QuestionType,
			ResponseCount:      len(answers),
			AnswerDistribution: map[string]int{},
		}
		if totalResponses > 0 {
			qa.ResponseRate = float64(len(answers)) / float64(totalResponses) * 100
		}

		switch {
		case question.IsRatingType():
			validRatings := []float64{}
			for _, answer := range answers {
				if value, ok := parseRating(answer.AnswerText); ok {
					validRatings = append(validRatings, value)
					qa.AnswerDistribution[strings.TrimSpace(answer.AnswerText)]++
				}
			}
			if len(validRatings) > 0 {
				sum := 0.0
				for _, value := range validRatings {
					sum += value
				}
				average := sum / float64(len(validRatings))
				qa.AverageRating = &average
			}

		case question.IsChoiceType():
			qa.AnswerDistribution = answerDistribution(answers)
			qa.TopAnswers = topAnswers(qa.AnswerDistribution, 5)

		case question.IsTextType():
			samples, err := s.sampleAnswers(question.ID)
			if err != nil {
				return nil, err
			}
			qa.SampleAnswers = samples
		}

		result = append(result, qa)
	}

	return result, nil
}

// answerDistribution maps trimmed answer text to its occurrence count. Blank
// answers fall into the "No Answer" bucket.
func answerDistribution(answers []models.Answer) map[string]int {
	distribution := map[string]int{}
	for _, answer := range answers {
		text := strings.TrimSpace(answer.AnswerText)
		if text == "" {
			text = noAnswerBucket
		}
		distribution[text]++
	}
	return distribution
}

// topAnswers orders the distribution keys by descending count, ties broken
// alphabetically for stable output.
func topAnswers(distribution map[string]int, limit int) []string {
	type bucket struct {
		text  string
		count int
	}
	buckets := make([]bucket, 0, len(distribution))
	for text, count := range distribution {
		buckets = append(buckets, bucket{text: text, count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].text < buckets[j].text
	})

	if len(buckets) > limit {
		buckets = buckets[:limit]
	}
	top := make([]string, len(buckets))
	for i, b := range buckets {
		top[i] = b.text
	}
	return top
}

// sampleAnswers returns the most recent free-text answers, truncated for
// display. The full corpus is never exposed.
func (s *AnalyticsService) sampleAnswers(questionID uint) ([]SampleAnswer, error) {
	var answers []models.Answer
	err := s.db.
		Joins("JOIN responses ON responses.id = answers.response_id").
		Where("answers.question_id = ?", questionID).
		Order("responses.submitted_at DESC").
		Limit(textSampleLimit).
		Preload("Response").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	samples := make([]SampleAnswer, 0, len(answers))
	for _, answer := range answers {
		samples = append(samples, SampleAnswer{
			Answer: truncateAnswer(answer.AnswerText, textSampleMaxRunes),
			Date:   answer.Response.SubmittedAt,
		})
	}
	return samples, nil
}

func truncateAnswer(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes]) + "..."
}

// dailyCounts buckets responses by calendar day (UTC) over the trailing
// window, oldest day first. Bucketing happens in Go so the same query path
// works on both postgres and sqlite.
func dailyCounts(responses []models.Response, days int) []DailyCount {
	perDay := map[string]int{}
	for _, response := range responses {
		perDay[response.SubmittedAt.UTC().Format("2006-01-02")]++
	}

	counts := make([]DailyCount, 0, days)
	now := time.Now().UTC()
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		counts = append(counts, DailyCount{Date: day, Count: perDay[day]})
	}
	return counts
}
