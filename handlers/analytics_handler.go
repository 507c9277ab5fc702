package handlers

import (
	"net/http"
	"strconv"

	"feedbackhub/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	formService      *services.FormService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, formService *services.FormService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		formService:      formService,
	}
}

// GetFormAnalytics recomputes and returns the full analytics report for a
// form the caller owns. Computation faults surface as a zeroed summary, not
// an error.
func (h *AnalyticsHandler) GetFormAnalytics(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	form, err := h.formService.GetFormByID(c.Param("id"), userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}

	c.JSON(http.StatusOK, h.analyticsService.FormAnalytics(form))
}

func (h *AnalyticsHandler) GetQuestionAnalytics(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	form, err := h.formService.GetFormByID(c.Param("id"), userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}

	questionAnalytics, err := h.analyticsService.QuestionAnalytics(form.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load question analytics"})
		return
	}

	c.JSON(http.StatusOK, questionAnalytics)
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := h.analyticsService.Dashboard(userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	days := 30
	if d := c.Query("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			days = parsed
		}
	}

	stats, err := h.analyticsService.Stats(userID.(uint), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
