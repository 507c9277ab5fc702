package handlers

import (
	"net/http"
	"time"

	"feedbackhub/services"

	"github.com/gin-gonic/gin"
)

type ResponseHandler struct {
	responseService *services.ResponseService
	formService     *services.FormService
}

func NewResponseHandler(responseService *services.ResponseService, formService *services.FormService) *ResponseHandler {
	return &ResponseHandler{
		responseService: responseService,
		formService:     formService,
	}
}

// SubmitResponse takes an anonymous submission against a public form.
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	form, err := h.formService.GetPublicForm(c.Param("formID"))
	if err != nil {
		if err == services.ErrFormExpired {
			c.JSON(http.StatusGone, gin.H{"error": "This form has expired"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "The requested form was not found"})
		return
	}

	var req services.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.responseService.Submit(form, &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Feedback submitted successfully",
		"response_id": response.ID,
	})
}

func (h *ResponseHandler) ListResponses(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter := &services.ResponseFilter{
		FormID:   c.Query("form_id"),
		FormType: c.Query("form_type"),
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.AddDate(0, 0, 1)
			filter.DateTo = &end
		}
	}

	responses, err := h.responseService.ListByOwner(userID.(uint), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, responses)
}
