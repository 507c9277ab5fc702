package handlers

import (
	"fmt"
	"log"
	"net/http"

	"feedbackhub/models"
	"feedbackhub/services"

	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	formService         *services.FormService
	analyticsService    *services.AnalyticsService
	notificationService *services.NotificationService
}

func NewFormHandler(
	formService *services.FormService,
	analyticsService *services.AnalyticsService,
	notificationService *services.NotificationService,
) *FormHandler {
	return &FormHandler{
		formService:         formService,
		analyticsService:    analyticsService,
		notificationService: notificationService,
	}
}

func (h *FormHandler) CreateForm(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.CreateForm(userID.(uint), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Seed the analytics row so the 1:1 summary exists from day one
	if _, err := h.analyticsService.GetOrCreate(form.ID); err != nil {
		log.Printf("Failed to seed analytics for form %s: %v", form.ID, err)
	}

	if _, err := h.notificationService.Notify(
		userID.(uint),
		models.NotificationFormCreated,
		"Form Created",
		fmt.Sprintf("Form '%s' created successfully", form.Title),
		map[string]interface{}{"form_id": form.ID},
	); err != nil {
		log.Printf("Failed to notify user %d about form %s creation: %v", userID.(uint), form.ID, err)
	}

	c.JSON(http.StatusCreated, form)
}

func (h *FormHandler) GetUserForms(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter := &services.FormFilter{
		FormType: c.Query("form_type"),
		Search:   c.Query("search"),
	}
	if isActive := c.Query("is_active"); isActive != "" {
		active := isActive == "true"
		filter.IsActive = &active
	}

	forms, err := h.formService.GetUserForms(userID.(uint), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forms)
}

func (h *FormHandler) GetFormByID(c *gin.Context) {
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

	c.JSON(http.StatusOK, form)
}

func (h *FormHandler) UpdateForm(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := h.formService.UpdateForm(c.Param("id"), userID.(uint), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.notificationService.Notify(
		userID.(uint),
		models.NotificationFormUpdated,
		"Form Updated",
		fmt.Sprintf("Form '%s' updated", form.Title),
		map[string]interface{}{"form_id": form.ID},
	); err != nil {
		log.Printf("Failed to notify user %d about form %s update: %v", userID.(uint), form.ID, err)
	}

	c.JSON(http.StatusOK, form)
}

func (h *FormHandler) DeleteForm(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.formService.DeleteForm(c.Param("id"), userID.(uint)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form deleted successfully"})
}

func (h *FormHandler) GetShareLink(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"shareable_link": form.ShareableLink(),
		"form_id":        form.ID,
		"form_title":     form.Title,
	})
}

func (h *FormHandler) GetFormTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form_types": models.FormTypes})
}

func (h *FormHandler) ListPublicForms(c *gin.Context) {
	forms, err := h.formService.ListPublicForms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, forms)
}

func (h *FormHandler) GetPublicForm(c *gin.Context) {
	form, err := h.formService.GetPublicForm(c.Param("formID"))
	if err != nil {
		if err == services.ErrFormExpired {
			c.JSON(http.StatusGone, gin.H{"error": "This form has expired"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "The requested form was not found"})
		return
	}

	c.JSON(http.StatusOK, form)
}
