package routes

import (
	"log"
	"net/http"

	"feedbackhub/handlers"
	"feedbackhub/middleware"
	"feedbackhub/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	formHandler *handlers.FormHandler,
	responseHandler *handlers.ResponseHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	notificationHandler *handlers.NotificationHandler,
	hub *services.Hub,
	authService *services.AuthService,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Form routes
			forms := protected.Group("/forms")
			{
				forms.GET("", formHandler.GetUserForms)
				forms.POST("", formHandler.CreateForm)
				forms.GET("/:id", formHandler.GetFormByID)
				forms.PUT("/:id", formHandler.UpdateForm)
				forms.DELETE("/:id", formHandler.DeleteForm)
				forms.GET("/:id/analytics", analyticsHandler.GetFormAnalytics)
				forms.GET("/:id/question-analytics", analyticsHandler.GetQuestionAnalytics)
				forms.GET("/:id/share-link", formHandler.GetShareLink)
			}

			// Response routes
			protected.GET("/responses", responseHandler.ListResponses)

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", notificationHandler.ListNotifications)
				notifications.POST("/:id/read", notificationHandler.MarkAsRead)
				notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
				notifications.GET("/unread-count", notificationHandler.UnreadCount)
			}

			// Dashboard and statistics
			protected.GET("/dashboard", analyticsHandler.GetDashboard)
			protected.GET("/stats", analyticsHandler.GetStats)
			protected.GET("/form-types", formHandler.GetFormTypes)
		}

		// Public feedback form routes
		public := api.Group("/public")
		{
			public.GET("/forms", formHandler.ListPublicForms)
			public.GET("/feedback/:formID", formHandler.GetPublicForm)
			public.POST("/feedback/:formID", responseHandler.SubmitResponse)
		}
	}

	// WebSocket endpoint for live notifications. The token travels as a query
	// parameter because browsers cannot set headers on websocket upgrades.
	router.GET("/ws/notifications", func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}

		userID, err := authService.ParseToken(token)
		if err != nil {
			log.Printf("WebSocket auth failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		log.Printf("WebSocket connection established for user %d", userID)

		// Register client with hub - this will handle all message processing
		hub.RegisterClient(conn, userID)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
