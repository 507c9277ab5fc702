package main

import (
	"context"
	"log"

	"feedbackhub/config"
	"feedbackhub/handlers"
	"feedbackhub/middleware"
	"feedbackhub/models"
	"feedbackhub/routes"
	"feedbackhub/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Form{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Response{},
		&models.Answer{},
		&models.FormAnalytics{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	formService := services.NewFormService(db)
	analyticsService := services.NewAnalyticsService(db)
	notificationService := services.NewNotificationService(db, redisClient)
	responseService := services.NewResponseService(db, analyticsService, notificationService)

	// Initialize WebSocket hub and its redis bridge
	hub := services.NewHub()
	go hub.Run()
	go hub.RunRedisBridge(context.Background(), redisClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	formHandler := handlers.NewFormHandler(formService, analyticsService, notificationService)
	responseHandler := handlers.NewResponseHandler(responseService, formService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, formService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, formHandler, responseHandler, analyticsHandler, notificationHandler, hub, authService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
