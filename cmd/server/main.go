package main

import (
	"github.com/gin-gonic/gin"

	"github.com/example/standup-bot/internal/chat"
	"github.com/example/standup-bot/internal/config"
	"github.com/example/standup-bot/internal/database"
	"github.com/example/standup-bot/internal/handlers"
	"github.com/example/standup-bot/internal/logging"
	"github.com/example/standup-bot/internal/middleware"
	"github.com/example/standup-bot/internal/repository"
	"github.com/example/standup-bot/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	log := logging.L()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Initialize repositories
	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	standupRepo := repository.NewStandupRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	// Initialize services
	membershipService := services.NewMembershipService(teamRepo, userRepo)
	questionService := services.NewQuestionService(questionRepo, teamRepo)
	standupService := services.NewStandupService(standupRepo, questionRepo, userRepo)
	scheduleService := services.NewScheduleService(scheduleRepo, userRepo)

	// Outbound chat sender with retry
	sender := chat.NewRetryingSender(
		chat.NewHTTPSender(cfg.ChatBaseURL, cfg.ChatToken),
		chat.RetryPolicy{
			Attempts:  cfg.ChatRetryAttempts,
			BaseDelay: cfg.ChatRetryBaseDelay,
			MaxDelay:  cfg.ChatRetryMaxDelay,
		},
	)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(
		membershipService,
		questionService,
		standupService,
		scheduleService,
		sender,
	)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Standup bot is running",
		})
	})

	// Webhook route (authenticated per request, no sessions)
	api := r.Group("/api/v1")
	api.Use(middleware.RequireWebhookToken(cfg.WebhookToken))
	{
		api.POST("/events", webhookHandler.HandleEvent)
	}

	// Start server
	log.Infof("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
