package main

import (
	"driverrating/config"
	"driverrating/handlers"
	"driverrating/middleware"
	"driverrating/models"
	"driverrating/routes"
	"driverrating/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Driver{},
		&models.Survey{},
		&models.Question{},
		&models.Choice{},
		&models.Response{},
		&models.Answer{},
		&models.AnswerChoice{},
	)
	if err != nil {
		logrus.Fatal("Failed to migrate database: ", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, redisClient, cfg.JWTSecret)
	surveyService := services.NewSurveyService(db)
	driverService := services.NewDriverService(db)
	questionService := services.NewQuestionService(db)
	choiceService := services.NewChoiceService(db)
	submissionService := services.NewSubmissionService(db)
	reportService := services.NewReportService(db)

	// Bootstrap the admin account from configuration, if any
	if err := authService.EnsureSuperuser(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
		logrus.Warn("Superuser bootstrap failed: ", err)
	}

	// Initialize WebSocket hub for live dashboard updates
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	surveyHandler := handlers.NewSurveyHandler(surveyService)
	driverHandler := handlers.NewDriverHandler(driverService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	choiceHandler := handlers.NewChoiceHandler(choiceService)
	responseHandler := handlers.NewResponseHandler(submissionService, hub)
	reportHandler := handlers.NewReportHandler(reportService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Setup routes
	routes.SetupRoutes(
		router,
		authHandler,
		surveyHandler,
		driverHandler,
		questionHandler,
		choiceHandler,
		responseHandler,
		reportHandler,
		hub,
		authService,
	)

	// Start server
	logrus.Infof("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatal("Failed to start server: ", err)
	}
}
