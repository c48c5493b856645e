package routes

import (
	"net/http"

	"driverrating/handlers"
	"driverrating/middleware"
	"driverrating/models"
	"driverrating/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin checking is handled by the CORS layer
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	surveyHandler *handlers.SurveyHandler,
	driverHandler *handlers.DriverHandler,
	questionHandler *handlers.QuestionHandler,
	choiceHandler *handlers.ChoiceHandler,
	responseHandler *handlers.ResponseHandler,
	reportHandler *handlers.ReportHandler,
	hub *services.Hub,
	authService *services.AuthService,
) {
	// API routes
	api := router.Group("/api")
	{
		// Public routes
		api.POST("/auth/login/", authHandler.Login)
		api.GET("/surveys/active/", surveyHandler.GetActiveSurveys)
		api.GET("/surveys/active/:slug/", surveyHandler.GetActiveSurveyBySlug)
		api.GET("/drivers/active/", driverHandler.GetActiveDrivers)
		api.POST("/responses/", responseHandler.SubmitResponse)

		// Admin routes (staff credential required)
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(authService), middleware.StaffRequired())
		{
			surveys := admin.Group("/surveys")
			{
				surveys.GET("", surveyHandler.GetSurveys)
				surveys.POST("", surveyHandler.CreateSurvey)
				surveys.GET("/:id", surveyHandler.GetSurveyByID)
				surveys.PUT("/:id", surveyHandler.UpdateSurvey)
				surveys.DELETE("/:id", surveyHandler.DeleteSurvey)
				surveys.GET("/:id/results", reportHandler.SurveyResults)
			}

			questions := admin.Group("/questions")
			{
				questions.GET("", questionHandler.GetQuestions)
				questions.POST("", questionHandler.CreateQuestion)
				questions.GET("/:id", questionHandler.GetQuestionByID)
				questions.PUT("/:id", questionHandler.UpdateQuestion)
				questions.DELETE("/:id", questionHandler.DeleteQuestion)
			}

			choices := admin.Group("/choices")
			{
				choices.GET("", choiceHandler.GetChoices)
				choices.POST("", choiceHandler.CreateChoice)
				choices.GET("/:id", choiceHandler.GetChoiceByID)
				choices.PUT("/:id", choiceHandler.UpdateChoice)
				choices.DELETE("/:id", choiceHandler.DeleteChoice)
			}

			drivers := admin.Group("/drivers")
			{
				drivers.GET("", driverHandler.GetDrivers)
				drivers.POST("", driverHandler.CreateDriver)
				drivers.GET("/:id", driverHandler.GetDriverByID)
				drivers.PUT("/:id", driverHandler.UpdateDriver)
				// no DELETE: drivers are deactivated, never removed
			}

			admin.GET("/dashboard-table/", reportHandler.DashboardTable)
			admin.POST("/responses/delete/", responseHandler.DeleteResponses)
			admin.GET("/surveys-overview/", reportHandler.SurveysOverview)
			admin.GET("/users/", authHandler.GetUsers)
			admin.POST("/users/", authHandler.CreateUser)
		}
	}

	// WebSocket endpoint for live dashboard updates
	router.GET("/ws/dashboard", func(c *gin.Context) {
		var user *models.User
		if token := c.Query("token"); token != "" {
			user, _ = authService.Authenticate(token)
		}
		if user == nil {
			if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
				user, _ = authService.AuthenticateSession(cookie)
			}
		}
		if user == nil || !user.IsStaff {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "staff credentials required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Warnf("websocket upgrade failed for %s: %v", user.Username, err)
			return
		}
		hub.RegisterClient(conn, user.Username)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
