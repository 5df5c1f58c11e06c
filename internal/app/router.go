package app

import (
	"math_tutor_backend/docs"
	"math_tutor_backend/internal/config"
	"math_tutor_backend/internal/middleware"
	"math_tutor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	router.GET("/health", c.health.Check)
	router.POST("/register", c.auth.Register)
	router.POST("/login", c.auth.Login)
	router.POST("/logout", c.auth.Logout)

	// Admin inspection routes authenticate with their own shared
	// secret instead of a user token.
	admin := router.Group("/admin")
	{
		admin.POST("/tables", c.admin.Tables)
		admin.POST("/table_data", c.admin.TableData)
		admin.POST("/interactions", c.admin.Interactions)
	}

	// Everything else requires a valid token for a still-existing user.
	authorized := router.Group("/")
	authorized.Use(middleware.AuthMiddleware(cfg, repos.user))
	{
		authorized.POST("/generate", c.tutor.Generate)
		authorized.POST("/answer", c.tutor.Answer)
		authorized.POST("/direct_question", c.tutor.DirectQuestion)
		authorized.POST("/generate_stream", c.tutor.GenerateStream)
		authorized.POST("/answer_stream", c.tutor.AnswerStream)
		authorized.POST("/direct_question_stream", c.tutor.DirectQuestionStream)
		authorized.POST("/upload_question", c.tutor.UploadQuestion)

		authorized.GET("/chat_history", c.chatHistory.List)
		authorized.POST("/chat_history", c.chatHistory.Create)
		authorized.GET("/chat_history/:id", c.chatHistory.Get)
		authorized.PUT("/chat_history/:id", c.chatHistory.Update)
		// Kept as an update alias for clients that cannot send PUT.
		authorized.POST("/chat_history/:id", c.chatHistory.Update)
		authorized.DELETE("/chat_history/:id", c.chatHistory.Delete)
	}
}
