package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/study-assistant/internal/services"
	"github.com/SAP-F-2025/study-assistant/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	quizHandler    *QuizHandler
	chatHandler    *ChatHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	maxUploadBytes int64,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(serviceManager.Session(), maxUploadBytes, logger),
		quizHandler:    NewQuizHandler(serviceManager.Session(), serviceManager.Export(), logger),
		chatHandler:    NewChatHandler(serviceManager.Chat(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)

			// Document management
			sessions.POST("/:id/document", hm.sessionHandler.UploadDocument)
			sessions.DELETE("/:id/document", hm.sessionHandler.ResetDocument)
			sessions.PUT("/:id/view", hm.sessionHandler.SwitchView)
			sessions.GET("/:id/summary", hm.sessionHandler.GetSummary)

			// Quiz
			sessions.POST("/:id/quiz/generate", hm.quizHandler.GenerateQuestions)
			sessions.GET("/:id/quiz", hm.quizHandler.GetQuiz)
			sessions.POST("/:id/quiz/answers", hm.quizHandler.SelectAnswer)
			sessions.POST("/:id/quiz/submit", hm.quizHandler.SubmitQuiz)
			sessions.POST("/:id/quiz/retry", hm.quizHandler.RetryQuiz)
			sessions.GET("/:id/quiz/attempts", hm.quizHandler.ListAttempts)
			sessions.GET("/:id/quiz/attempts/export", hm.quizHandler.ExportAttempts)

			// Chat
			sessions.POST("/:id/chat", hm.chatHandler.Ask)
			sessions.GET("/:id/chat", hm.chatHandler.GetTranscript)
		}
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "study-assistant",
	})
}
