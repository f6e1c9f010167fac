package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/study-assistant/internal/services"
	"github.com/SAP-F-2025/study-assistant/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	BaseHandler
	sessionService services.SessionService
	exportService  services.ExportService
}

func NewQuizHandler(
	sessionService services.SessionService,
	exportService services.ExportService,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		exportService:  exportService,
	}
}

// GenerateQuestions replaces the quiz with freshly generated questions
// @Summary Generate questions
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.QuizResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/quiz/generate [post]
func (h *QuizHandler) GenerateQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	quiz, err := h.sessionService.GenerateQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// GetQuiz returns the quiz view; correct answers appear only after submission
// @Summary Get quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.QuizResponse
// @Router /sessions/{id}/quiz [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	quiz, err := h.sessionService.Quiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// SelectAnswer records the option chosen for one question
// @Summary Select answer
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body services.SelectAnswerRequest true "Selection"
// @Success 200 {object} services.QuizResponse
// @Failure 400 {object} ErrorResponse
// @Router /sessions/{id}/quiz/answers [post]
func (h *QuizHandler) SelectAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SelectAnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quiz, err := h.sessionService.SelectAnswer(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// SubmitQuiz reveals results once every question is answered
// @Summary Submit quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.QuizResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/quiz/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	quiz, err := h.sessionService.SubmitQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Quiz submitted", "revealed", quiz.ResultsRevealed)
	c.JSON(http.StatusOK, quiz)
}

// RetryQuiz clears selections and results
// @Summary Retry quiz
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.QuizResponse
// @Router /sessions/{id}/quiz/retry [post]
func (h *QuizHandler) RetryQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	quiz, err := h.sessionService.RetryQuiz(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// ListAttempts returns the submitted attempt history
// @Summary List attempts
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.AttemptListResponse
// @Router /sessions/{id}/quiz/attempts [get]
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	attempts, err := h.sessionService.Attempts(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

// ExportAttempts downloads the attempt history
// @Summary Export attempts
// @Tags quiz
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Param format query string false "xlsx (default) or csv"
// @Success 200 {file} file
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/quiz/attempts/export [get]
func (h *QuizHandler) ExportAttempts(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	file, err := h.exportService.ExportAttempts(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition(file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
