package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/study-assistant/internal/services"
	"github.com/SAP-F-2025/study-assistant/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// requestLogger prefers the request-scoped logger set by ContextLogger
func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := append([]interface{}{
		"remote_addr", c.ClientIP(),
		"user_agent", c.Request.UserAgent(),
	}, additionalFields...)

	h.requestLogger(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.requestLogger(c).LogError(err, message, additionalFields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.requestLogger(c).Warn(message, additionalFields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
		Code:    services.ErrorCode(err),
	}

	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	}

	c.JSON(statusCode, errorResp)
}

// handleServiceError maps service errors onto HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	// Handle custom error types first
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		status := http.StatusBadRequest
		for _, ve := range validationErrors {
			if ve.Rule == "max_size" {
				status = http.StatusRequestEntityTooLarge
			}
		}
		h.RespondWithError(c, status, "Validation failed", err, validationErrors)
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		h.RespondWithError(c, http.StatusUnprocessableEntity, businessRuleError.Message, err, map[string]interface{}{
			"rule":    businessRuleError.Rule,
			"context": businessRuleError.Context,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
	case errors.Is(err, services.ErrUnsupportedFile):
		h.RespondWithError(c, http.StatusUnsupportedMediaType, "Only PDF, DOC, DOCX and TXT files are supported", err)
	case errors.Is(err, services.ErrFileTooLarge):
		h.RespondWithError(c, http.StatusRequestEntityTooLarge, "File is too large", err)
	case errors.Is(err, services.ErrEmptyFile):
		h.RespondWithError(c, http.StatusBadRequest, "File is empty", err)
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, conflictMessage(err), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNoDocument):
		return "No document uploaded"
	case errors.Is(err, services.ErrSummaryPending):
		return "Document is still being summarized"
	case errors.Is(err, services.ErrDocumentTextUnavailable):
		return "Document text is not available for question generation"
	case errors.Is(err, services.ErrQuizNotGenerated):
		return "No questions have been generated"
	case errors.Is(err, services.ErrNoAttempts):
		return "No submitted attempts to export"
	default:
		return err.Error()
	}
}

// bindJSON binds the request body and writes a 400 on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	return true
}
