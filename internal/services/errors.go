package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/study-assistant/internal/errors"
	"github.com/SAP-F-2025/study-assistant/internal/quiz"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrNoDocument      = errors.New("session has no document")

	// Document errors
	ErrUnsupportedFile         = errors.New("unsupported file type")
	ErrEmptyFile               = errors.New("file is empty")
	ErrFileTooLarge            = errors.New("file exceeds the upload limit")
	ErrDocumentTextUnavailable = errors.New("document text is not available yet")
	ErrSummaryPending          = errors.New("summary is still being generated")

	// Quiz errors
	ErrQuizNotGenerated = errors.New("no quiz has been generated")
	ErrQuizNotReady     = errors.New("every question must be answered before submitting")

	// Export errors
	ErrNoAttempts = errors.New("no submitted attempts")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// Unwrap lets errors.Is match the sentinel named by the rule.
func (bre *BusinessRuleError) Unwrap() error {
	switch bre.Rule {
	case ruleQuizIncomplete:
		return ErrQuizNotReady
	}
	return nil
}

const ruleQuizIncomplete = "quiz_incomplete"

// ===== ERROR HELPERS =====

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, quiz.ErrUnknownQuestion) ||
		errors.Is(err, quiz.ErrOptionOutOfRange) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents an operation not allowed in the current session state
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNoDocument) ||
		errors.Is(err, ErrDocumentTextUnavailable) ||
		errors.Is(err, ErrSummaryPending) ||
		errors.Is(err, ErrQuizNotGenerated) ||
		errors.Is(err, ErrNoAttempts)
}
