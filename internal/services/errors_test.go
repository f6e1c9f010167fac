package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SAP-F-2025/study-assistant/internal/intake"
	"github.com/SAP-F-2025/study-assistant/internal/quiz"
	"github.com/stretchr/testify/assert"
)

func TestBusinessRuleError_UnwrapsQuizIncomplete(t *testing.T) {
	err := NewBusinessRuleError(ruleQuizIncomplete, "not yet", nil)

	assert.ErrorIs(t, err, ErrQuizNotReady)
	assert.True(t, IsBusinessRule(err))
	assert.False(t, IsConflict(err))
}

func TestMapIntakeError(t *testing.T) {
	assert.ErrorIs(t, mapIntakeError(fmt.Errorf("%w: x.png", intake.ErrUnsupportedType)), ErrUnsupportedFile)
	assert.ErrorIs(t, mapIntakeError(intake.ErrEmptyDocument), ErrEmptyFile)
	assert.ErrorIs(t, mapIntakeError(intake.ErrTooLarge), ErrFileTooLarge)

	other := errors.New("boom")
	assert.Equal(t, other, mapIntakeError(other))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{nil, ""},
		{ValidationErrors{*NewValidationError("view", "is required", "")}, "validation"},
		{quiz.ErrUnknownQuestion, "validation"},
		{NewBusinessRuleError(ruleQuizIncomplete, "not yet", nil), "business_rule"},
		{ErrSessionNotFound, "not_found"},
		{fmt.Errorf("wrapped: %w", ErrNoDocument), "conflict"},
		{ErrSummaryPending, "conflict"},
		{ErrUnsupportedFile, "unsupported_file"},
		{ErrFileTooLarge, "file_too_large"},
		{ErrEmptyFile, "empty_file"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, ErrorCode(tt.err), "%v", tt.err)
	}
}
