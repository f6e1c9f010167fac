package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("question", "must not be blank", "  ")

	assert.Equal(t, "question", err.Field)
	assert.Equal(t, "must not be blank", err.Message)
	assert.Equal(t, "  ", err.Value)
	assert.Equal(t, "validation error on field 'question': must not be blank", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("view", "must be summary or challenge", nil))
	assert.Equal(t, "validation failed: view must be summary or challenge", errs.Error())

	errs = append(errs, *NewValidationError("option_index", "is required", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("question", "is required", "required", "")

	assert.Equal(t, "required", err.Rule)
	assert.Equal(t, "question", err.Field)
}

func TestToValidationErrors(t *testing.T) {
	type askRequest struct {
		Question string `validate:"required,max=5"`
		Option   int    `validate:"min=0"`
	}

	v := validator.New()
	err := v.Struct(askRequest{Question: strings.Repeat("x", 6), Option: -1})
	require.Error(t, err)

	errs := ToValidationErrors(fmt.Errorf("wrapped: %w", err))
	require.Len(t, errs, 2)
	assert.Equal(t, "Question", errs[0].Field)
	assert.Equal(t, "must be at most 5 characters", errs[0].Message)
	assert.Equal(t, "max", errs[0].Rule)
	assert.Equal(t, "must be at least 0", errs[1].Message)

	assert.Empty(t, ToValidationErrors(fmt.Errorf("plain")))
}
