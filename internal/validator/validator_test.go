package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewRequest struct {
	View string `json:"view" validate:"required,session_view"`
}

type askRequest struct {
	Question string `json:"question" validate:"not_blank,max=500"`
}

func TestValidator_SessionView(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(viewRequest{View: "summary"}))
	assert.NoError(t, v.Validate(viewRequest{View: "challenge"}))

	err := v.Validate(viewRequest{View: "quiz"})
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "view", errs[0].Field)
	assert.Equal(t, "must be summary or challenge", errs[0].Message)
}

func TestValidator_NotBlank(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(askRequest{Question: "What is X?"}))

	err := v.Validate(askRequest{Question: " \t\n"})
	require.Error(t, err)
	errs := err.(ValidationErrors)
	assert.Equal(t, "question", errs[0].Field)
	assert.Equal(t, "not_blank", errs[0].Rule)
}

func TestRequestValidator_ValidateUpload(t *testing.T) {
	rv := New().Request()

	tests := []struct {
		name     string
		file     string
		size     int64
		maxBytes int64
		rules    []string
	}{
		{name: "valid", file: "notes.txt", size: 10, maxBytes: 100},
		{name: "missing", file: "", size: 0, maxBytes: 100, rules: []string{"required"}},
		{name: "empty", file: "notes.txt", size: 0, maxBytes: 100, rules: []string{"non_empty"}},
		{name: "too large", file: "paper.pdf", size: 200, maxBytes: 100, rules: []string{"max_size"}},
		{name: "no limit", file: "paper.pdf", size: 200, maxBytes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := rv.ValidateUpload(tt.file, tt.size, tt.maxBytes)
			var rules []string
			for _, e := range errs {
				rules = append(rules, e.Rule)
			}
			assert.Equal(t, tt.rules, rules)
		})
	}
}
