package assistant

import (
	"testing"

	"github.com/SAP-F-2025/study-assistant/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoQuestions = `[
	{"id": 1, "question": "Q1", "options": ["a", "b"], "correctAnswer": 0},
	{"id": 2, "question": "Q2", "options": ["a", "b", "c"], "correctAnswer": 2}
]`

func TestDecodeQuestionPayload(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantShape PayloadShape
		wantCount int
		wantDrop  int
	}{
		{"bare array", twoQuestions, ShapeArray, 2, 0},
		{"questions field", `{"questions": ` + twoQuestions + `}`, ShapeArray, 2, 0},
		{"wrapped object", `{"questions": {"questions": ` + twoQuestions + `}}`, ShapeWrapped, 2, 0},
		{"questions is a string", `{"questions": "none"}`, ShapeMalformed, 0, 0},
		{"missing questions", `{"error": "boom"}`, ShapeMalformed, 0, 0},
		{"not json", `<html>oops</html>`, ShapeMalformed, 0, 0},
		{"empty body", ``, ShapeMalformed, 0, 0},
		{"elements of the wrong type are dropped", `[1, "x", {"id": 3, "question": "Q", "options": ["a", "b"], "correctAnswer": 1}]`, ShapeArray, 1, 2},
		{"non integer correct answer dropped", `[{"id": 1, "question": "Q", "options": ["a", "b"], "correctAnswer": "1"}]`, ShapeArray, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeQuestionPayload([]byte(tt.body))
			assert.Equal(t, tt.wantShape, got.Shape)
			assert.Len(t, got.Candidates, tt.wantCount)
			assert.Equal(t, tt.wantDrop, got.Dropped)
		})
	}
}

func TestDecodeQuestionPayload_FeedsValidation(t *testing.T) {
	body := `{"questions": [
		{"id": 1, "question": "Q1", "options": ["a", "b"], "correctAnswer": 1},
		{"id": 2, "question": "Q2", "options": ["a", "b"]},
		{"id": 3, "question": "Q3", "options": ["a", "b", "c"], "correctAnswer": 0}
	]}`

	payload := DecodeQuestionPayload([]byte(body))
	require.Len(t, payload.Candidates, 3)

	questions := quiz.Validate(payload.Candidates)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].ID)
	assert.Equal(t, 3, questions[1].ID)
}
