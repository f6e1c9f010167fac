package assistant

import (
	"bytes"
	"encoding/json"

	"github.com/SAP-F-2025/study-assistant/internal/quiz"
)

// PayloadShape tags how a generate-questions response was laid out.
type PayloadShape int

const (
	ShapeMalformed PayloadShape = iota
	ShapeArray
	ShapeWrapped
)

func (s PayloadShape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "malformed"
	}
}

// QuestionPayload is a decoded generate-questions response. Candidates are
// still unvalidated; Dropped counts elements that were not even objects of
// the expected field types.
type QuestionPayload struct {
	Shape      PayloadShape
	Candidates []quiz.Candidate
	Dropped    int
}

type questionsEnvelope struct {
	Questions json.RawMessage `json:"questions"`
}

// DecodeQuestionPayload accepts a bare array, {"questions": [...]} and
// {"questions": {"questions": [...]}}. Anything else is ShapeMalformed with
// no candidates.
func DecodeQuestionPayload(body []byte) QuestionPayload {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return QuestionPayload{Shape: ShapeMalformed}
	}

	switch body[0] {
	case '[':
		return decodeArray(body, ShapeArray)
	case '{':
		var env questionsEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return QuestionPayload{Shape: ShapeMalformed}
		}
		inner := bytes.TrimSpace(env.Questions)
		if len(inner) == 0 {
			return QuestionPayload{Shape: ShapeMalformed}
		}
		switch inner[0] {
		case '[':
			return decodeArray(inner, ShapeArray)
		case '{':
			var wrapped questionsEnvelope
			if err := json.Unmarshal(inner, &wrapped); err != nil {
				return QuestionPayload{Shape: ShapeMalformed}
			}
			nested := bytes.TrimSpace(wrapped.Questions)
			if len(nested) == 0 || nested[0] != '[' {
				return QuestionPayload{Shape: ShapeMalformed}
			}
			return decodeArray(nested, ShapeWrapped)
		}
	}

	return QuestionPayload{Shape: ShapeMalformed}
}

func decodeArray(data []byte, shape PayloadShape) QuestionPayload {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return QuestionPayload{Shape: ShapeMalformed}
	}

	payload := QuestionPayload{
		Shape:      shape,
		Candidates: make([]quiz.Candidate, 0, len(elements)),
	}
	for _, el := range elements {
		var c quiz.Candidate
		if err := json.Unmarshal(el, &c); err != nil {
			payload.Dropped++
			continue
		}
		payload.Candidates = append(payload.Candidates, c)
	}
	return payload
}
