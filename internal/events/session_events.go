package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of session events published to the broker
type EventType string

const (
	EventDocumentSummarized EventType = "document.summarized"
	EventDocumentReset      EventType = "document.reset"

	EventQuestionsGenerated EventType = "quiz.questions_generated"
	EventQuizSubmitted      EventType = "quiz.submitted"

	EventQuestionAsked EventType = "chat.question_asked"
)

const (
	eventSource  = "study-assistant"
	eventVersion = "1.0"
)

// SessionEvent is the envelope for every published event
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func NewSessionEvent(eventType EventType, sessionID string, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

type DocumentSummarizedEvent struct {
	DocumentName string `json:"document_name"`
	MIMEType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	Structured   bool   `json:"structured"`
	Sections     int    `json:"sections"`
	Fallback     bool   `json:"fallback"`
}

type DocumentResetEvent struct {
	DocumentName string `json:"document_name"`
}

type QuestionsGeneratedEvent struct {
	DocumentName   string `json:"document_name"`
	PayloadShape   string `json:"payload_shape"`
	Received       int    `json:"received"`
	ValidQuestions int    `json:"valid_questions"`
}

type QuizSubmittedEvent struct {
	DocumentName  string  `json:"document_name"`
	AttemptNumber int     `json:"attempt_number"`
	Score         int     `json:"score"`
	Total         int     `json:"total"`
	Percentage    float64 `json:"percentage"`
	Band          string  `json:"band"`
}

type QuestionAskedEvent struct {
	RequestSeq     int64 `json:"request_seq"`
	QuestionLength int   `json:"question_length"`
	Answered       bool  `json:"answered"`
}
