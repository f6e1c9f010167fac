package services

import (
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/quiz"
)

// ===== REQUESTS =====

type UploadDocumentRequest struct {
	FileName    string
	ContentType string
	Content     []byte
}

type SwitchViewRequest struct {
	View string `json:"view" validate:"required,session_view"`
}

type SelectAnswerRequest struct {
	QuestionID  *int `json:"question_id" validate:"required"`
	OptionIndex *int `json:"option_index" validate:"required,min=0"`
}

type AskRequest struct {
	Question string `json:"question" validate:"not_blank,max=500"`
}

// ===== RESPONSES =====

type FileInfo struct {
	Name      string  `json:"name"`
	SizeBytes int64   `json:"size_bytes"`
	SizeKB    float64 `json:"size_kb"`
	MIMEType  string  `json:"mime_type"`
	PlainText bool    `json:"plain_text"`
}

type SummaryResponse struct {
	Pending bool `json:"pending"`
	// Unavailable marks a fallback message standing in for a summary
	Unavailable bool                    `json:"unavailable"`
	Raw         string                  `json:"raw"`
	Structured  bool                    `json:"structured"`
	Sections    []models.SummarySection `json:"sections"`
}

type SessionResponse struct {
	ID                  string               `json:"id"`
	State               models.SessionState  `json:"state"`
	View                models.SessionView   `json:"view"`
	File                *FileInfo            `json:"file,omitempty"`
	Summarizing         bool                 `json:"summarizing"`
	GeneratingQuestions bool                 `json:"generating_questions"`
	Summary             *SummaryResponse     `json:"summary,omitempty"`
	Quiz                quiz.View            `json:"quiz"`
	Transcript          []models.ChatMessage `json:"transcript"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type QuizResponse struct {
	SessionID           string `json:"session_id"`
	GeneratingQuestions bool   `json:"generating_questions"`
	quiz.View
}

type AskResponse struct {
	Reply      models.ChatMessage   `json:"reply"`
	Transcript []models.ChatMessage `json:"transcript"`
}

type AttemptListResponse struct {
	SessionID string                `json:"session_id"`
	Attempts  []*models.QuizAttempt `json:"attempts"`
	Total     int                   `json:"total"`
}

// ExportFile is a generated download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
