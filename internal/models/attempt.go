package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt is a persisted, submitted quiz.
type QuizAttempt struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	SessionID     string         `json:"session_id" gorm:"not null;size:64;index"`
	DocumentName  string         `json:"document_name" gorm:"size:255"`
	Score         int            `json:"score" gorm:"not null"`
	Total         int            `json:"total" gorm:"not null"`
	Percentage    float64        `json:"percentage"`
	Band          ScoreBand      `json:"band" gorm:"size:8"`
	Answers       datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	AttemptNumber int            `json:"attempt_number"`
	SubmittedAt   time.Time      `json:"submitted_at" gorm:"index"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AttemptAnswer is one row of QuizAttempt.Answers.
type AttemptAnswer struct {
	QuestionID    int    `json:"question_id"`
	Question      string `json:"question"`
	Selected      int    `json:"selected"`
	SelectedText  string `json:"selected_text"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}
