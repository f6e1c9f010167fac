package services

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/quiz"
	"github.com/SAP-F-2025/study-assistant/internal/summary"
)

const greetingFormat = "Hello! I've analyzed your document \"%s\". Feel free to ask me any questions about its content, and I'll help you understand it better."

// greetingMessageID is reserved; chat messages use ids derived from their request sequence.
const greetingMessageID = 1

func greeting(fileName string, at time.Time) models.ChatMessage {
	return models.ChatMessage{
		ID:        greetingMessageID,
		Sender:    models.SenderAI,
		Text:      fmt.Sprintf(greetingFormat, fileName),
		Timestamp: at,
	}
}

func toSessionResponse(session *models.DocumentSession) *SessionResponse {
	resp := &SessionResponse{
		ID:                  session.ID,
		State:               session.State(),
		View:                session.View,
		Summarizing:         session.Summarizing,
		GeneratingQuestions: session.GeneratingQuestions,
		Quiz:                quiz.BuildView(session.Quiz),
		Transcript:          session.Transcript,
		CreatedAt:           session.CreatedAt,
		UpdatedAt:           session.UpdatedAt,
	}
	if resp.Transcript == nil {
		resp.Transcript = []models.ChatMessage{}
	}
	if session.File != nil {
		resp.File = &FileInfo{
			Name:      session.File.Name,
			SizeBytes: session.File.Size,
			SizeKB:    session.File.SizeKB(),
			MIMEType:  session.File.MIMEType,
			PlainText: session.File.PlainText,
		}
		resp.Summary = toSummaryResponse(session)
	}
	return resp
}

func toSummaryResponse(session *models.DocumentSession) *SummaryResponse {
	if session.Summarizing {
		return &SummaryResponse{Pending: true, Sections: []models.SummarySection{}}
	}
	parsed := summary.Parse(session.Summary)
	return &SummaryResponse{
		Unavailable: isFallbackSummary(session.Summary),
		Raw:         session.Summary,
		Structured:  parsed.Structured,
		Sections:    parsed.Sections,
	}
}

func toQuizResponse(session *models.DocumentSession) *QuizResponse {
	return &QuizResponse{
		SessionID:           session.ID,
		GeneratingQuestions: session.GeneratingQuestions,
		View:                quiz.BuildView(session.Quiz),
	}
}
