package models

import (
	"math"
	"time"
)

type SessionView string

const (
	ViewSummary   SessionView = "summary"
	ViewChallenge SessionView = "challenge"
)

type SessionState string

const (
	StateEmpty  SessionState = "empty"
	StateActive SessionState = "active"
)

// FileReference describes the uploaded document.
type FileReference struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MIMEType  string `json:"mime_type"`
	PlainText bool   `json:"plain_text"`
}

// SizeKB returns the file size in kilobytes rounded to one decimal.
func (f *FileReference) SizeKB() float64 {
	return math.Round(float64(f.Size)/1024*10) / 10
}

// DocumentSession is the complete client-visible state of one user's document.
type DocumentSession struct {
	ID   string         `json:"id"`
	File *FileReference `json:"file,omitempty"`

	// Text holds locally extracted content and is empty for documents whose
	// extraction is delegated to the assistant service.
	Text    string       `json:"text,omitempty"`
	Summary string       `json:"summary,omitempty"`
	Quiz    *QuizSession `json:"quiz,omitempty"`
	View    SessionView  `json:"view"`

	Summarizing         bool `json:"summarizing"`
	GeneratingQuestions bool `json:"generating_questions"`

	Transcript []ChatMessage `json:"transcript"`

	// Generation increases whenever the document changes; responses issued
	// under an older generation are discarded.
	Generation int64 `json:"generation"`
	// NextSeq is the next chat request sequence number.
	NextSeq int64 `json:"next_seq"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *DocumentSession) State() SessionState {
	if s.File == nil {
		return StateEmpty
	}
	return StateActive
}

// ClearDocument drops everything derived from the current document.
func (s *DocumentSession) ClearDocument() {
	s.File = nil
	s.Text = ""
	s.Summary = ""
	s.Quiz = nil
	s.View = ViewSummary
	s.Summarizing = false
	s.GeneratingQuestions = false
	s.Transcript = nil
	s.Generation++
}

// Clone returns a deep copy so stored state never aliases a caller's value.
func (s *DocumentSession) Clone() *DocumentSession {
	if s == nil {
		return nil
	}
	out := *s
	if s.File != nil {
		file := *s.File
		out.File = &file
	}
	if s.Quiz != nil {
		out.Quiz = s.Quiz.Clone()
	}
	if s.Transcript != nil {
		out.Transcript = append([]ChatMessage(nil), s.Transcript...)
	}
	return &out
}
