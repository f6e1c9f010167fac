// Package quiz validates externally generated questions and drives a single
// quiz attempt: answer selection, submit readiness, reveal and scoring.
package quiz

import (
	"errors"
	"strings"

	"github.com/SAP-F-2025/study-assistant/internal/models"
)

var (
	ErrUnknownQuestion  = errors.New("question is not part of this quiz")
	ErrOptionOutOfRange = errors.New("option index out of range")
)

const (
	topBandPercent = 80.0
	midBandPercent = 60.0
)

// Candidate is an unvalidated question record as received from upstream.
// Pointer fields distinguish "missing" from zero values.
type Candidate struct {
	ID            *int     `json:"id"`
	Question      *string  `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
}

// Valid reports whether the candidate satisfies every structural invariant of
// a question.
func (c Candidate) Valid() bool {
	if c.ID == nil || c.Question == nil || c.CorrectAnswer == nil {
		return false
	}
	if strings.TrimSpace(*c.Question) == "" {
		return false
	}
	if len(c.Options) < 2 {
		return false
	}
	return *c.CorrectAnswer >= 0 && *c.CorrectAnswer < len(c.Options)
}

// Validate returns the valid candidates in their original order. Malformed
// records are dropped without error, as are later records reusing an id.
func Validate(candidates []Candidate) []models.Question {
	questions := make([]models.Question, 0, len(candidates))
	seen := make(map[int]struct{}, len(candidates))

	for _, c := range candidates {
		if !c.Valid() {
			continue
		}
		if _, dup := seen[*c.ID]; dup {
			continue
		}
		seen[*c.ID] = struct{}{}

		options := make([]string, len(c.Options))
		copy(options, c.Options)
		questions = append(questions, models.Question{
			ID:            *c.ID,
			Text:          *c.Question,
			Options:       options,
			CorrectAnswer: *c.CorrectAnswer,
		})
	}

	return questions
}

// NewSession starts a fresh attempt over an already validated question list.
func NewSession(questions []models.Question) *models.QuizSession {
	if questions == nil {
		questions = []models.Question{}
	}
	return &models.QuizSession{
		Questions:  questions,
		Selections: make(map[int]int),
	}
}

// IsEmpty reports the empty-state condition: nothing valid to ask.
func IsEmpty(s *models.QuizSession) bool {
	return s == nil || len(s.Questions) == 0
}

// SelectAnswer records the chosen option for a question. Once results are
// revealed the call is ignored.
func SelectAnswer(s *models.QuizSession, questionID, optionIndex int) error {
	if s.ResultsRevealed {
		return nil
	}

	q, ok := find(s, questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return ErrOptionOutOfRange
	}

	if s.Selections == nil {
		s.Selections = make(map[int]int)
	}
	s.Selections[questionID] = optionIndex
	return nil
}

// CanSubmit is true when every question in the set has a selection.
func CanSubmit(s *models.QuizSession) bool {
	if IsEmpty(s) {
		return false
	}
	for _, q := range s.Questions {
		if _, ok := s.Selections[q.ID]; !ok {
			return false
		}
	}
	return true
}

// Answered counts the questions of the set that have a selection.
func Answered(s *models.QuizSession) int {
	n := 0
	for _, q := range s.Questions {
		if _, ok := s.Selections[q.ID]; ok {
			n++
		}
	}
	return n
}

// Submit reveals the results if the quiz is fully answered. It returns the
// revealed flag after the call.
func Submit(s *models.QuizSession) bool {
	if s.ResultsRevealed {
		return true
	}
	if !CanSubmit(s) {
		return false
	}
	s.ResultsRevealed = true
	return true
}

// Score counts correct selections over the question set.
func Score(s *models.QuizSession) int {
	score := 0
	for _, q := range s.Questions {
		if selected, ok := s.Selections[q.ID]; ok && selected == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Result scores the session and assigns its band.
func Result(s *models.QuizSession) models.QuizResult {
	score := Score(s)
	total := len(s.Questions)
	percentage := Percentage(score, total)
	return models.QuizResult{
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Band:       BandFor(percentage),
	}
}

func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

func BandFor(percentage float64) models.ScoreBand {
	switch {
	case percentage >= topBandPercent:
		return models.BandTop
	case percentage >= midBandPercent:
		return models.BandMid
	default:
		return models.BandLow
	}
}

// Reset clears selections and hides results; the question set is kept.
func Reset(s *models.QuizSession) {
	s.Selections = make(map[int]int)
	s.ResultsRevealed = false
}

func find(s *models.QuizSession, questionID int) (models.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return models.Question{}, false
}
