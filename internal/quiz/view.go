package quiz

import "github.com/SAP-F-2025/study-assistant/internal/models"

// QuestionView is a question as shown to the user. Correctness fields are
// only populated once results are revealed.
type QuestionView struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      *int     `json:"selected,omitempty"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
	IsCorrect     *bool    `json:"is_correct,omitempty"`
}

// View is the renderable state of a quiz session.
type View struct {
	Empty           bool               `json:"empty"`
	Questions       []QuestionView     `json:"questions"`
	Answered        int                `json:"answered"`
	Total           int                `json:"total"`
	CanSubmit       bool               `json:"can_submit"`
	ResultsRevealed bool               `json:"results_revealed"`
	Result          *models.QuizResult `json:"result,omitempty"`
}

// BuildView projects a session into its renderable form without leaking
// correct answers before submission.
func BuildView(s *models.QuizSession) View {
	if IsEmpty(s) {
		return View{Empty: true, Questions: []QuestionView{}}
	}

	v := View{
		Questions:       make([]QuestionView, 0, len(s.Questions)),
		Answered:        Answered(s),
		Total:           len(s.Questions),
		CanSubmit:       CanSubmit(s) && !s.ResultsRevealed,
		ResultsRevealed: s.ResultsRevealed,
	}

	for _, q := range s.Questions {
		qv := QuestionView{
			ID:       q.ID,
			Question: q.Text,
			Options:  q.Options,
		}
		if selected, ok := s.Selections[q.ID]; ok {
			sel := selected
			qv.Selected = &sel
		}
		if s.ResultsRevealed {
			correct := q.CorrectAnswer
			isCorrect := qv.Selected != nil && *qv.Selected == correct
			qv.CorrectAnswer = &correct
			qv.IsCorrect = &isCorrect
		}
		v.Questions = append(v.Questions, qv)
	}

	if s.ResultsRevealed {
		result := Result(s)
		v.Result = &result
	}

	return v
}
