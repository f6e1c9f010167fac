package models

// Question is a multiple-choice question that passed structural validation.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuizSession is the in-progress state of one quiz over a fixed question set.
type QuizSession struct {
	Questions       []Question  `json:"questions"`
	Selections      map[int]int `json:"selections"` // question id -> option index
	ResultsRevealed bool        `json:"results_revealed"`
}

type ScoreBand string

const (
	BandTop ScoreBand = "top"
	BandMid ScoreBand = "mid"
	BandLow ScoreBand = "low"
)

// QuizResult is the scored outcome of a submitted quiz.
type QuizResult struct {
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	Band       ScoreBand `json:"band"`
}

func (q *QuizSession) Clone() *QuizSession {
	out := &QuizSession{
		Questions:       make([]Question, len(q.Questions)),
		Selections:      make(map[int]int, len(q.Selections)),
		ResultsRevealed: q.ResultsRevealed,
	}
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		out.Questions[i] = question
	}
	for id, option := range q.Selections {
		out.Selections[id] = option
	}
	return out
}
