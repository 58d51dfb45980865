package model

import (
	"github.com/google/uuid"
)

// AnswerOption is one selectable answer with its concealed correctness flag.
// Stored as jsonb alongside the question; never serialized to non-admin callers.
type AnswerOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question represents a single quiz question with its full answer options.
type Question struct {
	ID          uuid.UUID      `json:"id"`
	QuizID      uuid.UUID      `json:"quiz_id"`
	Text        string         `json:"text"`
	Explanation string         `json:"explanation,omitempty"`
	Points      int            `json:"points"`
	Options     []AnswerOption `json:"options"`
	OrderNum    int            `json:"order_num"`
}

// CorrectAnswer returns the text of the option flagged correct.
// The quiz write-path invariant guarantees exactly one such option exists.
func (q *Question) CorrectAnswer() (string, bool) {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.Text, true
		}
	}
	return "", false
}

// Redact strips correctness information for quiz-taker views.
func (q *Question) Redact() PublicQuestion {
	options := make([]string, len(q.Options))
	for i, opt := range q.Options {
		options[i] = opt.Text
	}
	return PublicQuestion{
		ID:      q.ID,
		Text:    q.Text,
		Points:  q.Points,
		Options: options,
	}
}
