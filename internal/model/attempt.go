package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt lifecycle states.
//
// in_progress → completed is the only transition performed by the API;
// in_progress → abandoned is reserved for an out-of-band cleanup policy.
// completed and abandoned are terminal.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusCompleted  AttemptStatus = "completed"
	AttemptStatusAbandoned  AttemptStatus = "abandoned"
)

// AnswerRecord is the denormalized snapshot of one scored answer, frozen at
// submission time so later quiz edits never alter historical results.
type AnswerRecord struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	CorrectAnswer  string    `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

// Attempt represents one user's pass through one quiz.
type Attempt struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	QuizID         uuid.UUID      `json:"quiz_id"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	Status         AttemptStatus  `json:"status"`
	Answers        []AnswerRecord `json:"answers,omitempty"`
	Score          *int           `json:"score,omitempty"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	Feedback       *Feedback      `json:"feedback,omitempty"`
}

// SubmittedAnswer is one client-submitted answer selection.
type SubmittedAnswer struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedAnswer string    `json:"selected_answer" binding:"required"`
}

// SubmitAttemptRequest is the payload for submitting a quiz attempt.
// The attempt ID is always explicit: a user may hold several in-progress
// attempts for the same quiz, so there is no implicit "open attempt".
type SubmitAttemptRequest struct {
	AttemptID uuid.UUID         `json:"attempt_id" binding:"required"`
	Answers   []SubmittedAnswer `json:"answers" binding:"required,dive"`
}
