package model

import (
	"time"

	"github.com/google/uuid"
)

// Subject enumerates the supported quiz subjects.
type Subject string

const (
	SubjectMathematics      Subject = "Mathematics"
	SubjectScience          Subject = "Science"
	SubjectHistory          Subject = "History"
	SubjectGeography        Subject = "Geography"
	SubjectLiterature       Subject = "Literature"
	SubjectComputerScience  Subject = "Computer Science"
	SubjectGeneralKnowledge Subject = "General Knowledge"
	SubjectCivics           Subject = "Civics"
	SubjectDSA              Subject = "DSA"
	SubjectWebDevelopment   Subject = "Web Development"
)

// Difficulty enumerates quiz difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Quiz represents a quiz entity. Questions are populated only by reads that
// explicitly join them; list reads carry QuestionCount instead.
type Quiz struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Subject          Subject    `json:"subject"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	IsActive         bool       `json:"is_active"`
	CreatedBy        uuid.UUID  `json:"created_by"`
	QuestionCount    int        `json:"question_count,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Questions        []Question `json:"questions,omitempty"`
}

// CreateQuizRequest is the full admin payload for creating or replacing a quiz,
// including correctness flags. The exactly-one-correct-option invariant is
// cross-field and enforced in the service layer with per-question error keys.
type CreateQuizRequest struct {
	Title            string          `json:"title" binding:"required,min=3,max=200"`
	Description      string          `json:"description" binding:"required,max=1000"`
	Subject          string          `json:"subject" binding:"required,oneof=Mathematics Science History Geography Literature 'Computer Science' 'General Knowledge' Civics DSA 'Web Development'"`
	Difficulty       string          `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	TimeLimitMinutes int             `json:"time_limit_minutes" binding:"required,min=1,max=180"`
	Questions        []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// QuestionInput is one question within a quiz create/update payload.
type QuestionInput struct {
	Text        string              `json:"text" binding:"required,min=1,max=2000"`
	Explanation string              `json:"explanation" binding:"max=2000"`
	Points      int                 `json:"points" binding:"min=0"`
	Options     []AnswerOptionInput `json:"options" binding:"required,min=2,max=4,dive"`
}

// AnswerOptionInput is one answer option within a question payload.
type AnswerOptionInput struct {
	Text      string `json:"text" binding:"required,min=1,max=500"`
	IsCorrect bool   `json:"is_correct"`
}

// PublicQuiz is the redacted quiz payload sent to quiz takers: option texts
// only, no correctness flags, no explanations.
type PublicQuiz struct {
	ID               uuid.UUID        `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Subject          Subject          `json:"subject"`
	Difficulty       Difficulty       `json:"difficulty"`
	TimeLimitMinutes int              `json:"time_limit_minutes"`
	Questions        []PublicQuestion `json:"questions"`
}

// PublicQuestion is a question without correctness information.
type PublicQuestion struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Points  int       `json:"points"`
	Options []string  `json:"options"`
}
