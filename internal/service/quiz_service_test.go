package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/quizgenie/quizgenie-backend/internal/model"
)

func optionInputs(correctIdx int, texts ...string) []model.AnswerOptionInput {
	opts := make([]model.AnswerOptionInput, len(texts))
	for i, t := range texts {
		opts[i] = model.AnswerOptionInput{Text: t, IsCorrect: i == correctIdx}
	}
	return opts
}

func TestValidateQuestionsAccepts(t *testing.T) {
	fields := ValidateQuestions([]model.QuestionInput{
		{Text: "q1", Options: optionInputs(0, "a", "b")},
		{Text: "q2", Options: optionInputs(2, "a", "b", "c", "d")},
	})
	if len(fields) != 0 {
		t.Errorf("valid questions rejected: %v", fields)
	}
}

func TestValidateQuestionsNoCorrectOption(t *testing.T) {
	fields := ValidateQuestions([]model.QuestionInput{
		{Text: "q1", Options: optionInputs(0, "a", "b")},
		{Text: "q2", Options: optionInputs(-1, "a", "b")},
	})

	if len(fields) != 1 {
		t.Fatalf("fields = %v, want exactly one error", fields)
	}
	msg, ok := fields["questions[1].options"]
	if !ok {
		t.Fatalf("error not keyed by offending question: %v", fields)
	}
	if !strings.Contains(msg, "found none") {
		t.Errorf("message = %q", msg)
	}
}

func TestValidateQuestionsMultipleCorrectOptions(t *testing.T) {
	fields := ValidateQuestions([]model.QuestionInput{
		{Text: "q1", Options: []model.AnswerOptionInput{
			{Text: "a", IsCorrect: true},
			{Text: "b", IsCorrect: true},
			{Text: "c"},
		}},
	})

	msg, ok := fields["questions[0].options"]
	if !ok {
		t.Fatalf("fields = %v", fields)
	}
	if !strings.Contains(msg, "found 2") {
		t.Errorf("message = %q", msg)
	}
}

func TestQuestionsFromRequestDefaultsPoints(t *testing.T) {
	questions := questionsFromRequest([]model.QuestionInput{
		{Text: "q1", Options: optionInputs(0, "a", "b")},
		{Text: "q2", Points: 5, Options: optionInputs(0, "a", "b")},
	})

	if questions[0].Points != 1 {
		t.Errorf("zero points not defaulted: %d", questions[0].Points)
	}
	if questions[1].Points != 5 {
		t.Errorf("explicit points overridden: %d", questions[1].Points)
	}
}

func TestBuildPublicQuizRedacts(t *testing.T) {
	quiz := &model.Quiz{ID: uuid.New(), Title: "T", Subject: model.SubjectScience, Difficulty: model.DifficultyHard}
	questions := []model.Question{
		{
			ID:          uuid.New(),
			Text:        "q1",
			Explanation: "secret explanation",
			Points:      2,
			Options: []model.AnswerOption{
				{Text: "a", IsCorrect: true},
				{Text: "b"},
			},
		},
	}

	pub := BuildPublicQuiz(quiz, questions)

	if len(pub.Questions) != 1 {
		t.Fatalf("len(Questions) = %d", len(pub.Questions))
	}
	q := pub.Questions[0]
	if len(q.Options) != 2 || q.Options[0] != "a" || q.Options[1] != "b" {
		t.Errorf("options mangled: %v", q.Options)
	}
	if q.Points != 2 {
		t.Errorf("Points = %d, want 2", q.Points)
	}
	// PublicQuestion carries plain strings only, so correctness flags and
	// explanations cannot leak by construction. Spot-check the empty quiz too.
	empty := BuildPublicQuiz(quiz, nil)
	if empty.Questions == nil {
		t.Error("empty question list should serialize as [], not null")
	}
}
