package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/quizgenie/quizgenie-backend/internal/model"
)

func makeQuestion(text, correct string, wrong ...string) model.Question {
	opts := []model.AnswerOption{{Text: correct, IsCorrect: true}}
	for _, w := range wrong {
		opts = append(opts, model.AnswerOption{Text: w})
	}
	return model.Question{ID: uuid.New(), Text: text, Points: 1, Options: opts}
}

func TestScoreSubmissionHalfCorrect(t *testing.T) {
	questions := []model.Question{
		makeQuestion("2x + 4 = 10", "3", "2", "4"),
		makeQuestion("3(a + 2) - 2a", "a + 6", "5a + 6"),
		makeQuestion("factor of x^2 - 9", "x + 3", "x - 9"),
		makeQuestion("4^2", "16", "8", "32"),
	}

	submitted := []model.SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswer: "3"},
		{QuestionID: questions[1].ID, SelectedAnswer: "5a + 6"},
		{QuestionID: questions[2].ID, SelectedAnswer: "x + 3"},
		{QuestionID: questions[3].ID, SelectedAnswer: "8"},
	}

	res := ScoreSubmission(questions, submitted)

	if res.CorrectAnswers != 2 {
		t.Errorf("CorrectAnswers = %d, want 2", res.CorrectAnswers)
	}
	if res.Score != 50 {
		t.Errorf("Score = %d, want 50", res.Score)
	}
	if res.TotalQuestions != 4 {
		t.Errorf("TotalQuestions = %d, want 4", res.TotalQuestions)
	}
	if len(res.Answers) != 4 {
		t.Fatalf("len(Answers) = %d, want 4", len(res.Answers))
	}
	if !res.Answers[0].IsCorrect || res.Answers[1].IsCorrect {
		t.Errorf("per-question verdicts wrong: %+v", res.Answers)
	}
}

func TestScoreSubmissionOrderIndependent(t *testing.T) {
	questions := []model.Question{
		makeQuestion("q1", "a", "b"),
		makeQuestion("q2", "c", "d"),
		makeQuestion("q3", "e", "f"),
	}

	forward := []model.SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswer: "a"},
		{QuestionID: questions[1].ID, SelectedAnswer: "d"},
		{QuestionID: questions[2].ID, SelectedAnswer: "e"},
	}
	reversed := []model.SubmittedAnswer{forward[2], forward[1], forward[0]}

	r1 := ScoreSubmission(questions, forward)
	r2 := ScoreSubmission(questions, reversed)

	if r1.Score != r2.Score || r1.CorrectAnswers != r2.CorrectAnswers {
		t.Errorf("scoring depends on answer order: %+v vs %+v", r1, r2)
	}
	// Snapshot order follows quiz order regardless of submission order.
	for i := range questions {
		if r2.Answers[i].QuestionID != questions[i].ID {
			t.Errorf("Answers[%d] out of quiz order", i)
		}
	}
}

func TestScoreSubmissionUnansweredCountsAgainst(t *testing.T) {
	questions := []model.Question{
		makeQuestion("q1", "a", "b"),
		makeQuestion("q2", "c", "d"),
		makeQuestion("q3", "e", "f"),
	}

	res := ScoreSubmission(questions, []model.SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswer: "a"},
	})

	if res.Score != 33 {
		t.Errorf("Score = %d, want 33 (round(100/3))", res.Score)
	}
	if res.Answers[1].SelectedAnswer != "" || res.Answers[1].IsCorrect {
		t.Errorf("unanswered question should be an empty incorrect record, got %+v", res.Answers[1])
	}
}

func TestScoreSubmissionSkipsUnknownQuestions(t *testing.T) {
	questions := []model.Question{makeQuestion("q1", "a", "b")}
	ghost := uuid.New()

	res := ScoreSubmission(questions, []model.SubmittedAnswer{
		{QuestionID: ghost, SelectedAnswer: "a"},
		{QuestionID: questions[0].ID, SelectedAnswer: "a"},
	})

	if res.Score != 100 {
		t.Errorf("Score = %d, want 100", res.Score)
	}
	if len(res.UnknownQuestionIDs) != 1 || res.UnknownQuestionIDs[0] != ghost {
		t.Errorf("UnknownQuestionIDs = %v, want [%s]", res.UnknownQuestionIDs, ghost)
	}
	if len(res.Answers) != 1 {
		t.Errorf("unknown question leaked into snapshot: %+v", res.Answers)
	}
}

func TestScoreSubmissionFirstDuplicateWins(t *testing.T) {
	questions := []model.Question{makeQuestion("q1", "a", "b")}

	res := ScoreSubmission(questions, []model.SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswer: "a"},
		{QuestionID: questions[0].ID, SelectedAnswer: "b"},
	})

	if res.Score != 100 {
		t.Errorf("Score = %d, want 100 (first answer wins)", res.Score)
	}
}

func TestScoreSubmissionCaseSensitive(t *testing.T) {
	questions := []model.Question{makeQuestion("q1", "Paris", "London")}

	res := ScoreSubmission(questions, []model.SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswer: "paris"},
	})

	if res.Score != 0 {
		t.Errorf("Score = %d, want 0 (comparison is exact)", res.Score)
	}
	if res.Answers[0].CorrectAnswer != "Paris" {
		t.Errorf("CorrectAnswer = %q, want %q", res.Answers[0].CorrectAnswer, "Paris")
	}
}

func TestScoreSubmissionEmptySubmission(t *testing.T) {
	questions := []model.Question{
		makeQuestion("q1", "a", "b"),
		makeQuestion("q2", "c", "d"),
	}

	res := ScoreSubmission(questions, nil)

	if res.Score != 0 || res.CorrectAnswers != 0 {
		t.Errorf("empty submission scored %d/%d, want 0/0", res.Score, res.CorrectAnswers)
	}
	if len(res.Answers) != 2 {
		t.Errorf("len(Answers) = %d, want 2", len(res.Answers))
	}
}
