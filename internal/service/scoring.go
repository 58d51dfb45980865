package service

import (
	"math"

	"github.com/google/uuid"

	"github.com/quizgenie/quizgenie-backend/internal/model"
)

// ScoreResult is the outcome of scoring one submission against the
// authoritative question list.
type ScoreResult struct {
	Score          int
	TotalQuestions int
	CorrectAnswers int
	Answers        []model.AnswerRecord
	// UnknownQuestionIDs are submitted IDs that matched no question in the
	// quiz. They are skipped, never scored.
	UnknownQuestionIDs []uuid.UUID
}

// ScoreSubmission grades submitted answers against the quiz's questions.
//
// Properties:
//   - every question in the quiz yields exactly one AnswerRecord, in quiz
//     order, whether or not it was answered;
//   - an unanswered question counts as incorrect with an empty selection;
//   - submitted IDs not in the quiz are collected and skipped;
//   - if the same question appears twice in the submission, the first
//     occurrence wins;
//   - comparison against the correct option text is exact and
//     case-sensitive;
//   - the score is round(100 * correct / total), independent of answer
//     order.
func ScoreSubmission(questions []model.Question, submitted []model.SubmittedAnswer) ScoreResult {
	known := make(map[uuid.UUID]struct{}, len(questions))
	for i := range questions {
		known[questions[i].ID] = struct{}{}
	}

	selected := make(map[uuid.UUID]string, len(submitted))
	var unknown []uuid.UUID
	for _, ans := range submitted {
		if _, ok := known[ans.QuestionID]; !ok {
			unknown = append(unknown, ans.QuestionID)
			continue
		}
		if _, dup := selected[ans.QuestionID]; dup {
			continue
		}
		selected[ans.QuestionID] = ans.SelectedAnswer
	}

	result := ScoreResult{
		TotalQuestions:     len(questions),
		Answers:            make([]model.AnswerRecord, 0, len(questions)),
		UnknownQuestionIDs: unknown,
	}

	for i := range questions {
		q := &questions[i]
		correct, _ := q.CorrectAnswer()
		sel := selected[q.ID]

		record := model.AnswerRecord{
			QuestionID:     q.ID,
			SelectedAnswer: sel,
			CorrectAnswer:  correct,
			IsCorrect:      sel != "" && sel == correct,
		}
		if record.IsCorrect {
			result.CorrectAnswers++
		}
		result.Answers = append(result.Answers, record)
	}

	if result.TotalQuestions > 0 {
		result.Score = int(math.Round(float64(result.CorrectAnswers) * 100 / float64(result.TotalQuestions)))
	}
	return result
}
