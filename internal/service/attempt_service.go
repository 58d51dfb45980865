package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/model"
	"github.com/quizgenie/quizgenie-backend/internal/repository"
)

// Narrow store views consumed by AttemptService. *repository.AttemptRepository
// and friends satisfy them; tests substitute in-memory fakes.
type attemptStore interface {
	Create(ctx context.Context, a *model.Attempt) error
	GetByKey(ctx context.Context, attemptID, userID, quizID uuid.UUID) (*model.Attempt, error)
	Complete(ctx context.Context, p repository.CompleteParams) (*model.Attempt, error)
}

type quizStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}

type questionStore interface {
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error)
}

// StartedAttempt is the response payload for starting an attempt: the new
// attempt plus the redacted quiz the client should render.
type StartedAttempt struct {
	AttemptID uuid.UUID         `json:"attempt_id"`
	StartedAt string            `json:"started_at"`
	Quiz      *model.PublicQuiz `json:"quiz"`
}

// AnswerDetail is one scored answer joined with the live question row for
// review display. Selection and verdict come from the frozen snapshot;
// question text and explanation are whatever the quiz says today.
type AnswerDetail struct {
	QuestionID     uuid.UUID `json:"question_id"`
	Question       string    `json:"question"`
	Explanation    string    `json:"explanation,omitempty"`
	SelectedAnswer string    `json:"selected_answer"`
	CorrectAnswer  string    `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

// AttemptResult is the full result view for one attempt.
type AttemptResult struct {
	AttemptID      uuid.UUID           `json:"attempt_id"`
	QuizID         uuid.UUID           `json:"quiz_id"`
	QuizTitle      string              `json:"quiz_title"`
	Status         model.AttemptStatus `json:"status"`
	Score          *int                `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	CorrectAnswers int                 `json:"correct_answers"`
	StartedAt      string              `json:"started_at"`
	FinishedAt     *string             `json:"finished_at"`
	Answers        []AnswerDetail      `json:"answers"`
	Feedback       *model.Feedback     `json:"feedback"`
	// FeedbackPending is true while a completed attempt still waits on the
	// feedback worker. Clients poll until it flips to false.
	FeedbackPending bool `json:"feedback_pending"`
}

// AttemptService drives the attempt lifecycle: start, submit, result.
type AttemptService struct {
	attempts  attemptStore
	quizzes   quizStore
	questions questionStore
	events    AttemptEvents
	log       zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(attempts attemptStore, quizzes quizStore, questions questionStore, events AttemptEvents, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		attempts:  attempts,
		quizzes:   quizzes,
		questions: questions,
		events:    events,
		log:       log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start opens a new in-progress attempt and returns it with the redacted
// quiz payload. A user may hold any number of concurrent in-progress
// attempts, for the same quiz or different ones; each is submitted on its
// own.
func (s *AttemptService) Start(ctx context.Context, userID, quizID uuid.UUID) (*StartedAttempt, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	attempt := &model.Attempt{
		UserID:         userID,
		QuizID:         quizID,
		Status:         model.AttemptStatusInProgress,
		TotalQuestions: len(questions),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("user_id", userID.String()).
		Str("quiz_id", quizID.String()).
		Msg("Attempt started")

	return &StartedAttempt{
		AttemptID: attempt.ID,
		StartedAt: attempt.StartedAt.UTC().Format(time.RFC3339),
		Quiz:      BuildPublicQuiz(quiz, questions),
	}, nil
}

// Submit scores the submission and completes the attempt.
//
// The status transition is one conditional update keyed by the full
// {attempt, user, quiz} tuple: if the attempt does not exist, belongs to
// someone else, belongs to another quiz, or was already submitted, the
// update matches nothing and the caller gets the same not-found error with
// no state change. Of two racing submits exactly one wins.
func (s *AttemptService) Submit(ctx context.Context, userID, quizID uuid.UUID, req *model.SubmitAttemptRequest) (*model.Attempt, error) {
	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	result := ScoreSubmission(questions, req.Answers)
	for _, id := range result.UnknownQuestionIDs {
		s.log.Warn().
			Str("attempt_id", req.AttemptID.String()).
			Str("question_id", id.String()).
			Msg("Submitted answer references unknown question, skipped")
	}

	attempt, err := s.attempts.Complete(ctx, repository.CompleteParams{
		AttemptID:      req.AttemptID,
		UserID:         userID,
		QuizID:         quizID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Answers:        result.Answers,
	})
	if err != nil {
		return nil, fmt.Errorf("complete attempt: %w", err)
	}

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Int("score", result.Score).
		Int("correct", result.CorrectAnswers).
		Int("total", result.TotalQuestions).
		Msg("Attempt submitted")

	s.dispatchCompleted(ctx, attempt)
	return attempt, nil
}

// Result retrieves one attempt's result view. The same compound key rule as
// Submit applies: any miss is a plain not-found.
func (s *AttemptService) Result(ctx context.Context, userID, quizID, attemptID uuid.UUID) (*AttemptResult, error) {
	attempt, err := s.attempts.GetByKey(ctx, attemptID, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	res := &AttemptResult{
		AttemptID:       attempt.ID,
		QuizID:          attempt.QuizID,
		QuizTitle:       quiz.Title,
		Status:          attempt.Status,
		Score:           attempt.Score,
		TotalQuestions:  attempt.TotalQuestions,
		CorrectAnswers:  attempt.CorrectAnswers,
		StartedAt:       attempt.StartedAt.UTC().Format(time.RFC3339),
		Answers:         make([]AnswerDetail, 0, len(attempt.Answers)),
		Feedback:        attempt.Feedback,
		FeedbackPending: attempt.Status == model.AttemptStatusCompleted && attempt.Feedback == nil,
	}
	if attempt.FinishedAt != nil {
		finished := attempt.FinishedAt.UTC().Format(time.RFC3339)
		res.FinishedAt = &finished
	}

	for _, rec := range attempt.Answers {
		detail := AnswerDetail{
			QuestionID:     rec.QuestionID,
			SelectedAnswer: rec.SelectedAnswer,
			CorrectAnswer:  rec.CorrectAnswer,
			IsCorrect:      rec.IsCorrect,
		}
		// Question rows may have been replaced since submission; the
		// snapshot verdict stands either way.
		if q, ok := byID[rec.QuestionID]; ok {
			detail.Question = q.Text
			detail.Explanation = q.Explanation
		}
		res.Answers = append(res.Answers, detail)
	}
	return res, nil
}

// dispatchCompleted queues feedback generation and notifies monitors.
// Failures are logged, never surfaced: the submission already succeeded and
// the result endpoint degrades gracefully without feedback.
func (s *AttemptService) dispatchCompleted(ctx context.Context, attempt *model.Attempt) {
	if err := s.events.RequestFeedback(ctx, attempt.ID); err != nil {
		s.log.Error().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Feedback dispatch failed")
	}

	evt := AttemptCompletedEvent{
		AttemptID:      attempt.ID,
		UserID:         attempt.UserID,
		QuizID:         attempt.QuizID,
		CorrectAnswers: attempt.CorrectAnswers,
		TotalQuestions: attempt.TotalQuestions,
	}
	if attempt.Score != nil {
		evt.Score = *attempt.Score
	}
	if attempt.FinishedAt != nil {
		evt.FinishedAt = *attempt.FinishedAt
	}
	if err := s.events.NotifyCompleted(ctx, evt); err != nil {
		s.log.Error().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Monitor notify failed")
	}
}
