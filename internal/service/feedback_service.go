package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/model"
)

// Feedback parsing errors.
var (
	ErrNoJSONObject    = errors.New("no JSON object found in model output")
	ErrFeedbackInvalid = errors.New("model output is not a usable feedback object")
)

// textGenerator is the slice of AIService the feedback pipeline needs.
type textGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type feedbackAttemptStore interface {
	GetByID(ctx context.Context, attemptID uuid.UUID) (*model.Attempt, error)
	AttachFeedback(ctx context.Context, attemptID uuid.UUID, fb *model.Feedback) error
}

// FeedbackService turns a completed attempt into persisted AI feedback.
// Called from the worker, never from a request handler.
type FeedbackService struct {
	attempts  feedbackAttemptStore
	quizzes   quizStore
	questions questionStore
	gen       textGenerator
	log       zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(attempts feedbackAttemptStore, quizzes quizStore, questions questionStore, gen textGenerator, log zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		attempts:  attempts,
		quizzes:   quizzes,
		questions: questions,
		gen:       gen,
		log:       log.With().Str("component", "feedback_service").Logger(),
	}
}

// Generate produces and persists feedback for one attempt.
//
// Any failure past the initial load (generation, parsing, even a transient
// upstream outage) degrades to persisting the fallback object so polling
// clients terminate. The AttachFeedback guard makes duplicate jobs no-ops.
func (s *FeedbackService) Generate(ctx context.Context, attemptID uuid.UUID) error {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return fmt.Errorf("load attempt: %w", err)
	}
	if attempt.Status != model.AttemptStatusCompleted {
		s.log.Warn().Str("attempt_id", attemptID.String()).Str("status", string(attempt.Status)).Msg("Skipping feedback for non-completed attempt")
		return nil
	}
	if attempt.Feedback != nil {
		return nil
	}

	fb, err := s.generate(ctx, attempt)
	if err != nil {
		s.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Feedback generation failed, persisting fallback")
		fb = model.FallbackFeedback()
	}

	if err := s.attempts.AttachFeedback(ctx, attemptID, fb); err != nil {
		return fmt.Errorf("attach feedback: %w", err)
	}
	return nil
}

func (s *FeedbackService) generate(ctx context.Context, attempt *model.Attempt) (*model.Feedback, error) {
	quiz, err := s.quizzes.GetByID(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	questions, err := s.questions.ListByQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	raw, err := s.gen.Complete(ctx, BuildFeedbackPrompt(quiz, questions, attempt))
	if err != nil {
		return nil, err
	}
	return ParseFeedback(raw)
}

// BuildFeedbackPrompt assembles the generation prompt: quiz context, the
// per-question outcome, and the exact JSON contract the reply must follow.
func BuildFeedbackPrompt(quiz *model.Quiz, questions []model.Question, attempt *model.Attempt) string {
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a tutor reviewing a student's quiz results.\n\n")
	fmt.Fprintf(&b, "Quiz: %s (subject: %s, difficulty: %s)\n", quiz.Title, quiz.Subject, quiz.Difficulty)
	if attempt.Score != nil {
		fmt.Fprintf(&b, "Score: %d%% (%d of %d correct)\n\n", *attempt.Score, attempt.CorrectAnswers, attempt.TotalQuestions)
	}

	b.WriteString("Questions and answers:\n")
	for i, rec := range attempt.Answers {
		text := "(question no longer available)"
		if q, ok := byID[rec.QuestionID]; ok {
			text = q.Text
		}
		verdict := "incorrect"
		if rec.IsCorrect {
			verdict = "correct"
		}
		answered := rec.SelectedAnswer
		if answered == "" {
			answered = "(no answer)"
		}
		fmt.Fprintf(&b, "%d. %s\n   Student answered: %s (%s; correct answer: %s)\n",
			i+1, text, answered, verdict, rec.CorrectAnswer)
	}

	b.WriteString(`
Respond with ONLY a JSON object, no prose before or after, in this shape:
{
  "overallFeedback": "2-3 sentence summary of performance",
  "detailedFeedback": [{"question": "question text", "comment": "short comment"}],
  "weakTopics": [{"topic": "topic name"}],
  "recommendations": ["short actionable suggestion"]
}
Comment only on questions answered incorrectly in detailedFeedback.
`)
	return b.String()
}

// ExtractJSONObject returns the first balanced top-level JSON object in s.
// Models often wrap their JSON in prose or markdown fences; everything
// outside the first {...} is discarded. Braces inside string literals are
// ignored.
func ExtractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}

// ParseFeedback extracts and decodes the feedback object from raw model
// output, normalizing absent arrays to empty ones.
func ParseFeedback(raw string) (*model.Feedback, error) {
	obj, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	fb := &model.Feedback{}
	if err := json.Unmarshal([]byte(obj), fb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedbackInvalid, err)
	}
	if fb.OverallFeedback == "" {
		return nil, ErrFeedbackInvalid
	}

	if fb.DetailedFeedback == nil {
		fb.DetailedFeedback = []model.DetailedFeedback{}
	}
	if fb.WeakTopics == nil {
		fb.WeakTopics = []model.WeakTopic{}
	}
	if fb.Recommendations == nil {
		fb.Recommendations = []string{}
	}
	return fb, nil
}
