package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/config"
	"github.com/quizgenie/quizgenie-backend/internal/model"
	"github.com/quizgenie/quizgenie-backend/internal/repository"
)

// Common quiz errors.
var (
	ErrQuizInactive = errors.New("quiz is not active")
)

const quizPayloadTTL = 10 * time.Minute

// QuizService handles quiz authoring and public reads.
//
// The redacted public payload is cached in Redis so the hot paths (browse,
// start) skip the question join. Every write to a quiz drops its cache entry.
type QuizService struct {
	quizzes   *repository.QuizRepository
	questions *repository.QuestionRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes *repository.QuizRepository, questions *repository.QuestionRepository, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		questions: questions,
		rdb:       rdb,
		log:       log.With().Str("component", "quiz_service").Logger(),
	}
}

// ValidateQuestions enforces the cross-field rules the binding tags cannot
// express. Returns field errors keyed by JSON path, empty map when valid.
//
// The load-bearing rule: every question must have exactly one option flagged
// correct. Anything else would make scoring ambiguous, so it is rejected at
// write time, never patched up at read time.
func ValidateQuestions(questions []model.QuestionInput) map[string]string {
	fields := map[string]string{}
	for i, q := range questions {
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		switch {
		case correct == 0:
			fields[fmt.Sprintf("questions[%d].options", i)] = "exactly one option must be marked correct, found none"
		case correct > 1:
			fields[fmt.Sprintf("questions[%d].options", i)] = fmt.Sprintf("exactly one option must be marked correct, found %d", correct)
		}
	}
	return fields
}

// Create persists a new quiz with its questions.
func (s *QuizService) Create(ctx context.Context, adminID uuid.UUID, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := quizFromRequest(req)
	quiz.CreatedBy = adminID

	questions := questionsFromRequest(req.Questions)
	if err := s.quizzes.CreateWithQuestions(ctx, quiz, questions); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	quiz.Questions = questions
	quiz.QuestionCount = len(questions)

	s.log.Info().Str("quiz_id", quiz.ID.String()).Int("questions", len(questions)).Msg("Quiz created")
	return quiz, nil
}

// Update replaces a quiz's metadata and question set.
func (s *QuizService) Update(ctx context.Context, quizID uuid.UUID, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := quizFromRequest(req)
	quiz.ID = quizID

	questions := questionsFromRequest(req.Questions)
	if err := s.quizzes.ReplaceWithQuestions(ctx, quiz, questions); err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}
	quiz.Questions = questions
	quiz.QuestionCount = len(questions)

	s.invalidatePayload(ctx, quizID)
	return quiz, nil
}

// Deactivate soft-deletes a quiz.
func (s *QuizService) Deactivate(ctx context.Context, quizID uuid.UUID) error {
	if err := s.quizzes.Deactivate(ctx, quizID); err != nil {
		return err
	}
	s.invalidatePayload(ctx, quizID)
	return nil
}

// List retrieves quizzes matching the filter.
func (s *QuizService) List(ctx context.Context, f repository.QuizFilter, limit, offset int) ([]model.Quiz, int, error) {
	return s.quizzes.ListPaginated(ctx, f, limit, offset)
}

// Get retrieves quiz metadata without questions.
func (s *QuizService) Get(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	return s.quizzes.GetByID(ctx, quizID)
}

// GetWithQuestions retrieves a quiz with its full unredacted question list.
// Admin only.
func (s *QuizService) GetWithQuestions(ctx context.Context, quizID uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	quiz.Questions = questions
	return quiz, nil
}

// GetPublicPayload returns the redacted quiz payload for quiz takers,
// serving from cache when possible. Inactive quizzes yield ErrQuizInactive.
func (s *QuizService) GetPublicPayload(ctx context.Context, quizID uuid.UUID) (*model.PublicQuiz, error) {
	cacheKey := config.CacheKey.QuizPayloadKey(quizID.String())

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		var pub model.PublicQuiz
		if err := json.Unmarshal([]byte(cached), &pub); err == nil {
			return &pub, nil
		}
		// Corrupt entry, rebuild below.
		s.rdb.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("Quiz payload cache read failed")
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	pub := BuildPublicQuiz(quiz, questions)
	if raw, err := json.Marshal(pub); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, quizPayloadTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Quiz payload cache write failed")
		}
	}
	return pub, nil
}

// BuildPublicQuiz assembles the redacted quiz payload.
func BuildPublicQuiz(quiz *model.Quiz, questions []model.Question) *model.PublicQuiz {
	pub := &model.PublicQuiz{
		ID:               quiz.ID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		Subject:          quiz.Subject,
		Difficulty:       quiz.Difficulty,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		Questions:        make([]model.PublicQuestion, 0, len(questions)),
	}
	for i := range questions {
		pub.Questions = append(pub.Questions, questions[i].Redact())
	}
	return pub
}

func (s *QuizService) invalidatePayload(ctx context.Context, quizID uuid.UUID) {
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(quizID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Quiz payload cache invalidation failed")
	}
}

func quizFromRequest(req *model.CreateQuizRequest) *model.Quiz {
	return &model.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		Subject:          model.Subject(req.Subject),
		Difficulty:       model.Difficulty(req.Difficulty),
		TimeLimitMinutes: req.TimeLimitMinutes,
	}
}

func questionsFromRequest(inputs []model.QuestionInput) []model.Question {
	questions := make([]model.Question, 0, len(inputs))
	for _, in := range inputs {
		points := in.Points
		if points == 0 {
			points = 1
		}
		options := make([]model.AnswerOption, 0, len(in.Options))
		for _, opt := range in.Options {
			options = append(options, model.AnswerOption{Text: opt.Text, IsCorrect: opt.IsCorrect})
		}
		questions = append(questions, model.Question{
			Text:        in.Text,
			Explanation: in.Explanation,
			Points:      points,
			Options:     options,
		})
	}
	return questions
}
