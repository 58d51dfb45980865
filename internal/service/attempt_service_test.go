package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/model"
	"github.com/quizgenie/quizgenie-backend/internal/repository"
)

// ─── Fakes ─────────────────────────────────────────────────────────────

type fakeQuizStore struct {
	quiz *model.Quiz
}

func (f *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	if f.quiz == nil || f.quiz.ID != id {
		return nil, pgx.ErrNoRows
	}
	cp := *f.quiz
	return &cp, nil
}

type fakeQuestionStore struct {
	questions []model.Question
}

func (f *fakeQuestionStore) ListByQuiz(context.Context, uuid.UUID) ([]model.Question, error) {
	return f.questions, nil
}

// fakeAttemptStore mirrors the conditional-update semantics of the real
// repository: Complete matches only the exact in-progress row.
type fakeAttemptStore struct {
	attempts map[uuid.UUID]*model.Attempt
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: map[uuid.UUID]*model.Attempt{}}
}

func (f *fakeAttemptStore) Create(_ context.Context, a *model.Attempt) error {
	a.ID = uuid.New()
	a.StartedAt = time.Now()
	cp := *a
	f.attempts[a.ID] = &cp
	return nil
}

func (f *fakeAttemptStore) GetByKey(_ context.Context, attemptID, userID, quizID uuid.UUID) (*model.Attempt, error) {
	a, ok := f.attempts[attemptID]
	if !ok || a.UserID != userID || a.QuizID != quizID {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptStore) Complete(_ context.Context, p repository.CompleteParams) (*model.Attempt, error) {
	a, ok := f.attempts[p.AttemptID]
	if !ok || a.UserID != p.UserID || a.QuizID != p.QuizID || a.Status != model.AttemptStatusInProgress {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	a.Status = model.AttemptStatusCompleted
	a.Score = &p.Score
	a.TotalQuestions = p.TotalQuestions
	a.CorrectAnswers = p.CorrectAnswers
	a.Answers = p.Answers
	a.FinishedAt = &now
	cp := *a
	return &cp, nil
}

type recordingEvents struct {
	feedbackRequests []uuid.UUID
	notifications    []AttemptCompletedEvent
}

func (r *recordingEvents) RequestFeedback(_ context.Context, attemptID uuid.UUID) error {
	r.feedbackRequests = append(r.feedbackRequests, attemptID)
	return nil
}

func (r *recordingEvents) NotifyCompleted(_ context.Context, evt AttemptCompletedEvent) error {
	r.notifications = append(r.notifications, evt)
	return nil
}

// ─── Fixture ───────────────────────────────────────────────────────────

type attemptFixture struct {
	svc       *AttemptService
	store     *fakeAttemptStore
	events    *recordingEvents
	quiz      *model.Quiz
	questions []model.Question
}

func newAttemptFixture() *attemptFixture {
	quiz := &model.Quiz{
		ID:         uuid.New(),
		Title:      "Algebra Basics",
		Subject:    model.SubjectMathematics,
		Difficulty: model.DifficultyEasy,
		IsActive:   true,
	}
	questions := []model.Question{
		makeQuestion("q1", "a", "b"),
		makeQuestion("q2", "c", "d"),
	}
	for i := range questions {
		questions[i].QuizID = quiz.ID
	}

	store := newFakeAttemptStore()
	events := &recordingEvents{}
	svc := NewAttemptService(store, &fakeQuizStore{quiz: quiz}, &fakeQuestionStore{questions: questions}, events, zerolog.Nop())

	return &attemptFixture{svc: svc, store: store, events: events, quiz: quiz, questions: questions}
}

func (fx *attemptFixture) submission(attemptID uuid.UUID) *model.SubmitAttemptRequest {
	return &model.SubmitAttemptRequest{
		AttemptID: attemptID,
		Answers: []model.SubmittedAnswer{
			{QuestionID: fx.questions[0].ID, SelectedAnswer: "a"},
			{QuestionID: fx.questions[1].ID, SelectedAnswer: "d"},
		},
	}
}

// ─── Tests ─────────────────────────────────────────────────────────────

func TestStartReturnsRedactedQuiz(t *testing.T) {
	fx := newAttemptFixture()
	userID := uuid.New()

	started, err := fx.svc.Start(context.Background(), userID, fx.quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if started.AttemptID == uuid.Nil {
		t.Error("attempt ID not assigned")
	}
	if len(started.Quiz.Questions) != 2 {
		t.Fatalf("len(Questions) = %d, want 2", len(started.Quiz.Questions))
	}
	for _, q := range started.Quiz.Questions {
		if len(q.Options) != 2 {
			t.Errorf("question %s has %d options, want 2", q.ID, len(q.Options))
		}
	}
}

func TestStartInactiveQuiz(t *testing.T) {
	fx := newAttemptFixture()
	fx.quiz.IsActive = false

	if _, err := fx.svc.Start(context.Background(), uuid.New(), fx.quiz.ID); !errors.Is(err, ErrQuizInactive) {
		t.Errorf("err = %v, want ErrQuizInactive", err)
	}
}

func TestStartAllowsConcurrentAttempts(t *testing.T) {
	fx := newAttemptFixture()
	userID := uuid.New()

	a1, err := fx.svc.Start(context.Background(), userID, fx.quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := fx.svc.Start(context.Background(), userID, fx.quiz.ID)
	if err != nil {
		t.Fatal(err)
	}
	if a1.AttemptID == a2.AttemptID {
		t.Error("second start reused the first attempt")
	}
}

func TestSubmitScoresAndCompletes(t *testing.T) {
	fx := newAttemptFixture()
	userID := uuid.New()

	started, _ := fx.svc.Start(context.Background(), userID, fx.quiz.ID)
	attempt, err := fx.svc.Submit(context.Background(), userID, fx.quiz.ID, fx.submission(started.AttemptID))
	if err != nil {
		t.Fatal(err)
	}

	if attempt.Status != model.AttemptStatusCompleted {
		t.Errorf("Status = %s, want completed", attempt.Status)
	}
	if attempt.Score == nil || *attempt.Score != 50 {
		t.Errorf("Score = %v, want 50", attempt.Score)
	}
	if attempt.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}
	if len(fx.events.feedbackRequests) != 1 || fx.events.feedbackRequests[0] != attempt.ID {
		t.Errorf("feedback requests = %v, want one for %s", fx.events.feedbackRequests, attempt.ID)
	}
	if len(fx.events.notifications) != 1 {
		t.Errorf("notifications = %d, want 1", len(fx.events.notifications))
	}
}

func TestSubmitTwiceSecondLoses(t *testing.T) {
	fx := newAttemptFixture()
	userID := uuid.New()

	started, _ := fx.svc.Start(context.Background(), userID, fx.quiz.ID)
	first, err := fx.svc.Submit(context.Background(), userID, fx.quiz.ID, fx.submission(started.AttemptID))
	if err != nil {
		t.Fatal(err)
	}

	// Second submit with different answers must fail and leave state alone.
	req := fx.submission(started.AttemptID)
	req.Answers[1].SelectedAnswer = "c"
	if _, err := fx.svc.Submit(context.Background(), userID, fx.quiz.ID, req); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("second submit err = %v, want pgx.ErrNoRows", err)
	}

	stored := fx.store.attempts[started.AttemptID]
	if *stored.Score != *first.Score {
		t.Errorf("score changed after losing submit: %d -> %d", *first.Score, *stored.Score)
	}
	if len(fx.events.feedbackRequests) != 1 {
		t.Errorf("feedback dispatched %d times, want 1", len(fx.events.feedbackRequests))
	}
}

func TestSubmitForeignAttemptIsNotFound(t *testing.T) {
	fx := newAttemptFixture()
	owner := uuid.New()
	intruder := uuid.New()

	started, _ := fx.svc.Start(context.Background(), owner, fx.quiz.ID)

	if _, err := fx.svc.Submit(context.Background(), intruder, fx.quiz.ID, fx.submission(started.AttemptID)); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("cross-user submit err = %v, want pgx.ErrNoRows", err)
	}
	if fx.store.attempts[started.AttemptID].Status != model.AttemptStatusInProgress {
		t.Error("foreign submit mutated the attempt")
	}
}

func TestResultJoinsSnapshotWithLiveQuestions(t *testing.T) {
	fx := newAttemptFixture()
	userID := uuid.New()

	started, _ := fx.svc.Start(context.Background(), userID, fx.quiz.ID)
	if _, err := fx.svc.Submit(context.Background(), userID, fx.quiz.ID, fx.submission(started.AttemptID)); err != nil {
		t.Fatal(err)
	}

	res, err := fx.svc.Result(context.Background(), userID, fx.quiz.ID, started.AttemptID)
	if err != nil {
		t.Fatal(err)
	}

	if res.QuizTitle != "Algebra Basics" {
		t.Errorf("QuizTitle = %q", res.QuizTitle)
	}
	if !res.FeedbackPending {
		t.Error("FeedbackPending should be true before the worker runs")
	}
	if len(res.Answers) != 2 {
		t.Fatalf("len(Answers) = %d, want 2", len(res.Answers))
	}
	if res.Answers[0].Question != "q1" {
		t.Errorf("Answers[0].Question = %q, want live question text", res.Answers[0].Question)
	}
	if res.Answers[1].IsCorrect {
		t.Error("Answers[1] should be incorrect")
	}
}

func TestResultForeignAttemptIsNotFound(t *testing.T) {
	fx := newAttemptFixture()
	owner := uuid.New()

	started, _ := fx.svc.Start(context.Background(), owner, fx.quiz.ID)

	if _, err := fx.svc.Result(context.Background(), uuid.New(), fx.quiz.ID, started.AttemptID); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("err = %v, want pgx.ErrNoRows", err)
	}
}
