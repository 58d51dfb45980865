package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/model"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			in:   `{"overallFeedback":"ok"}`,
			want: `{"overallFeedback":"ok"}`,
		},
		{
			name: "markdown fence",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "prose around object",
			in:   `Here is your feedback: {"a":{"b":2}} hope it helps`,
			want: `{"a":{"b":2}}`,
		},
		{
			name: "braces inside strings",
			in:   `{"comment":"use {braces} and \"quotes\" carefully"}`,
			want: `{"comment":"use {braces} and \"quotes\" carefully"}`,
		},
		{
			name:    "no object",
			in:      "sorry, I cannot help with that",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			in:      `{"a": {"b": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFeedbackNormalizesWeakTopics(t *testing.T) {
	raw := `Sure! {"overallFeedback":"Decent work.","weakTopics":["algebra",{"topic":"geometry","score":0.4}]}`

	fb, err := ParseFeedback(raw)
	if err != nil {
		t.Fatal(err)
	}

	if len(fb.WeakTopics) != 2 {
		t.Fatalf("len(WeakTopics) = %d, want 2", len(fb.WeakTopics))
	}
	if fb.WeakTopics[0].Topic != "algebra" || fb.WeakTopics[0].Score != nil {
		t.Errorf("bare string topic not normalized: %+v", fb.WeakTopics[0])
	}
	if fb.WeakTopics[1].Topic != "geometry" || fb.WeakTopics[1].Score == nil || *fb.WeakTopics[1].Score != 0.4 {
		t.Errorf("object topic mangled: %+v", fb.WeakTopics[1])
	}
	if fb.DetailedFeedback == nil || fb.Recommendations == nil {
		t.Error("absent arrays should be normalized to empty, not nil")
	}
}

func TestParseFeedbackRejectsEmptyOverall(t *testing.T) {
	if _, err := ParseFeedback(`{"weakTopics":[]}`); !errors.Is(err, ErrFeedbackInvalid) {
		t.Errorf("err = %v, want ErrFeedbackInvalid", err)
	}
}

// ─── Generate pipeline with fakes ──────────────────────────────────────

type fakeFeedbackStore struct {
	attempt  *model.Attempt
	attached *model.Feedback
}

func (f *fakeFeedbackStore) GetByID(_ context.Context, id uuid.UUID) (*model.Attempt, error) {
	if f.attempt == nil || f.attempt.ID != id {
		return nil, errors.New("no rows")
	}
	cp := *f.attempt
	return &cp, nil
}

func (f *fakeFeedbackStore) AttachFeedback(_ context.Context, _ uuid.UUID, fb *model.Feedback) error {
	f.attached = fb
	return nil
}

type staticGenerator struct {
	out string
	err error
}

func (g *staticGenerator) Complete(context.Context, string) (string, error) {
	return g.out, g.err
}

func completedAttempt() *model.Attempt {
	score := 50
	return &model.Attempt{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		QuizID:         uuid.New(),
		Status:         model.AttemptStatusCompleted,
		Score:          &score,
		TotalQuestions: 2,
		CorrectAnswers: 1,
		Answers: []model.AnswerRecord{
			{QuestionID: uuid.New(), SelectedAnswer: "a", CorrectAnswer: "a", IsCorrect: true},
			{QuestionID: uuid.New(), SelectedAnswer: "b", CorrectAnswer: "c"},
		},
	}
}

func feedbackServiceWith(store *fakeFeedbackStore, gen textGenerator) *FeedbackService {
	quizzes := &fakeQuizStore{quiz: &model.Quiz{ID: store.attempt.QuizID, Title: "Quiz", IsActive: true}}
	questions := &fakeQuestionStore{}
	return NewFeedbackService(store, quizzes, questions, gen, zerolog.Nop())
}

func TestGeneratePersistsParsedFeedback(t *testing.T) {
	store := &fakeFeedbackStore{attempt: completedAttempt()}
	gen := &staticGenerator{out: `{"overallFeedback":"Good effort.","recommendations":["review fractions"]}`}

	if err := feedbackServiceWith(store, gen).Generate(context.Background(), store.attempt.ID); err != nil {
		t.Fatal(err)
	}

	if store.attached == nil {
		t.Fatal("no feedback attached")
	}
	if store.attached.OverallFeedback != "Good effort." {
		t.Errorf("OverallFeedback = %q", store.attached.OverallFeedback)
	}
}

func TestGenerateFallsBackOnGenerationError(t *testing.T) {
	store := &fakeFeedbackStore{attempt: completedAttempt()}
	gen := &staticGenerator{err: errors.New("upstream down")}

	if err := feedbackServiceWith(store, gen).Generate(context.Background(), store.attempt.ID); err != nil {
		t.Fatal(err)
	}

	if store.attached == nil {
		t.Fatal("fallback not attached")
	}
	if store.attached.OverallFeedback != model.FeedbackUnavailable {
		t.Errorf("OverallFeedback = %q, want sentinel", store.attached.OverallFeedback)
	}
	if store.attached.WeakTopics == nil || store.attached.Recommendations == nil {
		t.Error("fallback arrays must be non-nil")
	}
}

func TestGenerateFallsBackOnGarbageOutput(t *testing.T) {
	store := &fakeFeedbackStore{attempt: completedAttempt()}
	gen := &staticGenerator{out: "I am unable to produce JSON today."}

	if err := feedbackServiceWith(store, gen).Generate(context.Background(), store.attempt.ID); err != nil {
		t.Fatal(err)
	}
	if store.attached == nil || store.attached.OverallFeedback != model.FeedbackUnavailable {
		t.Errorf("expected fallback, got %+v", store.attached)
	}
}

func TestGenerateSkipsWhenFeedbackExists(t *testing.T) {
	attempt := completedAttempt()
	attempt.Feedback = model.FallbackFeedback()
	store := &fakeFeedbackStore{attempt: attempt}
	gen := &staticGenerator{out: `{"overallFeedback":"should not be used"}`}

	if err := feedbackServiceWith(store, gen).Generate(context.Background(), attempt.ID); err != nil {
		t.Fatal(err)
	}
	if store.attached != nil {
		t.Error("feedback rewritten despite existing value")
	}
}

func TestGenerateSkipsNonCompletedAttempt(t *testing.T) {
	attempt := completedAttempt()
	attempt.Status = model.AttemptStatusInProgress
	store := &fakeFeedbackStore{attempt: attempt}

	if err := feedbackServiceWith(store, &staticGenerator{}).Generate(context.Background(), attempt.ID); err != nil {
		t.Fatal(err)
	}
	if store.attached != nil {
		t.Error("feedback attached to in-progress attempt")
	}
}
