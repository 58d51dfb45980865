package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizgenie/quizgenie-backend/internal/model"
)

// AttemptHistoryEntry is one row of a user's attempt history, joined with
// quiz metadata for display.
type AttemptHistoryEntry struct {
	AttemptID  uuid.UUID            `json:"attempt_id"`
	QuizID     uuid.UUID            `json:"quiz_id"`
	QuizTitle  string               `json:"quiz_title"`
	Subject    model.Subject        `json:"subject"`
	Difficulty model.Difficulty     `json:"difficulty"`
	Status     model.AttemptStatus  `json:"status"`
	Score      *int                 `json:"score"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt *time.Time           `json:"finished_at"`
}

// CompleteParams carries everything the submit transition writes in one
// conditional update.
type CompleteParams struct {
	AttemptID      uuid.UUID
	UserID         uuid.UUID
	QuizID         uuid.UUID
	Score          int
	TotalQuestions int
	CorrectAnswers int
	Answers        []model.AnswerRecord
}

// AttemptRepository handles quiz attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new in-progress attempt.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (user_id, quiz_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, started_at`,
		a.UserID, a.QuizID, model.AttemptStatusInProgress,
	).Scan(&a.ID, &a.StartedAt)
}

// GetByKey retrieves an attempt by its full compound key. A miss on any part
// of the key yields the same pgx.ErrNoRows: callers must not be able to tell
// a foreign attempt from a nonexistent one.
func (r *AttemptRepository) GetByKey(ctx context.Context, attemptID, userID, quizID uuid.UUID) (*model.Attempt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, quiz_id, started_at, finished_at, status,
		        answers, score, total_questions, correct_answers, feedback
		 FROM attempts
		 WHERE id = $1 AND user_id = $2 AND quiz_id = $3`,
		attemptID, userID, quizID)
	return scanAttempt(row)
}

// GetByID retrieves an attempt by ID alone. Server-internal (feedback worker).
func (r *AttemptRepository) GetByID(ctx context.Context, attemptID uuid.UUID) (*model.Attempt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, quiz_id, started_at, finished_at, status,
		        answers, score, total_questions, correct_answers, feedback
		 FROM attempts
		 WHERE id = $1`, attemptID)
	return scanAttempt(row)
}

// Complete performs the in_progress → completed transition as a single
// conditional update: the status check and the transition apply together, so
// of two racing submits exactly one matches a row and the other gets
// pgx.ErrNoRows. The answer snapshot, score and finish time are fixed in the
// same statement.
func (r *AttemptRepository) Complete(ctx context.Context, p CompleteParams) (*model.Attempt, error) {
	answersJSON, err := json.Marshal(p.Answers)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE attempts
		 SET status = $1, score = $2, total_questions = $3, correct_answers = $4,
		     answers = $5, finished_at = NOW()
		 WHERE id = $6 AND user_id = $7 AND quiz_id = $8 AND status = $9
		 RETURNING id, user_id, quiz_id, started_at, finished_at, status,
		           answers, score, total_questions, correct_answers, feedback`,
		model.AttemptStatusCompleted, p.Score, p.TotalQuestions, p.CorrectAnswers,
		answersJSON, p.AttemptID, p.UserID, p.QuizID, model.AttemptStatusInProgress)
	return scanAttempt(row)
}

// AttachFeedback persists generated feedback onto a completed attempt.
// The feedback IS NULL guard makes the write idempotent: a retry or a late
// duplicate job can never overwrite feedback that already landed.
func (r *AttemptRepository) AttachFeedback(ctx context.Context, attemptID uuid.UUID, fb *model.Feedback) error {
	fbJSON, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE attempts
		 SET feedback = $1
		 WHERE id = $2 AND status = $3 AND feedback IS NULL`,
		fbJSON, attemptID, model.AttemptStatusCompleted)
	return err
}

// ListByUser retrieves a user's attempt history, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]AttemptHistoryEntry, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.quiz_id, q.title, q.subject, q.difficulty,
		        a.status, a.score, a.started_at, a.finished_at
		 FROM attempts a
		 JOIN quizzes q ON a.quiz_id = q.id
		 WHERE a.user_id = $1
		 ORDER BY a.started_at DESC
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []AttemptHistoryEntry
	for rows.Next() {
		var e AttemptHistoryEntry
		if err := rows.Scan(&e.AttemptID, &e.QuizID, &e.QuizTitle, &e.Subject, &e.Difficulty,
			&e.Status, &e.Score, &e.StartedAt, &e.FinishedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// ListAll retrieves attempts across all users for the admin view.
func (r *AttemptRepository) ListAll(ctx context.Context, limit, offset int) ([]AdminAttemptEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM attempts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.user_id, u.name, a.quiz_id, q.title,
		        a.status, a.score, a.started_at, a.finished_at
		 FROM attempts a
		 JOIN users u ON a.user_id = u.id
		 JOIN quizzes q ON a.quiz_id = q.id
		 ORDER BY a.started_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []AdminAttemptEntry
	for rows.Next() {
		var e AdminAttemptEntry
		if err := rows.Scan(&e.AttemptID, &e.UserID, &e.UserName, &e.QuizID, &e.QuizTitle,
			&e.Status, &e.Score, &e.StartedAt, &e.FinishedAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

// AdminAttemptEntry is one row of the admin attempt listing.
type AdminAttemptEntry struct {
	AttemptID  uuid.UUID           `json:"attempt_id"`
	UserID     uuid.UUID           `json:"user_id"`
	UserName   string              `json:"user_name"`
	QuizID     uuid.UUID           `json:"quiz_id"`
	QuizTitle  string              `json:"quiz_title"`
	Status     model.AttemptStatus `json:"status"`
	Score      *int                `json:"score"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt *time.Time          `json:"finished_at"`
}

func scanAttempt(row pgx.Row) (*model.Attempt, error) {
	a := &model.Attempt{}
	var answersJSON, feedbackJSON []byte

	err := row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.StartedAt, &a.FinishedAt, &a.Status,
		&answersJSON, &a.Score, &a.TotalQuestions, &a.CorrectAnswers, &feedbackJSON)
	if err != nil {
		return nil, err
	}

	if len(answersJSON) > 0 {
		if err := json.Unmarshal(answersJSON, &a.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	if len(feedbackJSON) > 0 {
		a.Feedback = &model.Feedback{}
		if err := json.Unmarshal(feedbackJSON, a.Feedback); err != nil {
			return nil, fmt.Errorf("unmarshal feedback: %w", err)
		}
	}
	return a, nil
}
