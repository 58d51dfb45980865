package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizgenie/quizgenie-backend/internal/model"
)

// QuizFilter narrows quiz listing queries.
type QuizFilter struct {
	Subject    string
	Difficulty string
	Search     string
	ActiveOnly bool
}

// QuizRepository handles quiz and question write access. Quizzes and their
// questions are always written together in one transaction so the
// exactly-one-correct invariant can never be half-persisted.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves quiz metadata (no questions).
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT q.id, q.title, q.description, q.subject, q.difficulty,
		        q.time_limit_minutes, q.is_active, q.created_by, q.created_at, q.updated_at,
		        (SELECT COUNT(*) FROM questions WHERE quiz_id = q.id)
		 FROM quizzes q WHERE q.id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.Subject, &q.Difficulty,
		&q.TimeLimitMinutes, &q.IsActive, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
		&q.QuestionCount)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListPaginated retrieves quizzes matching the filter, newest first.
func (r *QuizRepository) ListPaginated(ctx context.Context, f QuizFilter, limit, offset int) ([]model.Quiz, int, error) {
	baseQuery := ` FROM quizzes q WHERE 1=1`
	var args []any

	if f.ActiveOnly {
		baseQuery += ` AND q.is_active = TRUE`
	}
	if f.Subject != "" {
		args = append(args, f.Subject)
		baseQuery += fmt.Sprintf(" AND q.subject = $%d", len(args))
	}
	if f.Difficulty != "" {
		args = append(args, f.Difficulty)
		baseQuery += fmt.Sprintf(" AND q.difficulty = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		baseQuery += fmt.Sprintf(" AND (q.title ILIKE $%d OR q.description ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT q.id, q.title, q.description, q.subject, q.difficulty,
	                 q.time_limit_minutes, q.is_active, q.created_by, q.created_at, q.updated_at,
	                 (SELECT COUNT(*) FROM questions WHERE quiz_id = q.id)` +
		baseQuery +
		fmt.Sprintf(" ORDER BY q.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Subject, &q.Difficulty,
			&q.TimeLimitMinutes, &q.IsActive, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
			&q.QuestionCount); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}

// CreateWithQuestions inserts a quiz and its ordered questions atomically.
func (r *QuizRepository) CreateWithQuestions(ctx context.Context, q *model.Quiz, questions []model.Question) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO quizzes (title, description, subject, difficulty, time_limit_minutes, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, is_active, created_at, updated_at`,
			q.Title, q.Description, q.Subject, q.Difficulty, q.TimeLimitMinutes, q.CreatedBy,
		).Scan(&q.ID, &q.IsActive, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		return insertQuestions(ctx, tx, q.ID, questions)
	})
}

// ReplaceWithQuestions updates quiz metadata and replaces its question set
// atomically. Historical attempts keep their own answer snapshots, so a
// replace never rewrites past results.
func (r *QuizRepository) ReplaceWithQuestions(ctx context.Context, q *model.Quiz, questions []model.Question) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE quizzes
			 SET title = $1, description = $2, subject = $3, difficulty = $4,
			     time_limit_minutes = $5, updated_at = NOW()
			 WHERE id = $6`,
			q.Title, q.Description, q.Subject, q.Difficulty, q.TimeLimitMinutes, q.ID)
		if err != nil {
			return fmt.Errorf("update quiz: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, q.ID); err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		return insertQuestions(ctx, tx, q.ID, questions)
	})
}

// Deactivate soft-deletes a quiz. Rows are kept so historical attempts can
// still join question text and explanations.
func (r *QuizRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func insertQuestions(ctx context.Context, tx pgx.Tx, quizID uuid.UUID, questions []model.Question) error {
	for i := range questions {
		optionsJSON, err := json.Marshal(questions[i].Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO questions (quiz_id, text, explanation, points, options, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			quizID, questions[i].Text, questions[i].Explanation,
			questions[i].Points, optionsJSON, i,
		).Scan(&questions[i].ID)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
		questions[i].QuizID = quizID
		questions[i].OrderNum = i
	}
	return nil
}
