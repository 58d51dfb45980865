package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizgenie/quizgenie-backend/internal/model"
)

// QuestionRepository handles read access to the authoritative question list.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByQuiz retrieves a quiz's questions in order, with full options
// including correctness flags. Server-internal only; callers redact before
// exposing to quiz takers.
func (r *QuestionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, text, explanation, points, options, order_num
		 FROM questions
		 WHERE quiz_id = $1
		 ORDER BY order_num ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.Explanation, &q.Points, &optionsJSON, &q.OrderNum); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
