package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStats aggregates a user's completed attempts.
type UserStats struct {
	TotalAttempts  int      `json:"total_attempts"`
	AverageScore   *float64 `json:"average_score"`
	HighestScore   *int     `json:"highest_score"`
	TotalQuestions int      `json:"total_questions"`
	TotalCorrect   int      `json:"total_correct"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	AverageScore  float64   `json:"average_score"`
	TotalAttempts int       `json:"total_attempts"`
	HighestScore  int       `json:"highest_score"`
}

// StatsRepository handles aggregate read queries for dashboards.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// GetUserStats aggregates a user's completed attempts. Zero attempts yields
// zero counts and nil averages, not an error.
func (r *StatsRepository) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	s := &UserStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        AVG(score),
		        MAX(score),
		        COALESCE(SUM(total_questions), 0),
		        COALESCE(SUM(correct_answers), 0)
		 FROM attempts
		 WHERE user_id = $1 AND status = 'completed'`, userID,
	).Scan(&s.TotalAttempts, &s.AverageScore, &s.HighestScore, &s.TotalQuestions, &s.TotalCorrect)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetLeaderboard ranks users by average score over completed attempts.
func (r *StatsRepository) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name,
		        ROUND(AVG(a.score)::numeric, 1),
		        COUNT(a.id),
		        MAX(a.score)
		 FROM attempts a
		 JOIN users u ON a.user_id = u.id
		 WHERE a.status = 'completed'
		 GROUP BY u.id, u.name
		 ORDER BY AVG(a.score) DESC, COUNT(a.id) DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.AverageScore, &e.TotalAttempts, &e.HighestScore); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
