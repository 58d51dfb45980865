package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/config"
)

// AttemptCompletedEvent is published on the attempt monitor channel whenever
// a submission lands.
type AttemptCompletedEvent struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	UserID         uuid.UUID `json:"user_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	FinishedAt     time.Time `json:"finished_at"`
}

// AttemptEvents carries the out-of-band side effects of a completed attempt:
// queueing feedback generation and notifying live monitors. Both are
// fire-and-forget from the request path's point of view.
type AttemptEvents interface {
	RequestFeedback(ctx context.Context, attemptID uuid.UUID) error
	NotifyCompleted(ctx context.Context, evt AttemptCompletedEvent) error
}

// RedisAttemptEvents implements AttemptEvents on a Redis list (worker queue)
// and a PubSub channel (monitor fan-out).
type RedisAttemptEvents struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisAttemptEvents creates a new RedisAttemptEvents.
func NewRedisAttemptEvents(rdb *redis.Client, log zerolog.Logger) *RedisAttemptEvents {
	return &RedisAttemptEvents{
		rdb: rdb,
		log: log.With().Str("component", "attempt_events").Logger(),
	}
}

// RequestFeedback enqueues a feedback generation job for the worker.
func (e *RedisAttemptEvents) RequestFeedback(ctx context.Context, attemptID uuid.UUID) error {
	if err := e.rdb.RPush(ctx, config.WorkerKey.GenerateFeedbackQueue, attemptID.String()).Err(); err != nil {
		return fmt.Errorf("enqueue feedback job: %w", err)
	}
	return nil
}

// NotifyCompleted publishes the completion event for live admin monitors.
func (e *RedisAttemptEvents) NotifyCompleted(ctx context.Context, evt AttemptCompletedEvent) error {
	raw, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := e.rdb.Publish(ctx, config.CacheKey.AttemptMonitorChannel(), raw).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
