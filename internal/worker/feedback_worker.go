package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizgenie/quizgenie-backend/internal/config"
	"github.com/quizgenie/quizgenie-backend/internal/service"
)

const (
	FeedbackPollTimeout = 1 * time.Second
	FeedbackJobTimeout  = 2 * time.Minute
	FeedbackMaxRetries  = 2
)

// FeedbackWorker consumes feedback generation jobs from the Redis queue.
// Jobs are plain attempt IDs; unprocessed jobs survive restarts in the list.
type FeedbackWorker struct {
	rdb      *redis.Client
	feedback *service.FeedbackService
	log      zerolog.Logger
}

func NewFeedbackWorker(rdb *redis.Client, feedback *service.FeedbackService, log zerolog.Logger) *FeedbackWorker {
	return &FeedbackWorker{
		rdb:      rdb,
		feedback: feedback,
		log:      log.With().Str("component", "feedback_worker").Logger(),
	}
}

// Start runs the consume loop until ctx is cancelled. A job already being
// processed is finished before returning; anything still queued stays in
// Redis for the next run.
func (w *FeedbackWorker) Start(ctx context.Context) {
	w.log.Info().Msg("FeedbackWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("FeedbackWorker stopped")
			return

		default:
			item, err := w.rdb.BLPop(ctx, FeedbackPollTimeout, config.WorkerKey.GenerateFeedbackQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			attemptID, err := uuid.Parse(item[1])
			if err != nil {
				w.log.Error().Str("payload", item[1]).Msg("Invalid feedback job payload, dropped")
				continue
			}

			w.process(attemptID)
		}
	}
}

// process runs one job with its own deadline, detached from the loop's ctx
// so a shutdown does not abort a generation already paid for.
func (w *FeedbackWorker) process(attemptID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), FeedbackJobTimeout)
	defer cancel()

	var err error
	for i := 0; i <= FeedbackMaxRetries; i++ {
		if err = w.feedback.Generate(ctx, attemptID); err == nil {
			return
		}
		w.log.Warn().Err(err).
			Str("attempt_id", attemptID.String()).
			Int("try", i+1).
			Msg("Feedback job failed")
	}

	// Generate persists a fallback on generation failures; only attempt
	// loads and writes can land here. Requeue so the job is not lost.
	w.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Feedback job exhausted retries, requeueing")
	if err := w.rdb.RPush(context.Background(), config.WorkerKey.GenerateFeedbackQueue, attemptID.String()).Err(); err != nil {
		w.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Requeue failed, job dropped")
	}
}
