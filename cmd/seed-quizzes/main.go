package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/quizgenie/quizgenie-backend/internal/config"
	"github.com/quizgenie/quizgenie-backend/internal/database"
	"github.com/quizgenie/quizgenie-backend/internal/logger"
	"github.com/quizgenie/quizgenie-backend/internal/model"
	"github.com/quizgenie/quizgenie-backend/internal/repository"
)

// Seeds a handful of sample quizzes for local development. Requires at least
// one admin account (see cmd/create-admin).
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	var adminID uuid.UUID
	err = pool.QueryRow(ctx, `SELECT id FROM users WHERE role = 'admin' ORDER BY created_at ASC LIMIT 1`).Scan(&adminID)
	if err != nil {
		log.Fatal().Err(err).Msg("No admin account found, run create-admin first")
	}

	quizRepo := repository.NewQuizRepository(pool)

	for _, seed := range sampleQuizzes() {
		quiz := seed.quiz
		quiz.CreatedBy = adminID
		if err := quizRepo.CreateWithQuestions(ctx, &quiz, seed.questions); err != nil {
			log.Fatal().Err(err).Str("title", quiz.Title).Msg("Failed to seed quiz")
		}
		fmt.Printf("Seeded quiz '%s' with %d questions\n", quiz.Title, len(seed.questions))
	}
}

type quizSeed struct {
	quiz      model.Quiz
	questions []model.Question
}

func sampleQuizzes() []quizSeed {
	return []quizSeed{
		{
			quiz: model.Quiz{
				Title:            "Algebra Basics",
				Description:      "Linear equations, expressions and simple factoring.",
				Subject:          model.SubjectMathematics,
				Difficulty:       model.DifficultyEasy,
				TimeLimitMinutes: 15,
			},
			questions: []model.Question{
				{
					Text:        "What is the value of x in 2x + 4 = 10?",
					Explanation: "Subtract 4 from both sides, then divide by 2.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "2"},
						{Text: "3", IsCorrect: true},
						{Text: "4"},
						{Text: "6"},
					},
				},
				{
					Text:        "Simplify: 3(a + 2) - 2a",
					Explanation: "Distribute the 3, then combine like terms.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "a + 6", IsCorrect: true},
						{Text: "5a + 6"},
						{Text: "a + 2"},
					},
				},
				{
					Text:        "Which of these is a factor of x^2 - 9?",
					Explanation: "x^2 - 9 is a difference of squares: (x - 3)(x + 3).",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "x - 9"},
						{Text: "x + 3", IsCorrect: true},
						{Text: "x^2 + 3"},
					},
				},
				{
					Text:        "If y = 4 and z = 2, what is y^z?",
					Explanation: "4 squared is 16.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "8"},
						{Text: "16", IsCorrect: true},
						{Text: "32"},
						{Text: "64"},
					},
				},
			},
		},
		{
			quiz: model.Quiz{
				Title:            "Go Fundamentals",
				Description:      "Syntax, types and concurrency basics.",
				Subject:          model.SubjectComputerScience,
				Difficulty:       model.DifficultyMedium,
				TimeLimitMinutes: 20,
			},
			questions: []model.Question{
				{
					Text:        "Which keyword starts a new goroutine?",
					Explanation: "The go statement runs a function call concurrently.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "async"},
						{Text: "go", IsCorrect: true},
						{Text: "spawn"},
						{Text: "thread"},
					},
				},
				{
					Text:        "What is the zero value of a slice?",
					Explanation: "An uninitialized slice is nil, with length and capacity 0.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "an empty slice"},
						{Text: "nil", IsCorrect: true},
						{Text: "a compile error"},
					},
				},
				{
					Text:        "Which construct is used to wait for multiple goroutines?",
					Explanation: "sync.WaitGroup counts goroutines and blocks until all are done.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "sync.WaitGroup", IsCorrect: true},
						{Text: "sync.Once"},
						{Text: "time.Sleep"},
					},
				},
			},
		},
		{
			quiz: model.Quiz{
				Title:            "World Capitals",
				Description:      "Capital cities across the continents.",
				Subject:          model.SubjectGeography,
				Difficulty:       model.DifficultyEasy,
				TimeLimitMinutes: 10,
			},
			questions: []model.Question{
				{
					Text:        "What is the capital of Australia?",
					Explanation: "Canberra, not Sydney, is the capital.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "Sydney"},
						{Text: "Melbourne"},
						{Text: "Canberra", IsCorrect: true},
					},
				},
				{
					Text:        "What is the capital of Canada?",
					Explanation: "Ottawa is the capital, in the province of Ontario.",
					Points:      1,
					Options: []model.AnswerOption{
						{Text: "Toronto"},
						{Text: "Ottawa", IsCorrect: true},
						{Text: "Vancouver"},
						{Text: "Montreal"},
					},
				},
			},
		},
	}
}
