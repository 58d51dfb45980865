package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"

	"github.com/quizgenie/quizgenie-backend/internal/config"
	"github.com/quizgenie/quizgenie-backend/internal/database"
	"github.com/quizgenie/quizgenie-backend/internal/logger"
	"github.com/quizgenie/quizgenie-backend/internal/model"
	"github.com/quizgenie/quizgenie-backend/internal/repository"
)

// Promotes an existing account to admin by email. Useful when the first
// admin registered through the public endpoint.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: promote-admin <email>")
		os.Exit(1)
	}
	email := os.Args[1]

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Fatal().Str("email", email).Msg("No account with this email")
		}
		log.Fatal().Err(err).Msg("Lookup failed")
	}

	if user.Role == model.RoleAdmin {
		fmt.Printf("'%s' is already an admin\n", email)
		return
	}

	if err := userRepo.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		log.Fatal().Err(err).Msg("Failed to update role")
	}

	fmt.Printf("Success! '%s' is now an admin\n", email)
}
