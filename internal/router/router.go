package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quizgenie/quizgenie-backend/internal/config"
	"github.com/quizgenie/quizgenie-backend/internal/handler"
	"github.com/quizgenie/quizgenie-backend/internal/middleware"
	"github.com/quizgenie/quizgenie-backend/internal/response"
	"github.com/quizgenie/quizgenie-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Quiz      *handler.QuizHandler
	Attempt   *handler.AttemptHandler
	User      *handler.UserHandler
	AdminQuiz *handler.AdminQuizHandler
	Admin     *handler.AdminHandler
	Monitor   *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Quiz Taker Group (JWT) ─────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		api.GET("/quizzes", handlers.Quiz.ListQuizzes)
		api.GET("/quizzes/:quiz_id", handlers.Quiz.GetQuiz)

		api.POST("/quizzes/:quiz_id/start", handlers.Attempt.StartAttempt)
		api.POST("/quizzes/:quiz_id/submit", handlers.Attempt.SubmitAttempt)
		api.GET("/quizzes/:quiz_id/result/:attempt_id", handlers.Attempt.GetResult)

		api.GET("/me/history", handlers.User.History)
		api.GET("/me/stats", handlers.User.Stats)
		api.GET("/leaderboard", handlers.User.Leaderboard)
	}

	// ─── 3. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdmin(authService))
	{
		adminAPI.GET("/quizzes", handlers.AdminQuiz.ListQuizzes)
		adminAPI.POST("/quizzes", handlers.AdminQuiz.CreateQuiz)
		adminAPI.GET("/quizzes/:quiz_id", handlers.AdminQuiz.GetQuiz)
		adminAPI.PUT("/quizzes/:quiz_id", handlers.AdminQuiz.UpdateQuiz)
		adminAPI.DELETE("/quizzes/:quiz_id", handlers.AdminQuiz.DeleteQuiz)

		adminAPI.GET("/users", handlers.Admin.ListUsers)
		adminAPI.GET("/attempts", handlers.Admin.ListAttempts)
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdmin(authService))
	{
		ws.GET("/admin/attempts/stream", handlers.Monitor.AttemptStream)
	}

	return router
}
