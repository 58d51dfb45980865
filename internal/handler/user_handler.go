package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizgenie/quizgenie-backend/internal/middleware"
	"github.com/quizgenie/quizgenie-backend/internal/repository"
	"github.com/quizgenie/quizgenie-backend/internal/response"
)

const leaderboardDefaultSize = 10

// UserHandler handles the quiz taker's own history, stats and the shared
// leaderboard.
type UserHandler struct {
	attempts *repository.AttemptRepository
	stats    *repository.StatsRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(attempts *repository.AttemptRepository, stats *repository.StatsRepository) *UserHandler {
	return &UserHandler{attempts: attempts, stats: stats}
}

// History godoc
// GET /api/v1/me/history
func (h *UserHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, perPage := parsePagination(c)

	entries, total, err := h.attempts.ListByUser(c.Request.Context(), claims.UserID, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": entries}, buildPagination(page, perPage, total))
}

// Stats godoc
// GET /api/v1/me/stats
func (h *UserHandler) Stats(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	stats, err := h.stats.GetUserStats(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// Leaderboard godoc
// GET /api/v1/leaderboard
func (h *UserHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(leaderboardDefaultSize)))
	if limit < 1 || limit > maxPerPage {
		limit = leaderboardDefaultSize
	}

	entries, err := h.stats.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}
