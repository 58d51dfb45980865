package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quizgenie/quizgenie-backend/internal/repository"
	"github.com/quizgenie/quizgenie-backend/internal/response"
	"github.com/quizgenie/quizgenie-backend/internal/service"
)

// QuizHandler handles the quiz-taker facing quiz reads. Everything it
// returns is redacted: no correctness flags, no explanations.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// ListQuizzes godoc
// GET /api/v1/quizzes
// Lists active quizzes with optional subject/difficulty/search filters.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, perPage := parsePagination(c)

	filter := repository.QuizFilter{
		Subject:    c.Query("subject"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
		ActiveOnly: true,
	}

	quizzes, total, err := h.quizService.List(c.Request.Context(), filter, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, buildPagination(page, perPage, total))
}

// GetQuiz godoc
// GET /api/v1/quizzes/:quiz_id
// Returns the redacted quiz payload. Inactive quizzes answer as absent.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetPublicPayload(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, service.ErrQuizInactive) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}
