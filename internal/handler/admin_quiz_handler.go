package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quizgenie/quizgenie-backend/internal/middleware"
	"github.com/quizgenie/quizgenie-backend/internal/model"
	"github.com/quizgenie/quizgenie-backend/internal/repository"
	"github.com/quizgenie/quizgenie-backend/internal/response"
	"github.com/quizgenie/quizgenie-backend/internal/service"
	"github.com/quizgenie/quizgenie-backend/internal/validator"
)

// AdminQuizHandler handles quiz authoring. Unlike the public handlers it
// returns full questions with correctness flags.
type AdminQuizHandler struct {
	quizService *service.QuizService
}

// NewAdminQuizHandler creates a new AdminQuizHandler.
func NewAdminQuizHandler(quizService *service.QuizService) *AdminQuizHandler {
	return &AdminQuizHandler{quizService: quizService}
}

// CreateQuiz godoc
// POST /api/v1/admin/quizzes
func (h *AdminQuizHandler) CreateQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	req, ok := h.bindQuizRequest(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// UpdateQuiz godoc
// PUT /api/v1/admin/quizzes/:quiz_id
// Replaces quiz metadata and the whole question set. Completed attempts keep
// their snapshots.
func (h *AdminQuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	req, ok := h.bindQuizRequest(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), quizID, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// DeleteQuiz godoc
// DELETE /api/v1/admin/quizzes/:quiz_id
// Soft delete: the quiz disappears from taker-facing reads but keeps its
// rows so historical results still resolve.
func (h *AdminQuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Deactivate(c.Request.Context(), quizID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}

// ListQuizzes godoc
// GET /api/v1/admin/quizzes
// Lists all quizzes including inactive ones.
func (h *AdminQuizHandler) ListQuizzes(c *gin.Context) {
	page, perPage := parsePagination(c)

	filter := repository.QuizFilter{
		Subject:    c.Query("subject"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
	}

	quizzes, total, err := h.quizService.List(c.Request.Context(), filter, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, buildPagination(page, perPage, total))
}

// GetQuiz godoc
// GET /api/v1/admin/quizzes/:quiz_id
// Full quiz with unredacted questions.
func (h *AdminQuizHandler) GetQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetWithQuestions(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// bindQuizRequest binds the payload and runs the cross-field question rules.
// The exactly-one-correct check reports per-question field keys so clients
// can point at the offending question.
func (h *AdminQuizHandler) bindQuizRequest(c *gin.Context) (*model.CreateQuizRequest, bool) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return nil, false
	}
	if fields := service.ValidateQuestions(req.Questions); len(fields) > 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return nil, false
	}
	return &req, true
}
