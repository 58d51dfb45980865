package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizgenie/quizgenie-backend/internal/repository"
	"github.com/quizgenie/quizgenie-backend/internal/response"
)

// AdminHandler handles the admin read-only listings.
type AdminHandler struct {
	users    *repository.UserRepository
	attempts *repository.AttemptRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *repository.UserRepository, attempts *repository.AttemptRepository) *AdminHandler {
	return &AdminHandler{users: users, attempts: attempts}
}

// ListUsers godoc
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, perPage := parsePagination(c)

	users, total, err := h.users.ListPaginated(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"users": users}, buildPagination(page, perPage, total))
}

// ListAttempts godoc
// GET /api/v1/admin/attempts
func (h *AdminHandler) ListAttempts(c *gin.Context) {
	page, perPage := parsePagination(c)

	attempts, total, err := h.attempts.ListAll(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": attempts}, buildPagination(page, perPage, total))
}
