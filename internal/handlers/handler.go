// Package handlers adapts the use cases to gin. Each request gets freshly
// constructed services over the shared database handle.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/middleware"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/usecase"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler holds the process-wide collaborators the per-request services are
// built from.
type Handler struct {
	db       *gorm.DB
	security usecase.Security
}

func New(db *gorm.DB, security usecase.Security) *Handler {
	return &Handler{db: db, security: security}
}

func (h *Handler) authService() *usecase.AuthService {
	return usecase.NewAuthService(repository.NewUserRepository(h.db), h.security)
}

func (h *Handler) projectService() *usecase.ProjectService {
	return usecase.NewProjectService(
		repository.NewProjectRepository(h.db),
		repository.NewUserRepository(h.db),
		repository.NewAuditRepository(h.db),
	)
}

func (h *Handler) taskService() *usecase.TaskService {
	return usecase.NewTaskService(
		repository.NewTaskRepository(h.db),
		repository.NewProjectRepository(h.db),
		repository.NewUserRepository(h.db),
		repository.NewAuditRepository(h.db),
	)
}

// callerID returns the authenticated user's id set by the JWT middleware.
func callerID(c *gin.Context) uint {
	return c.GetUint(middleware.UserIDKey)
}

// idParam parses a positive numeric path parameter, answering 404 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// statusFor maps domain error kinds to HTTP status codes. Anything else is an
// infrastructure failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists), errors.Is(err, domain.ErrProjectKeyTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrParentCycle):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body. Infrastructure failures are
// logged and answered with a generic message so storage details never leak.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(c).WithError(err).Error("request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
