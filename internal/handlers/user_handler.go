package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAllUsers returns all users (protected)
// GET /api/users
func (h *Handler) GetAllUsers(c *gin.Context) {
	users, err := h.authService().ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}
