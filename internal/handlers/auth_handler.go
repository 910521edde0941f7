package handlers

import (
	"net/http"

	"project-tracker-api/internal/usecase"

	"github.com/gin-gonic/gin"
)

// Register handles POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req usecase.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.authService().Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req usecase.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.authService().Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	user, err := h.authService().Me(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
