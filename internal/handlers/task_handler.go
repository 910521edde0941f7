package handlers

import (
	"net/http"

	"project-tracker-api/internal/usecase"

	"github.com/gin-gonic/gin"
)

// CreateTask handles POST /api/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var req usecase.CreateTaskInput
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService().Create(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTaskByID handles GET /api/tasks/:id
func (h *Handler) GetTaskByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService().Get(c.Request.Context(), id, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetMyTasks handles GET /api/my-tasks
// Returns the tasks assigned to the caller across projects.
func (h *Handler) GetMyTasks(c *gin.Context) {
	tasks, err := h.taskService().ListMine(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// UpdateTask handles PUT /api/tasks/:id
// Only the fields present in the body are changed; null clears a nullable field.
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req usecase.UpdateTaskInput
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService().Update(c.Request.Context(), id, callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.taskService().Delete(c.Request.Context(), id, callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      id,
	})
}

// AddComment handles POST /api/tasks/:id/comments
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req usecase.CommentInput
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.taskService().AddComment(c.Request.Context(), id, callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GetComments handles GET /api/tasks/:id/comments
func (h *Handler) GetComments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.taskService().ListComments(c.Request.Context(), id, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}
