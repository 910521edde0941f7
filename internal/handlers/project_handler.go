package handlers

import (
	"net/http"

	"project-tracker-api/internal/usecase"

	"github.com/gin-gonic/gin"
)

// AddMemberRequest represents the payload for adding a project member
type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// GetProjects handles GET /api/projects
// Returns the projects the caller manages or is a member of.
func (h *Handler) GetProjects(c *gin.Context) {
	projects, err := h.projectService().List(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// CreateProject handles POST /api/projects
func (h *Handler) CreateProject(c *gin.Context) {
	var req usecase.CreateProjectInput
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projectService().Create(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProjectByID handles GET /api/projects/:id
func (h *Handler) GetProjectByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	project, err := h.projectService().Get(c.Request.Context(), id, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// UpdateProject handles PUT /api/projects/:id
// Only the fields present in the body are changed.
func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req usecase.UpdateProjectInput
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projectService().Update(c.Request.Context(), id, callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/:id
func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.projectService().Delete(c.Request.Context(), id, callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
		"id":      id,
	})
}

// AddProjectMember handles POST /api/projects/:id/members
func (h *Handler) AddProjectMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.projectService().AddMember(c.Request.Context(), id, callerID(c), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// RemoveProjectMember handles DELETE /api/projects/:id/members/:userId
func (h *Handler) RemoveProjectMember(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	project, err := h.projectService().RemoveMember(c.Request.Context(), id, callerID(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// GetProjectTasks handles GET /api/projects/:id/tasks
func (h *Handler) GetProjectTasks(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tasks, err := h.taskService().ListByProject(c.Request.Context(), id, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// CreateSprint handles POST /api/projects/:id/sprints
func (h *Handler) CreateSprint(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req usecase.CreateSprintInput
	if !bindJSON(c, &req) {
		return
	}
	sprint, err := h.projectService().CreateSprint(c.Request.Context(), id, callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sprint)
}

// GetSprints handles GET /api/projects/:id/sprints
func (h *Handler) GetSprints(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	sprints, err := h.projectService().ListSprints(c.Request.Context(), id, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sprints": sprints,
		"count":   len(sprints),
	})
}
