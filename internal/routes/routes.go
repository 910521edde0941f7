package routes

import (
	"net/http"

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/handlers"
	"project-tracker-api/internal/middleware"
	"project-tracker-api/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes builds the router over db. security hashes passwords and
// issues and verifies tokens.
func SetupRoutes(db *gorm.DB, security *auth.Service) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger())

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Tracker API is running",
		})
	})

	h := handlers.New(db, security)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(security, repository.NewUserRepository(db)))
	{
		protectedRoutes.GET("/auth/me", h.Me)
		protectedRoutes.GET("/users", h.GetAllUsers)

		// Project endpoints
		protectedRoutes.GET("/projects", h.GetProjects)
		protectedRoutes.POST("/projects", h.CreateProject)
		protectedRoutes.GET("/projects/:id", h.GetProjectByID)
		protectedRoutes.PUT("/projects/:id", h.UpdateProject)
		protectedRoutes.PATCH("/projects/:id", h.UpdateProject)
		protectedRoutes.DELETE("/projects/:id", h.DeleteProject)
		protectedRoutes.POST("/projects/:id/members", h.AddProjectMember)
		protectedRoutes.DELETE("/projects/:id/members/:userId", h.RemoveProjectMember)
		protectedRoutes.GET("/projects/:id/tasks", h.GetProjectTasks)
		protectedRoutes.POST("/projects/:id/sprints", h.CreateSprint)
		protectedRoutes.GET("/projects/:id/sprints", h.GetSprints)

		// Task endpoints
		protectedRoutes.POST("/tasks", h.CreateTask)
		protectedRoutes.GET("/my-tasks", h.GetMyTasks)
		protectedRoutes.GET("/tasks/:id", h.GetTaskByID)
		protectedRoutes.PUT("/tasks/:id", h.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id", h.UpdateTask)
		protectedRoutes.DELETE("/tasks/:id", h.DeleteTask)
		protectedRoutes.POST("/tasks/:id/comments", h.AddComment)
		protectedRoutes.GET("/tasks/:id/comments", h.GetComments)
	}

	return ginRouter
}
