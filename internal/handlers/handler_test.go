package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/config"
	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/middleware"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testServer struct {
	db       *gorm.DB
	router   *gin.Engine
	security *auth.Service
}

// newTestServer wires the handlers under test onto a router backed by an
// in-memory database.
func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.MustDB(t)
	security := auth.NewService(
		config.JWTConfig{Secret: "test-secret", Issuer: "test", Audience: "test-clients", TTL: time.Minute},
		config.BcryptConfig{Cost: bcrypt.MinCost},
	)
	h := New(db, security)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	protected := r.Group("/api", middleware.JWTAuthMiddleware(security, repository.NewUserRepository(db)))
	protected.GET("/auth/me", h.Me)
	protected.GET("/users", h.GetAllUsers)
	protected.GET("/projects", h.GetProjects)
	protected.POST("/projects", h.CreateProject)
	protected.GET("/projects/:id", h.GetProjectByID)
	protected.PUT("/projects/:id", h.UpdateProject)
	protected.DELETE("/projects/:id", h.DeleteProject)
	protected.POST("/projects/:id/members", h.AddProjectMember)
	protected.DELETE("/projects/:id/members/:userId", h.RemoveProjectMember)
	protected.GET("/projects/:id/tasks", h.GetProjectTasks)
	protected.POST("/projects/:id/sprints", h.CreateSprint)
	protected.GET("/projects/:id/sprints", h.GetSprints)
	protected.POST("/tasks", h.CreateTask)
	protected.GET("/my-tasks", h.GetMyTasks)
	protected.GET("/tasks/:id", h.GetTaskByID)
	protected.PUT("/tasks/:id", h.UpdateTask)
	protected.DELETE("/tasks/:id", h.DeleteTask)
	protected.POST("/tasks/:id/comments", h.AddComment)
	protected.GET("/tasks/:id/comments", h.GetComments)

	return testServer{db: db, router: r, security: security}
}

func (s testServer) token(t *testing.T, email string) string {
	t.Helper()
	token, err := s.security.IssueToken(email)
	require.NoError(t, err)
	return token
}

func (s testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrUserAlreadyExists, http.StatusConflict},
		{domain.ErrProjectKeyTaken, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrProjectNotFound, http.StatusNotFound},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.Invalid("title", "is required"), http.StatusUnprocessableEntity},
		{fmt.Errorf("update task: %w", domain.ErrParentCycle), http.StatusUnprocessableEntity},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestRespondError_HidesInfrastructureDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("near \"SELECT\": syntax error"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "SELECT")
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/auth/register", "", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
