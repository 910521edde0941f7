package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"project-tracker-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

type projectResponse struct {
	ID      uint    `json:"id"`
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	EndDate *string `json:"endDate"`
	Members []struct {
		ID uint `json:"id"`
	} `json:"members"`
	Columns []struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	} `json:"columns"`
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestServer(t)
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	dev := testutil.SeedUser(t, s.db, "dev@example.com", "Dev")
	token := s.token(t, manager.Email)

	w := s.do(t, http.MethodPost, "/api/projects", token, map[string]any{
		"key": "ecm", "name": "Commerce", "methodology": "SCRUM",
		"start_date": "2025-01-01T00:00:00Z", "end_date": "2025-06-01T00:00:00Z",
		"columns": []string{"Backlog", "In Review", "Shipped"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[projectResponse](t, w)
	require.Equal(t, "ECM", created.Key)
	require.Equal(t, "in-review", created.Columns[1].Status)

	w = s.do(t, http.MethodPost, "/api/projects", token, map[string]any{"key": "ECM", "name": "Again", "methodology": "SCRUM"})
	require.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", created.ID), token, map[string]any{"user_id": dev.ID})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[projectResponse](t, w).Members, 1)

	w = s.do(t, http.MethodGet, "/api/projects", s.token(t, dev.Email), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Count int `json:"count"`
	}](t, w)
	require.Equal(t, 1, list.Count)

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/projects/%d", created.ID), token, `{"name":"Storefront","end_date":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[projectResponse](t, w)
	require.Equal(t, "Storefront", updated.Name)
	require.Equal(t, "ECM", updated.Key)
	require.Nil(t, updated.EndDate)

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/projects/%d", created.ID), s.token(t, dev.Email), map[string]any{"name": "Mine"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/%d", created.ID, dev.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", created.ID), s.token(t, dev.Email), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", created.ID), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectValidationIsUnprocessable(t *testing.T) {
	s := newTestServer(t)
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")

	w := s.do(t, http.MethodPost, "/api/projects", s.token(t, manager.Email), map[string]any{
		"key": "ECM", "name": "Commerce", "methodology": "XP",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProjectSprintsAndTasks(t *testing.T) {
	s := newTestServer(t)
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	outsider := testutil.SeedUser(t, s.db, "out@example.com", "Out")
	p := testutil.SeedProject(t, s.db, "ECM", manager)
	testutil.SeedTask(t, s.db, p, "First")
	token := s.token(t, manager.Email)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/sprints", p.ID), token, map[string]any{"name": "Sprint 1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/sprints", p.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", p.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode[struct {
		Tasks []struct {
			Key    string `json:"key"`
			Status string `json:"status"`
		} `json:"tasks"`
	}](t, w)
	require.Len(t, tasks.Tasks, 1)
	require.Equal(t, "todo", tasks.Tasks[0].Status)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/tasks", p.ID), s.token(t, outsider.Email), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
