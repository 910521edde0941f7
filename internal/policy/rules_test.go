package policy

import (
	"testing"

	"project-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

const (
	managerID  uint = 1
	memberID   uint = 2
	assigneeID uint = 3
	outsiderID uint = 4
)

func fixture() (*models.Project, *models.Task) {
	p := &models.Project{ID: 10, ManagerID: managerID, Members: []models.User{{ID: memberID}}}
	a := assigneeID
	t := &models.Task{ID: 20, ProjectID: 10, AssigneeID: &a}
	return p, t
}

func TestCanAccessProject(t *testing.T) {
	p, _ := fixture()
	cases := []struct {
		user   uint
		action Action
		want   bool
	}{
		{managerID, ActionRead, true},
		{managerID, ActionUpdate, true},
		{managerID, ActionDelete, true},
		{managerID, ActionManage, true},
		{memberID, ActionRead, true},
		{memberID, ActionCreate, true},
		{memberID, ActionUpdate, false},
		{memberID, ActionDelete, false},
		{memberID, ActionManage, false},
		{outsiderID, ActionRead, false},
		{outsiderID, ActionCreate, false},
		{outsiderID, ActionDelete, false},
		{0, ActionRead, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CanAccessProject(p, c.user, c.action), "user=%d action=%s", c.user, c.action)
	}
	require.False(t, CanAccessProject(nil, managerID, ActionRead))
	require.False(t, CanAccessProject(p, managerID, Action("archive")))
}

func TestCanAccessTask(t *testing.T) {
	p, task := fixture()
	cases := []struct {
		user   uint
		action Action
		want   bool
	}{
		{managerID, ActionRead, true},
		{managerID, ActionUpdate, true},
		{managerID, ActionDelete, true},
		{assigneeID, ActionRead, true},
		{assigneeID, ActionUpdate, true},
		{assigneeID, ActionDelete, false},
		{memberID, ActionRead, true},
		{memberID, ActionUpdate, false},
		{memberID, ActionDelete, false},
		{outsiderID, ActionRead, false},
		{outsiderID, ActionUpdate, false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CanAccessTask(p, task, c.user, c.action), "user=%d action=%s", c.user, c.action)
	}

	other := &models.Project{ID: 99, ManagerID: managerID}
	require.False(t, CanAccessTask(other, task, managerID, ActionRead))
	require.False(t, CanAccessTask(p, nil, managerID, ActionRead))
}
