package view

import (
	"testing"

	"project-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestProject_ColumnsInBoardOrder(t *testing.T) {
	p := &models.Project{
		ID: 1, Key: "ECM", Name: "Commerce", ManagerID: 1,
		Manager: &models.User{ID: 1, Email: "m@x.io", FullName: "Manager"},
		Members: []models.User{{ID: 2, Email: "b@x.io", FullName: "Bob"}},
		Columns: []models.BoardColumn{
			{ID: 12, Name: "Done", OrderIndex: 2},
			{ID: 10, Name: "To Do", OrderIndex: 0},
			{ID: 11, Name: "In Progress", OrderIndex: 1},
		},
	}
	v := Project(p)
	require.Equal(t, "Manager", v.Manager.DisplayName)
	require.Len(t, v.Members, 1)
	require.Equal(t, []string{"to-do", "in-progress", "done"}, []string{v.Columns[0].Status, v.Columns[1].Status, v.Columns[2].Status})
}

func TestUser_OmitsPasswordHash(t *testing.T) {
	v := User(&models.User{ID: 1, Email: "a@b.com", FullName: "A B", PasswordHash: "x", IsActive: true})
	require.Equal(t, UserView{ID: 1, Email: "a@b.com", FullName: "A B", IsActive: true}, v)
	require.Nil(t, SummarizeUser(nil))
}

func TestComments(t *testing.T) {
	out := Comments([]models.Comment{{ID: 1, TaskID: 2, AuthorID: 3, Author: &models.User{ID: 3, FullName: "C"}, Content: "hi"}})
	require.Len(t, out, 1)
	require.Equal(t, "C", out[0].Author.DisplayName)
}
