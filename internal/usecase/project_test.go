package usecase

import (
	"context"
	"testing"
	"time"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/patch"
	"project-tracker-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject_DefaultsAndMembers(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	dev := testutil.SeedUser(t, s.db, "dev@example.com", "Dev")

	p, err := s.projects.Create(ctx, manager.ID, CreateProjectInput{
		Key:         "ecm",
		Name:        "Commerce",
		Methodology: models.MethodologyScrum,
		MemberIDs:   []uint{dev.ID, dev.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "ECM", p.Key)
	assert.Equal(t, manager.ID, p.ManagerID)
	require.Len(t, p.Columns, 3)
	assert.Equal(t, "in-progress", p.Columns[1].Status)
	require.Len(t, p.Members, 1)
	assert.Equal(t, dev.ID, p.Members[0].ID)

	var entries []models.Log
	require.NoError(t, s.db.Where("project_id = ?", p.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "project.created", entries[0].Action)
}

func TestCreateProject_Rejections(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	testutil.SeedProject(t, s.db, "ECM", manager)

	_, err := s.projects.Create(ctx, manager.ID, CreateProjectInput{Key: "ECM", Name: "Again", Methodology: models.MethodologyKanban})
	assert.ErrorIs(t, err, domain.ErrProjectKeyTaken)

	_, err = s.projects.Create(ctx, manager.ID, CreateProjectInput{Key: "E", Name: "Short", Methodology: models.MethodologyKanban})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.projects.Create(ctx, manager.ID, CreateProjectInput{Key: "NEW", Name: "Bad", Methodology: "XP"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.projects.Create(ctx, manager.ID, CreateProjectInput{Key: "NEW", Name: "Ghost", Methodology: models.MethodologyKanban, MemberIDs: []uint{999}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectVisibility_OutsiderSeesNotFound(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	outsider := testutil.SeedUser(t, s.db, "out@example.com", "Out")
	p := testutil.SeedProject(t, s.db, "ECM", manager)

	_, err := s.projects.Get(ctx, p.ID, outsider.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = s.projects.Update(ctx, p.ID, outsider.ID, UpdateProjectInput{Name: strPtr("Mine now")})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	err = s.projects.Delete(ctx, p.ID, outsider.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	list, err := s.projects.List(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.projects.Get(ctx, p.ID, manager.ID)
	assert.NoError(t, err)
}

func TestProjectWrites_MemberSeesNotFound(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	member := testutil.SeedUser(t, s.db, "dev@example.com", "Dev")
	p := testutil.SeedProject(t, s.db, "ECM", manager, member)

	got, err := s.projects.Get(ctx, p.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "ECM", got.Key)

	_, err = s.projects.Update(ctx, p.ID, member.ID, UpdateProjectInput{Name: strPtr("Renamed")})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	assert.ErrorIs(t, s.projects.Delete(ctx, p.ID, member.ID), domain.ErrProjectNotFound)
}

func TestUpdateProject_PartialFields(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	p := testutil.SeedProject(t, s.db, "ECM", manager)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := s.projects.Update(ctx, p.ID, manager.ID, UpdateProjectInput{
		Description:  strPtr("storefront"),
		EndDate:      patch.Value(end),
		CustomFields: patch.Value(map[string]any{"team": "web"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "ECM project", got.Name)
	assert.Equal(t, "storefront", got.Description)
	require.NotNil(t, got.EndDate)
	assert.True(t, end.Equal(*got.EndDate))
	assert.Equal(t, "web", got.CustomFields["team"])

	got, err = s.projects.Update(ctx, p.ID, manager.ID, UpdateProjectInput{EndDate: patch.Null[time.Time]()})
	require.NoError(t, err)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, "storefront", got.Description)

	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = s.projects.Update(ctx, p.ID, manager.ID, UpdateProjectInput{EndDate: patch.Value(before)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateProject_KeyChange(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	p := testutil.SeedProject(t, s.db, "ECM", manager)
	testutil.SeedProject(t, s.db, "LEG", manager)

	_, err := s.projects.Update(ctx, p.ID, manager.ID, UpdateProjectInput{Key: strPtr("LEG")})
	assert.ErrorIs(t, err, domain.ErrProjectKeyTaken)

	got, err := s.projects.Update(ctx, p.ID, manager.ID, UpdateProjectInput{Key: strPtr("shop")})
	require.NoError(t, err)
	assert.Equal(t, "SHOP", got.Key)

	testutil.SeedTask(t, s.db, p, "First")
	_, err = s.projects.Update(ctx, p.ID, manager.ID, UpdateProjectInput{Key: strPtr("ECM")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteProject_RemovesTasks(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	p := testutil.SeedProject(t, s.db, "ECM", manager)
	testutil.SeedTask(t, s.db, p, "First")

	require.NoError(t, s.projects.Delete(ctx, p.ID, manager.ID))

	_, err := s.projects.Get(ctx, p.ID, manager.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	var n int64
	require.NoError(t, s.db.Model(&models.Task{}).Where("project_id = ?", p.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestMembers(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	dev := testutil.SeedUser(t, s.db, "dev@example.com", "Dev")
	p := testutil.SeedProject(t, s.db, "ECM", manager)

	got, err := s.projects.AddMember(ctx, p.ID, manager.ID, dev.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1)

	got, err = s.projects.AddMember(ctx, p.ID, manager.ID, dev.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)

	_, err = s.projects.AddMember(ctx, p.ID, dev.ID, manager.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = s.projects.AddMember(ctx, p.ID, manager.ID, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = s.projects.RemoveMember(ctx, p.ID, manager.ID, manager.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err = s.projects.RemoveMember(ctx, p.ID, manager.ID, dev.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Members)

	_, err = s.projects.Get(ctx, p.ID, dev.ID)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestSprints(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	manager := testutil.SeedUser(t, s.db, "pm@example.com", "PM")
	member := testutil.SeedUser(t, s.db, "dev@example.com", "Dev")
	p := testutil.SeedProject(t, s.db, "ECM", manager, member)

	sprint, err := s.projects.CreateSprint(ctx, p.ID, manager.ID, CreateSprintInput{Name: "Sprint 1", Goal: "checkout"})
	require.NoError(t, err)
	assert.NotZero(t, sprint.ID)

	_, err = s.projects.CreateSprint(ctx, p.ID, member.ID, CreateSprintInput{Name: "Sprint 2"})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = s.projects.CreateSprint(ctx, p.ID, manager.ID, CreateSprintInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	sprints, err := s.projects.ListSprints(ctx, p.ID, member.ID)
	require.NoError(t, err)
	require.Len(t, sprints, 1)
	assert.Equal(t, "Sprint 1", sprints[0].Name)
}
