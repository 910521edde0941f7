package testutil

import (
	"testing"
	"time"

	"project-tracker-api/internal/config"
	"project-tracker-api/internal/database"
	"project-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := database.Open(config.DatabaseConfig{Path: ":memory:"}, logger.Silent)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MustDB is NewInMemoryDB for tests.
func MustDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewInMemoryDB()
	require.NoError(t, err)
	return db
}

// SeedUser inserts an active user with a placeholder password hash.
func SeedUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	u := &models.User{Email: email, FullName: name, PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

// SeedProject inserts a project managed by manager with the default board and
// the given members.
func SeedProject(t *testing.T, db *gorm.DB, key string, manager *models.User, members ...*models.User) *models.Project {
	t.Helper()
	p := &models.Project{
		Key:         key,
		Name:        key + " project",
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Methodology: models.MethodologyKanban,
		ManagerID:   manager.ID,
	}
	for i, name := range models.DefaultColumns {
		p.Columns = append(p.Columns, models.BoardColumn{Name: name, OrderIndex: i})
	}
	for _, m := range members {
		p.Members = append(p.Members, *m)
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedTask inserts a task in project p.
func SeedTask(t *testing.T, db *gorm.DB, p *models.Project, title string, mutate ...func(*models.Task)) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, ProjectID: p.ID, Priority: models.PriorityMedium}
	for _, m := range mutate {
		m(task)
	}
	require.NoError(t, db.Omit("Project", "Sprint", "Column", "Assignee", "Reporter", "Parent", "Subtasks", "Labels").Create(task).Error)
	return task
}
