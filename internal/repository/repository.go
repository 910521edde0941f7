// Package repository holds the persistence contracts per aggregate and their
// gorm implementations.
package repository

import (
	"context"
	"errors"

	"project-tracker-api/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository reads and writes users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	GetAll(ctx context.Context) ([]models.User, error)
}

// ProjectRepository reads and writes projects together with the columns,
// sprints and member links they own. Returned projects have their manager,
// members and columns resolved.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	// GetByIDAndUser returns the project only if userID manages it or is a member.
	GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Project, error)
	// GetAll returns the projects callerID manages or is a member of.
	GetAll(ctx context.Context, callerID uint) ([]models.Project, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	HasTasks(ctx context.Context, id uint) (bool, error)
	KeyExists(ctx context.Context, key string) (bool, error)

	AddMember(ctx context.Context, projectID uint, user *models.User) error
	RemoveMember(ctx context.Context, projectID, userID uint) error

	GetColumn(ctx context.Context, projectID, columnID uint) (*models.BoardColumn, error)
	CreateSprint(ctx context.Context, sprint *models.Sprint) error
	GetSprint(ctx context.Context, projectID, sprintID uint) (*models.Sprint, error)
	ListSprints(ctx context.Context, projectID uint) ([]models.Sprint, error)
}

// TaskRepository reads and writes tasks. Returned tasks have project, column,
// assignee, parent and subtasks resolved; the parent and each subtask carry
// their own project, column and assignee one level deep.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	GetAllByProject(ctx context.Context, projectID uint) ([]models.Task, error)
	GetAllByAssignee(ctx context.Context, assigneeID uint) ([]models.Task, error)
	// Update writes only the given columns.
	Update(ctx context.Context, id uint, fields map[string]any) (*models.Task, error)
	Delete(ctx context.Context, id uint) error
	// ParentChain returns the ancestor ids of id, nearest first.
	ParentChain(ctx context.Context, id uint) ([]uint, error)

	AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListComments(ctx context.Context, taskID uint) ([]models.Comment, error)
}

// AuditRepository appends project audit entries.
type AuditRepository interface {
	Append(ctx context.Context, entry *models.Log) error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
