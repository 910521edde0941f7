package policy

import (
	"context"
	"errors"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ProjectLookup loads a project with its members resolved.
type ProjectLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Project, error)
}

// TaskLookup loads a task.
type TaskLookup interface {
	GetByID(ctx context.Context, id uint) (*models.Task, error)
}

// Authorizer fetches the data a rule needs from the repositories and applies it.
type Authorizer struct {
	projects ProjectLookup
	tasks    TaskLookup
}

func NewAuthorizer(projects ProjectLookup, tasks TaskLookup) *Authorizer {
	return &Authorizer{projects: projects, tasks: tasks}
}

// Project returns the project if userID may perform action on it, and
// domain.ErrProjectNotFound if it is missing or the action is denied.
func (a *Authorizer) Project(ctx context.Context, projectID, userID uint, action Action) (*models.Project, error) {
	p, err := a.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	if !CanAccessProject(p, userID, action) {
		log.WithFields(log.Fields{"project": projectID, "user": userID, "action": action}).Debug("project access denied")
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

// Task returns the task and its owning project if userID may perform action
// on the task, and domain.ErrTaskNotFound if it is missing or denied.
func (a *Authorizer) Task(ctx context.Context, taskID, userID uint, action Action) (*models.Task, *models.Project, error) {
	t, err := a.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, domain.ErrTaskNotFound
		}
		return nil, nil, err
	}
	p, err := a.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, domain.ErrTaskNotFound
		}
		return nil, nil, err
	}
	if !CanAccessTask(p, t, userID, action) {
		log.WithFields(log.Fields{"task": taskID, "user": userID, "action": action}).Debug("task access denied")
		return nil, nil, domain.ErrTaskNotFound
	}
	return t, p, nil
}
