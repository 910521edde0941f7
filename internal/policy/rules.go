// Package policy decides whether an acting user may perform an operation on a
// project or task.
//
// Denials are reported as the not-found kind of the resource so callers
// cannot tell a private resource from a missing one.
package policy

import "project-tracker-api/internal/models"

// Action is an operation subject to authorization.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionManage covers member and sprint administration.
	ActionManage Action = "manage"
)

// CanAccessProject applies the project rules: the manager may do anything;
// members may read and create tasks; everyone else may do nothing.
func CanAccessProject(p *models.Project, userID uint, action Action) bool {
	if p == nil || userID == 0 {
		return false
	}
	switch action {
	case ActionRead, ActionCreate:
		return p.HasMember(userID)
	case ActionUpdate, ActionDelete, ActionManage:
		return p.ManagerID == userID
	}
	return false
}

// CanAccessTask applies the task rules against the task's owning project.
//
//	read:   project manager, project member, or assignee
//	update: project manager or assignee
//	delete: project manager only
func CanAccessTask(p *models.Project, t *models.Task, userID uint, action Action) bool {
	if p == nil || t == nil || userID == 0 || t.ProjectID != p.ID {
		return false
	}
	manager := p.ManagerID == userID
	assignee := t.AssigneeID != nil && *t.AssigneeID == userID
	switch action {
	case ActionRead:
		return p.HasMember(userID) || assignee
	case ActionUpdate:
		return manager || assignee
	case ActionDelete:
		return manager
	}
	return false
}
