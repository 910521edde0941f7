// Package view converts persisted entity graphs into response shapes.
//
// Every relation beyond the first hop is projected into a summary type that
// has no fields for its own parent or subtasks, so a cyclic task graph can
// never be traversed more than one level in either direction.
package view

import (
	"strconv"
	"strings"
	"time"

	"project-tracker-api/internal/models"
)

// DefaultStatus is reported for tasks that sit in no board column.
const DefaultStatus = "todo"

// ProjectSummary is the cycle-free projection of a project.
type ProjectSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// UserSummary is the public projection of a user.
type UserSummary struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// ParentTaskSummary is a leaf view of a task's parent.
type ParentTaskSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Key       string `json:"key"`
	Status    string `json:"status"`
	ProjectID uint   `json:"projectId"`
}

// SubtaskSummary is a leaf view of one of a task's subtasks.
type SubtaskSummary struct {
	ID       uint                `json:"id"`
	Title    string              `json:"title"`
	Key      string              `json:"key"`
	Status   string              `json:"status"`
	Priority models.TaskPriority `json:"priority"`
}

// TaskView is the denormalized response shape of a task.
type TaskView struct {
	ID           uint                `json:"id"`
	Key          string              `json:"key"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"dueDate"`
	Points       *int                `json:"points"`
	IsRecurring  bool                `json:"isRecurring"`
	ProjectID    uint                `json:"projectId"`
	SprintID     *uint               `json:"sprintId"`
	ColumnID     *uint               `json:"columnId"`
	AssigneeID   *uint               `json:"assigneeId"`
	ReporterID   *uint               `json:"reporterId"`
	ParentTaskID *uint               `json:"parentTaskId"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`

	Status            string             `json:"status"`
	Project           *ProjectSummary    `json:"project,omitempty"`
	Assignee          *UserSummary       `json:"assignee,omitempty"`
	ParentTaskSummary *ParentTaskSummary `json:"parentTaskSummary,omitempty"`
	Subtasks          []SubtaskSummary   `json:"subtasks"`
}

// StatusSlug derives a status label from a board column: the column name
// lower-cased with interior whitespace collapsed to single hyphens.
func StatusSlug(column *models.BoardColumn) string {
	if column == nil {
		return DefaultStatus
	}
	slug := strings.Join(strings.Fields(strings.ToLower(column.Name)), "-")
	if slug == "" {
		return DefaultStatus
	}
	return slug
}

// TaskKey renders the human readable identifier "{projectKey}-{id}".
// Without a project key only the numeric id is returned.
func TaskKey(projectKey string, id uint) string {
	n := strconv.FormatUint(uint64(id), 10)
	if projectKey == "" {
		return n
	}
	return projectKey + "-" + n
}

// AssembleTask builds the response view of t. The task's project, column,
// assignee, parent and subtasks must already be resolved where present; the
// parent and each subtask need their own project, column and assignee one
// level deep only. Their parents and subtasks are never read.
//
// A task without a title or project id is a caller bug and panics.
func AssembleTask(t *models.Task) TaskView {
	if t == nil {
		panic("view.AssembleTask: nil task")
	}
	if t.Title == "" {
		panic("view.AssembleTask: task " + strconv.FormatUint(uint64(t.ID), 10) + " has no title")
	}
	if t.ProjectID == 0 {
		panic("view.AssembleTask: task " + strconv.FormatUint(uint64(t.ID), 10) + " has no project id")
	}

	projectKey := ""
	var project *ProjectSummary
	if t.Project != nil {
		projectKey = t.Project.Key
		project = &ProjectSummary{ID: t.Project.ID, Name: t.Project.Name, Key: t.Project.Key}
	}

	v := TaskView{
		ID:           t.ID,
		Key:          TaskKey(projectKey, t.ID),
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		Points:       t.Points,
		IsRecurring:  t.IsRecurring,
		ProjectID:    t.ProjectID,
		SprintID:     t.SprintID,
		ColumnID:     t.ColumnID,
		AssigneeID:   t.AssigneeID,
		ReporterID:   t.ReporterID,
		ParentTaskID: t.ParentTaskID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Status:       StatusSlug(t.Column),
		Project:      project,
		Assignee:     SummarizeUser(t.Assignee),
		Subtasks:     make([]SubtaskSummary, 0, len(t.Subtasks)),
	}

	if t.Parent != nil {
		v.ParentTaskSummary = summarizeParent(t.Parent, projectKey)
	}
	for i := range t.Subtasks {
		v.Subtasks = append(v.Subtasks, summarizeSubtask(&t.Subtasks[i], projectKey))
	}
	return v
}

// AssembleTasks maps AssembleTask over ts, preserving order.
func AssembleTasks(ts []models.Task) []TaskView {
	out := make([]TaskView, 0, len(ts))
	for i := range ts {
		out = append(out, AssembleTask(&ts[i]))
	}
	return out
}

// summarizeParent reads only the parent's scalars, column and project.
func summarizeParent(parent *models.Task, fallbackKey string) *ParentTaskSummary {
	return &ParentTaskSummary{
		ID:        parent.ID,
		Title:     parent.Title,
		Key:       TaskKey(ownKey(parent, fallbackKey), parent.ID),
		Status:    StatusSlug(parent.Column),
		ProjectID: parent.ProjectID,
	}
}

// summarizeSubtask reads only the subtask's scalars, column and project.
func summarizeSubtask(sub *models.Task, fallbackKey string) SubtaskSummary {
	return SubtaskSummary{
		ID:       sub.ID,
		Title:    sub.Title,
		Key:      TaskKey(ownKey(sub, fallbackKey), sub.ID),
		Status:   StatusSlug(sub.Column),
		Priority: sub.Priority,
	}
}

// ownKey prefers the related task's own project key.
func ownKey(t *models.Task, fallback string) string {
	if t.Project != nil && t.Project.Key != "" {
		return t.Project.Key
	}
	return fallback
}
