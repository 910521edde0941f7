package models

import (
	"strings"
	"time"

	"project-tracker-api/internal/domain"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task represents a task in the system.
//
// A task with a non-nil ParentTaskID is a subtask. The parent link is a
// back-reference only: the owning project is the true owner of every task.
// Status is not stored; it is derived from the board column.
type Task struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Title        string       `json:"title" gorm:"not null"`
	Description  string       `json:"description"`
	Priority     TaskPriority `json:"priority" gorm:"not null;default:'MEDIUM'"`
	DueDate      *time.Time   `json:"dueDate" gorm:"column:due_date"`
	Points       *int         `json:"points"`
	IsRecurring  bool         `json:"isRecurring" gorm:"column:is_recurring"`
	ProjectID    uint         `json:"projectId" gorm:"column:project_id;not null;index"`
	SprintID     *uint        `json:"sprintId" gorm:"column:sprint_id;index"`
	ColumnID     *uint        `json:"columnId" gorm:"column:column_id;index"`
	AssigneeID   *uint        `json:"assigneeId" gorm:"column:assignee_id;index"`
	ReporterID   *uint        `json:"reporterId" gorm:"column:reporter_id"`
	ParentTaskID *uint        `json:"parentTaskId" gorm:"column:parent_task_id;index"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	// Relations, populated only when eagerly loaded by the repository.
	Project  *Project     `json:"-" gorm:"foreignKey:ProjectID"`
	Sprint   *Sprint      `json:"-" gorm:"foreignKey:SprintID"`
	Column   *BoardColumn `json:"-" gorm:"foreignKey:ColumnID"`
	Assignee *User        `json:"-" gorm:"foreignKey:AssigneeID"`
	Reporter *User        `json:"-" gorm:"foreignKey:ReporterID"`
	Parent   *Task        `json:"-" gorm:"foreignKey:ParentTaskID"`
	Subtasks []Task       `json:"-" gorm:"foreignKey:ParentTaskID"`
	Labels   []Label      `json:"-" gorm:"many2many:task_labels"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// Validate checks the invariants a task must satisfy before it is persisted.
// Cycle freedom of the full parent chain needs storage and is checked by the
// use case.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return domain.Invalid("title", "is required")
	}
	if t.ProjectID == 0 {
		return domain.Invalid("project_id", "is required")
	}
	if !t.Priority.Valid() {
		return domain.Invalid("priority", "must be LOW, MEDIUM, HIGH or CRITICAL")
	}
	if t.Points != nil && *t.Points < 0 {
		return domain.Invalid("points", "must not be negative")
	}
	if t.ID != 0 && t.ParentTaskID != nil && *t.ParentTaskID == t.ID {
		return domain.ErrParentCycle
	}
	return nil
}
