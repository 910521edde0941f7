package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/patch"
	"project-tracker-api/internal/policy"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/view"

	log "github.com/sirupsen/logrus"
)

// CreateTaskInput represents the request payload for creating a task
type CreateTaskInput struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"due_date"`
	Points       *int                `json:"points"`
	IsRecurring  bool                `json:"is_recurring"`
	ProjectID    uint                `json:"project_id"`
	SprintID     *uint               `json:"sprint_id"`
	ColumnID     *uint               `json:"column_id"`
	AssigneeID   *uint               `json:"assignee_id"`
	ReporterID   *uint               `json:"reporter_id"`
	ParentTaskID *uint               `json:"parent_task_id"`
}

// UpdateTaskInput represents the request payload for updating a task.
// Nullable references may be cleared with an explicit null.
type UpdateTaskInput struct {
	Title        *string                `json:"title"`
	Description  *string                `json:"description"`
	Priority     *models.TaskPriority   `json:"priority"`
	DueDate      patch.Field[time.Time] `json:"due_date"`
	Points       patch.Field[int]       `json:"points"`
	IsRecurring  *bool                  `json:"is_recurring"`
	SprintID     patch.Field[uint]      `json:"sprint_id"`
	ColumnID     patch.Field[uint]      `json:"column_id"`
	AssigneeID   patch.Field[uint]      `json:"assignee_id"`
	ReporterID   patch.Field[uint]      `json:"reporter_id"`
	ParentTaskID patch.Field[uint]      `json:"parent_task_id"`
}

// CommentInput represents the request payload for commenting on a task
type CommentInput struct {
	Content string `json:"content"`
}

type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	audit    repository.AuditRepository
	authz    *policy.Authorizer
}

func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository, users repository.UserRepository, audit repository.AuditRepository) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
		audit:    audit,
		authz:    policy.NewAuthorizer(projects, tasks),
	}
}

// Create adds a task to a project the caller manages or belongs to. The
// reporter defaults to the caller.
func (s *TaskService) Create(ctx context.Context, callerID uint, in CreateTaskInput) (view.TaskView, error) {
	if in.ProjectID == 0 {
		return view.TaskView{}, domain.Invalid("project_id", "is required")
	}
	p, err := s.authz.Project(ctx, in.ProjectID, callerID, policy.ActionCreate)
	if err != nil {
		return view.TaskView{}, err
	}

	t := &models.Task{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
		Points:       in.Points,
		IsRecurring:  in.IsRecurring,
		ProjectID:    p.ID,
		SprintID:     in.SprintID,
		ColumnID:     in.ColumnID,
		AssigneeID:   in.AssigneeID,
		ReporterID:   in.ReporterID,
		ParentTaskID: in.ParentTaskID,
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.ReporterID == nil {
		t.ReporterID = &callerID
	}
	if err := t.Validate(); err != nil {
		return view.TaskView{}, err
	}
	if err := s.checkReferences(ctx, p.ID, callerID, t); err != nil {
		return view.TaskView{}, err
	}

	created, err := s.tasks.Create(ctx, t)
	if err != nil {
		return view.TaskView{}, err
	}
	if err := appendAudit(ctx, s.audit, p.ID, callerID, "task.created", map[string]any{"task_id": created.ID, "title": created.Title}); err != nil {
		return view.TaskView{}, err
	}
	log.WithFields(log.Fields{"task": created.ID, "project": p.ID, "user": callerID}).Info("task created")
	return view.AssembleTask(created), nil
}

func (s *TaskService) Get(ctx context.Context, taskID, callerID uint) (view.TaskView, error) {
	t, _, err := s.authz.Task(ctx, taskID, callerID, policy.ActionRead)
	if err != nil {
		return view.TaskView{}, err
	}
	return view.AssembleTask(t), nil
}

func (s *TaskService) ListByProject(ctx context.Context, projectID, callerID uint) ([]view.TaskView, error) {
	p, err := s.authz.Project(ctx, projectID, callerID, policy.ActionRead)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.GetAllByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return view.AssembleTasks(tasks), nil
}

// ListMine returns the tasks assigned to the caller across all projects.
func (s *TaskService) ListMine(ctx context.Context, callerID uint) ([]view.TaskView, error) {
	tasks, err := s.tasks.GetAllByAssignee(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return view.AssembleTasks(tasks), nil
}

// Update applies the fields present in in. The project manager and the
// assignee may update a task.
func (s *TaskService) Update(ctx context.Context, taskID, callerID uint, in UpdateTaskInput) (view.TaskView, error) {
	t, p, err := s.authz.Task(ctx, taskID, callerID, policy.ActionUpdate)
	if err != nil {
		return view.TaskView{}, err
	}

	merged := *t
	fields := map[string]any{}
	if in.Title != nil {
		merged.Title = strings.TrimSpace(*in.Title)
		fields["title"] = merged.Title
	}
	if in.Description != nil {
		merged.Description = *in.Description
		fields["description"] = *in.Description
	}
	if in.Priority != nil {
		merged.Priority = *in.Priority
		fields["priority"] = *in.Priority
	}
	if in.IsRecurring != nil {
		merged.IsRecurring = *in.IsRecurring
		fields["is_recurring"] = *in.IsRecurring
	}
	if in.DueDate.Set {
		merged.DueDate = in.DueDate.Ptr()
		fields["due_date"] = in.DueDate.Column()
	}
	if in.Points.Set {
		merged.Points = in.Points.Ptr()
		fields["points"] = in.Points.Column()
	}
	refs := []struct {
		column string
		field  patch.Field[uint]
		target **uint
	}{
		{"sprint_id", in.SprintID, &merged.SprintID},
		{"column_id", in.ColumnID, &merged.ColumnID},
		{"assignee_id", in.AssigneeID, &merged.AssigneeID},
		{"reporter_id", in.ReporterID, &merged.ReporterID},
		{"parent_task_id", in.ParentTaskID, &merged.ParentTaskID},
	}
	// only references being changed are re-checked
	changed := models.Task{ID: t.ID}
	changedRefs := map[string]**uint{
		"sprint_id":      &changed.SprintID,
		"column_id":      &changed.ColumnID,
		"assignee_id":    &changed.AssigneeID,
		"reporter_id":    &changed.ReporterID,
		"parent_task_id": &changed.ParentTaskID,
	}
	for _, ref := range refs {
		if ref.field.Set {
			*ref.target = ref.field.Ptr()
			*changedRefs[ref.column] = ref.field.Ptr()
			fields[ref.column] = ref.field.Column()
		}
	}
	if len(fields) == 0 {
		return view.AssembleTask(t), nil
	}

	if err := merged.Validate(); err != nil {
		return view.TaskView{}, err
	}
	if err := s.checkReferences(ctx, p.ID, callerID, &changed); err != nil {
		return view.TaskView{}, err
	}

	updated, err := s.tasks.Update(ctx, t.ID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.TaskView{}, domain.ErrTaskNotFound
		}
		return view.TaskView{}, err
	}
	if err := appendAudit(ctx, s.audit, p.ID, callerID, "task.updated", withTaskID(fields, t.ID)); err != nil {
		return view.TaskView{}, err
	}
	log.WithFields(log.Fields{"task": t.ID, "project": p.ID, "user": callerID}).Info("task updated")
	return view.AssembleTask(updated), nil
}

// Delete removes the task. Only the project manager may delete; subtasks are
// detached rather than removed.
func (s *TaskService) Delete(ctx context.Context, taskID, callerID uint) error {
	t, p, err := s.authz.Task(ctx, taskID, callerID, policy.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, t.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	if err := appendAudit(ctx, s.audit, p.ID, callerID, "task.deleted", map[string]any{"task_id": t.ID, "title": t.Title}); err != nil {
		return err
	}
	log.WithFields(log.Fields{"task": t.ID, "project": p.ID, "user": callerID}).Info("task deleted")
	return nil
}

// AddComment records a comment from anyone who can read the task.
func (s *TaskService) AddComment(ctx context.Context, taskID, callerID uint, in CommentInput) (view.CommentView, error) {
	t, _, err := s.authz.Task(ctx, taskID, callerID, policy.ActionRead)
	if err != nil {
		return view.CommentView{}, err
	}
	c := &models.Comment{TaskID: t.ID, AuthorID: callerID, Content: strings.TrimSpace(in.Content)}
	if err := c.Validate(); err != nil {
		return view.CommentView{}, err
	}
	created, err := s.tasks.AddComment(ctx, c)
	if err != nil {
		return view.CommentView{}, err
	}
	return view.Comment(created), nil
}

func (s *TaskService) ListComments(ctx context.Context, taskID, callerID uint) ([]view.CommentView, error) {
	t, _, err := s.authz.Task(ctx, taskID, callerID, policy.ActionRead)
	if err != nil {
		return nil, err
	}
	comments, err := s.tasks.ListComments(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return view.Comments(comments), nil
}

// checkReferences verifies that every reference on t resolves: column and
// sprint inside projectID, users that exist, and a parent the caller can see
// whose ancestor chain does not contain t.
func (s *TaskService) checkReferences(ctx context.Context, projectID, callerID uint, t *models.Task) error {
	if t.ColumnID != nil {
		if _, err := s.projects.GetColumn(ctx, projectID, *t.ColumnID); err != nil {
			return referenceError(err, "column_id", "does not belong to the project")
		}
	}
	if t.SprintID != nil {
		if _, err := s.projects.GetSprint(ctx, projectID, *t.SprintID); err != nil {
			return referenceError(err, "sprint_id", "does not belong to the project")
		}
	}
	if t.AssigneeID != nil {
		if _, err := s.users.GetByID(ctx, *t.AssigneeID); err != nil {
			return referenceError(err, "assignee_id", "references an unknown user")
		}
	}
	if t.ReporterID != nil {
		if _, err := s.users.GetByID(ctx, *t.ReporterID); err != nil {
			return referenceError(err, "reporter_id", "references an unknown user")
		}
	}
	if t.ParentTaskID == nil {
		return nil
	}

	parentID := *t.ParentTaskID
	if t.ID != 0 && parentID == t.ID {
		return domain.ErrParentCycle
	}
	if _, _, err := s.authz.Task(ctx, parentID, callerID, policy.ActionRead); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.Invalid("parent_task_id", "does not exist")
		}
		return err
	}
	if t.ID == 0 {
		return nil
	}
	chain, err := s.tasks.ParentChain(ctx, parentID)
	if err != nil {
		return err
	}
	for _, id := range chain {
		if id == t.ID {
			return domain.ErrParentCycle
		}
	}
	return nil
}

func referenceError(err error, field, reason string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Invalid(field, reason)
	}
	return err
}

func withTaskID(fields map[string]any, id uint) map[string]any {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["task_id"] = id
	return out
}
