package repository

import (
	"context"
	"errors"
	"fmt"

	"project-tracker-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository implements TaskRepository on gorm.
type GormTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// withTaskRelations preloads the shape the view assembler expects. Parent and
// subtasks are resolved one level only; their own parents and subtasks are
// never loaded.
func withTaskRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Project").
		Preload("Column").
		Preload("Assignee").
		Preload("Parent").
		Preload("Parent.Project").
		Preload("Parent.Column").
		Preload("Parent.Assignee").
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id ASC") }).
		Preload("Subtasks.Project").
		Preload("Subtasks.Column").
		Preload("Subtasks.Assignee")
}

func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return r.GetByID(ctx, task.ID)
}

func (r *GormTaskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := withTaskRelations(r.db.WithContext(ctx)).First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *GormTaskRepository) GetAllByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := withTaskRelations(r.db.WithContext(ctx)).
		Where("tasks.project_id = ?", projectID).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list project tasks: %w", err)
	}
	return tasks, nil
}

func (r *GormTaskRepository) GetAllByAssignee(ctx context.Context, assigneeID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := withTaskRelations(r.db.WithContext(ctx)).
		Where("tasks.assignee_id = ?", assigneeID).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list assigned tasks: %w", err)
	}
	return tasks, nil
}

// Update writes only the columns named in fields; absent columns are left
// untouched. A nil value clears a nullable column.
func (r *GormTaskRepository) Update(ctx context.Context, id uint, fields map[string]any) (*models.Task, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update task %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes the task with its comments, files and label links. Its
// subtasks stay in the project as top-level tasks.
func (r *GormTaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("parent_task_id = ?", id).Update("parent_task_id", nil).Error; err != nil {
			return err
		}
		if err := deleteTaskChildren(tx, []uint{id}); err != nil {
			return err
		}
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func deleteTaskChildren(tx *gorm.DB, taskIDs []uint) error {
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.File{}).Error; err != nil {
		return err
	}
	return tx.Exec("DELETE FROM task_labels WHERE task_id IN ?", taskIDs).Error
}

// ParentChain follows parent links upward from id. The walk stops at the root
// or at the first repeated id, so a chain already corrupted into a loop still
// terminates.
func (r *GormTaskRepository) ParentChain(ctx context.Context, id uint) ([]uint, error) {
	var chain []uint
	seen := map[uint]struct{}{id: {}}
	current := id
	for {
		var row struct{ ParentTaskID *uint }
		err := r.db.WithContext(ctx).Model(&models.Task{}).
			Select("parent_task_id").Where("id = ?", current).Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return chain, nil
			}
			return nil, fmt.Errorf("walk parent chain: %w", err)
		}
		if row.ParentTaskID == nil {
			return chain, nil
		}
		parent := *row.ParentTaskID
		chain = append(chain, parent)
		if _, loop := seen[parent]; loop {
			return chain, nil
		}
		seen[parent] = struct{}{}
		current = parent
	}
}

func (r *GormTaskRepository) AddComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Author").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	var c models.Comment
	if err := db.Preload("Author").First(&c, comment.ID).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormTaskRepository) ListComments(ctx context.Context, taskID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

var _ TaskRepository = (*GormTaskRepository)(nil)
