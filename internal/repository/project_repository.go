package repository

import (
	"context"
	"fmt"

	"project-tracker-api/internal/models"

	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository on gorm.
type GormProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func withProjectRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Manager").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("board_columns.order_index ASC") })
}

// visibleTo restricts a project query to projects userID manages or belongs to.
func visibleTo(db *gorm.DB, userID uint) *gorm.DB {
	members := db.Session(&gorm.Session{NewDB: true}).
		Table("project_members").Select("project_id").Where("user_id = ?", userID)
	return db.Where("projects.manager_id = ? OR projects.id IN (?)", userID, members)
}

// Create inserts the project with its columns and member links.
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Omit("Manager", "Sprints").Create(project).Error
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *GormProjectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := withProjectRelations(r.db.WithContext(ctx)).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *GormProjectRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (*models.Project, error) {
	var p models.Project
	q := visibleTo(withProjectRelations(r.db.WithContext(ctx)), userID).Where("projects.id = ?", id)
	if err := q.First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *GormProjectRepository) GetAll(ctx context.Context, callerID uint) ([]models.Project, error) {
	var projects []models.Project
	q := visibleTo(withProjectRelations(r.db.WithContext(ctx)), callerID).Order("projects.id ASC")
	if err := q.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r *GormProjectRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update project %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the project and everything it owns in one transaction: its
// tasks (with their comments, files and label links), columns, sprints,
// labels, audit entries and member links. Tasks in other projects whose
// parent is deleted become top-level.
func (r *GormProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Model(&models.Task{}).
				Where("parent_task_id IN ? AND project_id <> ?", taskIDs, id).
				Update("parent_task_id", nil).Error; err != nil {
				return err
			}
			if err := deleteTaskChildren(tx, taskIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", taskIDs).Delete(&models.Task{}).Error; err != nil {
				return err
			}
		}

		var labelIDs []uint
		if err := tx.Model(&models.Label{}).Where("project_id = ?", id).Pluck("id", &labelIDs).Error; err != nil {
			return err
		}
		if len(labelIDs) > 0 {
			if err := tx.Exec("DELETE FROM task_labels WHERE label_id IN ?", labelIDs).Error; err != nil {
				return err
			}
		}

		for _, owned := range []any{&models.BoardColumn{}, &models.Sprint{}, &models.Label{}, &models.Log{}} {
			if err := tx.Where("project_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Project{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormProjectRepository) HasTasks(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Where("project_id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count tasks: %w", err)
	}
	return n > 0, nil
}

func (r *GormProjectRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where(&models.Project{Key: key}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check project key: %w", err)
	}
	return n > 0, nil
}

// AddMember links an existing user to the project. Adding a member twice is a no-op.
func (r *GormProjectRepository) AddMember(ctx context.Context, projectID uint, user *models.User) error {
	err := r.db.WithContext(ctx).
		Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING", projectID, user.ID).Error
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *GormProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint) error {
	res := r.db.WithContext(ctx).Exec("DELETE FROM project_members WHERE project_id = ? AND user_id = ?", projectID, userID)
	if res.Error != nil {
		return fmt.Errorf("remove member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProjectRepository) GetColumn(ctx context.Context, projectID, columnID uint) (*models.BoardColumn, error) {
	var c models.BoardColumn
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", columnID, projectID).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormProjectRepository) CreateSprint(ctx context.Context, sprint *models.Sprint) error {
	if err := r.db.WithContext(ctx).Create(sprint).Error; err != nil {
		return fmt.Errorf("create sprint: %w", err)
	}
	return nil
}

func (r *GormProjectRepository) GetSprint(ctx context.Context, projectID, sprintID uint) (*models.Sprint, error) {
	var s models.Sprint
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", sprintID, projectID).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormProjectRepository) ListSprints(ctx context.Context, projectID uint) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("start_date ASC, id ASC").Find(&sprints).Error
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	return sprints, nil
}

var _ ProjectRepository = (*GormProjectRepository)(nil)
