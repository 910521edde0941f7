package usecase

import (
	"context"
	"encoding/json"
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

// CreateProjectInput represents the request payload for creating a project
type CreateProjectInput struct {
	Key          string             `json:"key"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      *time.Time         `json:"end_date"`
	Methodology  models.Methodology `json:"methodology"`
	Columns      []string           `json:"columns"`
	MemberIDs    []uint             `json:"member_ids"`
	CustomFields map[string]any     `json:"custom_fields"`
}

// UpdateProjectInput represents the request payload for updating a project.
// Absent fields are left untouched.
type UpdateProjectInput struct {
	Key          *string                      `json:"key"`
	Name         *string                      `json:"name"`
	Description  *string                      `json:"description"`
	StartDate    *time.Time                   `json:"start_date"`
	EndDate      patch.Field[time.Time]       `json:"end_date"`
	Methodology  *models.Methodology          `json:"methodology"`
	CustomFields patch.Field[map[string]any] `json:"custom_fields"`
}

// CreateSprintInput represents the request payload for creating a sprint
type CreateSprintInput struct {
	Name      string     `json:"name"`
	Goal      string     `json:"goal"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  bool       `json:"is_active"`
}

type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	audit    repository.AuditRepository
	authz    *policy.Authorizer
	now      func() time.Time
}

func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, audit repository.AuditRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		audit:    audit,
		authz:    policy.NewAuthorizer(projects, nil),
		now:      time.Now,
	}
}

// Create makes callerID the manager of a new project. Without explicit
// columns the project gets the default board.
func (s *ProjectService) Create(ctx context.Context, callerID uint, in CreateProjectInput) (view.ProjectView, error) {
	p := &models.Project{
		Key:          models.NormalizeProjectKey(in.Key),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Methodology:  in.Methodology,
		ManagerID:    callerID,
		CustomFields: in.CustomFields,
	}
	if p.StartDate.IsZero() {
		p.StartDate = s.now().UTC()
	}
	columns := in.Columns
	if len(columns) == 0 {
		columns = models.DefaultColumns
	}
	for i, name := range columns {
		p.Columns = append(p.Columns, models.BoardColumn{Name: strings.TrimSpace(name), OrderIndex: i})
	}
	if err := p.Validate(); err != nil {
		return view.ProjectView{}, err
	}

	taken, err := s.projects.KeyExists(ctx, p.Key)
	if err != nil {
		return view.ProjectView{}, err
	}
	if taken {
		return view.ProjectView{}, domain.ErrProjectKeyTaken
	}

	seen := map[uint]struct{}{callerID: {}}
	for _, id := range in.MemberIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return view.ProjectView{}, domain.Invalid("member_ids", "references an unknown user")
			}
			return view.ProjectView{}, err
		}
		p.Members = append(p.Members, *u)
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return view.ProjectView{}, err
	}
	if err := appendAudit(ctx, s.audit, p.ID, callerID, "project.created", map[string]any{"key": p.Key, "name": p.Name}); err != nil {
		return view.ProjectView{}, err
	}
	log.WithFields(log.Fields{"project": p.ID, "user": callerID}).Info("project created")

	return s.reload(ctx, p.ID)
}

// List returns the projects callerID manages or is a member of.
func (s *ProjectService) List(ctx context.Context, callerID uint) ([]view.ProjectView, error) {
	projects, err := s.projects.GetAll(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return view.Projects(projects), nil
}

func (s *ProjectService) Get(ctx context.Context, projectID, callerID uint) (view.ProjectView, error) {
	p, err := s.projects.GetByIDAndUser(ctx, projectID, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.ProjectView{}, domain.ErrProjectNotFound
		}
		return view.ProjectView{}, err
	}
	return view.Project(p), nil
}

// Update applies the fields present in in. Only the manager may update; the
// key is frozen once the project has tasks because task keys derive from it.
func (s *ProjectService) Update(ctx context.Context, projectID, callerID uint, in UpdateProjectInput) (view.ProjectView, error) {
	p, err := s.authz.Project(ctx, projectID, callerID, policy.ActionUpdate)
	if err != nil {
		return view.ProjectView{}, err
	}

	merged := *p
	fields := map[string]any{}
	if in.Key != nil {
		key := models.NormalizeProjectKey(*in.Key)
		if key != p.Key {
			if err := s.checkKeyChange(ctx, p.ID, key); err != nil {
				return view.ProjectView{}, err
			}
			merged.Key = key
			fields["key"] = key
		}
	}
	if in.Name != nil {
		merged.Name = strings.TrimSpace(*in.Name)
		fields["name"] = merged.Name
	}
	if in.Description != nil {
		merged.Description = *in.Description
		fields["description"] = *in.Description
	}
	if in.StartDate != nil {
		merged.StartDate = *in.StartDate
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate.Set {
		merged.EndDate = in.EndDate.Ptr()
		fields["end_date"] = in.EndDate.Column()
	}
	if in.Methodology != nil {
		merged.Methodology = *in.Methodology
		fields["methodology"] = *in.Methodology
	}
	if err := merged.Validate(); err != nil {
		return view.ProjectView{}, err
	}

	changes := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		changes[k] = v
	}
	if in.CustomFields.Set {
		// map updates bypass the json serializer, so the column is encoded here
		encoded, err := encodeCustomFields(in.CustomFields)
		if err != nil {
			return view.ProjectView{}, domain.Invalid("custom_fields", "must be a JSON object")
		}
		fields["custom_fields"] = encoded
		changes["custom_fields"] = in.CustomFields.Value
	}

	if len(fields) > 0 {
		if err := s.projects.Update(ctx, p.ID, fields); err != nil {
			return view.ProjectView{}, err
		}
		if err := appendAudit(ctx, s.audit, p.ID, callerID, "project.updated", changes); err != nil {
			return view.ProjectView{}, err
		}
		log.WithFields(log.Fields{"project": p.ID, "user": callerID}).Info("project updated")
	}
	return s.reload(ctx, p.ID)
}

func (s *ProjectService) checkKeyChange(ctx context.Context, projectID uint, key string) error {
	hasTasks, err := s.projects.HasTasks(ctx, projectID)
	if err != nil {
		return err
	}
	if hasTasks {
		return domain.Invalid("key", "cannot change once the project has tasks")
	}
	taken, err := s.projects.KeyExists(ctx, key)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrProjectKeyTaken
	}
	return nil
}

// Delete removes the project and everything it owns. Only the manager may delete.
func (s *ProjectService) Delete(ctx context.Context, projectID, callerID uint) error {
	p, err := s.authz.Project(ctx, projectID, callerID, policy.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrProjectNotFound
		}
		return err
	}
	log.WithFields(log.Fields{"project": p.ID, "key": p.Key, "user": callerID}).Info("project deleted")
	return nil
}

// AddMember grants userID read visibility into the project.
func (s *ProjectService) AddMember(ctx context.Context, projectID, callerID, userID uint) (view.ProjectView, error) {
	p, err := s.authz.Project(ctx, projectID, callerID, policy.ActionManage)
	if err != nil {
		return view.ProjectView{}, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.ProjectView{}, domain.ErrUserNotFound
		}
		return view.ProjectView{}, err
	}
	if !p.HasMember(u.ID) {
		if err := s.projects.AddMember(ctx, p.ID, u); err != nil {
			return view.ProjectView{}, err
		}
		if err := appendAudit(ctx, s.audit, p.ID, callerID, "project.member_added", map[string]any{"user_id": u.ID}); err != nil {
			return view.ProjectView{}, err
		}
	}
	return s.reload(ctx, p.ID)
}

// RemoveMember revokes userID's membership. The manager cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, callerID, userID uint) (view.ProjectView, error) {
	p, err := s.authz.Project(ctx, projectID, callerID, policy.ActionManage)
	if err != nil {
		return view.ProjectView{}, err
	}
	if userID == p.ManagerID {
		return view.ProjectView{}, domain.Invalid("user_id", "is the project manager")
	}
	if err := s.projects.RemoveMember(ctx, p.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.ProjectView{}, domain.ErrUserNotFound
		}
		return view.ProjectView{}, err
	}
	if err := appendAudit(ctx, s.audit, p.ID, callerID, "project.member_removed", map[string]any{"user_id": userID}); err != nil {
		return view.ProjectView{}, err
	}
	return s.reload(ctx, p.ID)
}

func (s *ProjectService) CreateSprint(ctx context.Context, projectID, callerID uint, in CreateSprintInput) (models.Sprint, error) {
	p, err := s.authz.Project(ctx, projectID, callerID, policy.ActionManage)
	if err != nil {
		return models.Sprint{}, err
	}
	sprint := models.Sprint{
		ProjectID: p.ID,
		Name:      strings.TrimSpace(in.Name),
		Goal:      in.Goal,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		IsActive:  in.IsActive,
	}
	if sprint.StartDate.IsZero() {
		sprint.StartDate = s.now().UTC()
	}
	if err := sprint.Validate(); err != nil {
		return models.Sprint{}, err
	}
	if err := s.projects.CreateSprint(ctx, &sprint); err != nil {
		return models.Sprint{}, err
	}
	if err := appendAudit(ctx, s.audit, p.ID, callerID, "sprint.created", map[string]any{"sprint_id": sprint.ID, "name": sprint.Name}); err != nil {
		return models.Sprint{}, err
	}
	return sprint, nil
}

func (s *ProjectService) ListSprints(ctx context.Context, projectID, callerID uint) ([]models.Sprint, error) {
	p, err := s.authz.Project(ctx, projectID, callerID, policy.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.projects.ListSprints(ctx, p.ID)
}

func encodeCustomFields(f patch.Field[map[string]any]) (any, error) {
	if f.Null {
		return nil, nil
	}
	b, err := json.Marshal(f.Value)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *ProjectService) reload(ctx context.Context, projectID uint) (view.ProjectView, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return view.ProjectView{}, err
	}
	return view.Project(p), nil
}
