package view

import (
	"sort"
	"time"

	"project-tracker-api/internal/models"
)

// UserView is the public shape of a user; the password hash never leaves.
type UserView struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Avatar    string    `json:"avatar"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// ColumnView is a board column with the status slug tasks in it report.
type ColumnView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	OrderIndex int    `json:"orderIndex"`
	WIPLimit   int    `json:"wipLimit"`
}

// ProjectView is the response shape of a project.
type ProjectView struct {
	ID           uint               `json:"id"`
	Key          string             `json:"key"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	StartDate    time.Time          `json:"startDate"`
	EndDate      *time.Time         `json:"endDate"`
	Methodology  models.Methodology `json:"methodology"`
	ManagerID    uint               `json:"managerId"`
	Manager      *UserSummary       `json:"manager,omitempty"`
	Members      []UserSummary      `json:"members"`
	Columns      []ColumnView       `json:"columns"`
	CustomFields map[string]any     `json:"customFields,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// CommentView is the response shape of a comment.
type CommentView struct {
	ID        uint         `json:"id"`
	TaskID    uint         `json:"taskId"`
	Author    *UserSummary `json:"author,omitempty"`
	AuthorID  uint         `json:"authorId"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
}

// SummarizeUser returns nil for a nil user.
func SummarizeUser(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Email: u.Email, DisplayName: u.FullName, AvatarURL: u.Avatar}
}

func User(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func Users(us []models.User) []UserView {
	out := make([]UserView, 0, len(us))
	for i := range us {
		out = append(out, User(&us[i]))
	}
	return out
}

// Project builds the response view of p with columns in board order.
func Project(p *models.Project) ProjectView {
	v := ProjectView{
		ID:           p.ID,
		Key:          p.Key,
		Name:         p.Name,
		Description:  p.Description,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Methodology:  p.Methodology,
		ManagerID:    p.ManagerID,
		Manager:      SummarizeUser(p.Manager),
		Members:      make([]UserSummary, 0, len(p.Members)),
		Columns:      make([]ColumnView, 0, len(p.Columns)),
		CustomFields: p.CustomFields,
		CreatedAt:    p.CreatedAt,
	}
	for i := range p.Members {
		v.Members = append(v.Members, *SummarizeUser(&p.Members[i]))
	}
	for i := range p.Columns {
		c := &p.Columns[i]
		v.Columns = append(v.Columns, ColumnView{
			ID:         c.ID,
			Name:       c.Name,
			Status:     StatusSlug(c),
			OrderIndex: c.OrderIndex,
			WIPLimit:   c.WIPLimit,
		})
	}
	sort.SliceStable(v.Columns, func(i, j int) bool {
		return v.Columns[i].OrderIndex < v.Columns[j].OrderIndex
	})
	return v
}

func Projects(ps []models.Project) []ProjectView {
	out := make([]ProjectView, 0, len(ps))
	for i := range ps {
		out = append(out, Project(&ps[i]))
	}
	return out
}

func Comment(c *models.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		TaskID:    c.TaskID,
		Author:    SummarizeUser(c.Author),
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func Comments(cs []models.Comment) []CommentView {
	out := make([]CommentView, 0, len(cs))
	for i := range cs {
		out = append(out, Comment(&cs[i]))
	}
	return out
}
