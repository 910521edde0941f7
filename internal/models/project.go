package models

import (
	"regexp"
	"strings"
	"time"

	"project-tracker-api/internal/domain"
)

// Methodology is the delivery process a project follows
type Methodology string

const (
	MethodologyScrum     Methodology = "SCRUM"
	MethodologyKanban    Methodology = "KANBAN"
	MethodologyWaterfall Methodology = "WATERFALL"
)

// Valid reports whether m is one of the known methodologies.
func (m Methodology) Valid() bool {
	switch m {
	case MethodologyScrum, MethodologyKanban, MethodologyWaterfall:
		return true
	}
	return false
}

var projectKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)

// DefaultColumns is the board given to a project created without columns.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

// Project represents a project in the system.
// The manager is implicitly a member for visibility purposes.
type Project struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Key          string         `json:"key" gorm:"uniqueIndex;size:10;not null"`
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description"`
	StartDate    time.Time      `json:"startDate" gorm:"column:start_date"`
	EndDate      *time.Time     `json:"endDate" gorm:"column:end_date"`
	Methodology  Methodology    `json:"methodology" gorm:"not null"`
	ManagerID    uint           `json:"managerId" gorm:"column:manager_id;not null;index"`
	Manager      *User          `json:"-" gorm:"foreignKey:ManagerID"`
	Members      []User         `json:"-" gorm:"many2many:project_members"`
	Columns      []BoardColumn  `json:"columns" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Sprints      []Sprint       `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CustomFields map[string]any `json:"customFields" gorm:"column:custom_fields;serializer:json"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}

// HasMember reports whether userID manages the project or is in its member set.
func (p *Project) HasMember(userID uint) bool {
	if p.ManagerID == userID {
		return true
	}
	for _, m := range p.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// NormalizeProjectKey upper-cases and trims a user supplied key.
func NormalizeProjectKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Validate checks the invariants a project must satisfy before it is persisted.
func (p *Project) Validate() error {
	if !projectKeyPattern.MatchString(p.Key) {
		return domain.Invalid("key", "must be 2-10 upper-case letters or digits starting with a letter")
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name", "is required")
	}
	if !p.Methodology.Valid() {
		return domain.Invalid("methodology", "must be SCRUM, KANBAN or WATERFALL")
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return domain.Invalid("end_date", "must not be before start_date")
	}
	seen := make(map[int]struct{}, len(p.Columns))
	for i := range p.Columns {
		if err := p.Columns[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Columns[i].OrderIndex]; dup {
			return domain.Invalid("columns", "order index must be unique within a project")
		}
		seen[p.Columns[i].OrderIndex] = struct{}{}
	}
	return nil
}

// BoardColumn is a named lane on a project board.
// OrderIndex defines the left-to-right position; WIPLimit 0 means unlimited.
type BoardColumn struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ProjectID  uint   `json:"projectId" gorm:"column:project_id;not null;uniqueIndex:idx_column_order"`
	Name       string `json:"name" gorm:"size:50;not null"`
	OrderIndex int    `json:"orderIndex" gorm:"column:order_index;not null;uniqueIndex:idx_column_order"`
	WIPLimit   int    `json:"wipLimit" gorm:"column:wip_limit;default:0"`
}

// TableName specifies the table name for BoardColumn Model
func (BoardColumn) TableName() string {
	return "board_columns"
}

func (c *BoardColumn) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return domain.Invalid("column.name", "is required")
	}
	if c.OrderIndex < 0 {
		return domain.Invalid("column.order_index", "must not be negative")
	}
	if c.WIPLimit < 0 {
		return domain.Invalid("column.wip_limit", "must not be negative")
	}
	return nil
}

// Sprint is a time-boxed iteration within a project
type Sprint struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ProjectID uint       `json:"projectId" gorm:"column:project_id;not null;index"`
	Name      string     `json:"name" gorm:"not null"`
	Goal      string     `json:"goal"`
	StartDate time.Time  `json:"startDate" gorm:"column:start_date"`
	EndDate   *time.Time `json:"endDate" gorm:"column:end_date"`
	IsActive  bool       `json:"isActive" gorm:"column:is_active"`
}

// TableName specifies the table name for Sprint Model
func (Sprint) TableName() string {
	return "sprints"
}

func (s *Sprint) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return domain.Invalid("name", "is required")
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate) {
		return domain.Invalid("end_date", "must not be before start_date")
	}
	return nil
}
