package models

import (
	"strings"
	"time"

	"project-tracker-api/internal/domain"
)

// Comment is an append-only remark on a task
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"taskId" gorm:"column:task_id;not null;index"`
	AuthorID  uint      `json:"authorId" gorm:"column:author_id;not null"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Comment Model
func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return domain.Invalid("content", "is required")
	}
	if c.TaskID == 0 || c.AuthorID == 0 {
		return domain.Invalid("comment", "needs a task and an author")
	}
	return nil
}

// Label tags tasks within a project
type Label struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProjectID uint   `json:"projectId" gorm:"column:project_id;not null;index"`
	Name      string `json:"name" gorm:"not null"`
	Color     string `json:"color"`
}

// TableName specifies the table name for Label Model
func (Label) TableName() string {
	return "labels"
}

func (l *Label) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return domain.Invalid("name", "is required")
	}
	return nil
}

// NotificationType represents the kind of event a notification describes
type NotificationType string

const (
	NotificationTaskAssigned        NotificationType = "TASK_ASSIGNED"
	NotificationCommentAdded        NotificationType = "COMMENT_ADDED"
	NotificationDeadlineApproaching NotificationType = "DEADLINE_APPROACHING"
	NotificationProjectUpdate       NotificationType = "PROJECT_UPDATE"
)

// Notification is a message addressed to a user. Delivery is out of scope.
type Notification struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	UserID          uint             `json:"userId" gorm:"column:user_id;not null;index"`
	Message         string           `json:"message" gorm:"not null"`
	Type            NotificationType `json:"type" gorm:"not null"`
	IsRead          bool             `json:"isRead" gorm:"column:is_read"`
	RelatedEntityID *uint            `json:"relatedEntityId" gorm:"column:related_entity_id"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// TableName specifies the table name for Notification Model
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) Validate() error {
	switch n.Type {
	case NotificationTaskAssigned, NotificationCommentAdded, NotificationDeadlineApproaching, NotificationProjectUpdate:
	default:
		return domain.Invalid("type", "is not a known notification type")
	}
	if n.UserID == 0 {
		return domain.Invalid("user_id", "is required")
	}
	return nil
}

// Log is an append-only audit entry for a project
type Log struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ProjectID uint           `json:"projectId" gorm:"column:project_id;not null;index"`
	UserID    *uint          `json:"userId" gorm:"column:user_id"`
	Action    string         `json:"action" gorm:"not null"`
	Changes   map[string]any `json:"changes" gorm:"serializer:json"`
	CreatedAt time.Time      `json:"timestamp"`
}

// TableName specifies the table name for Log Model
func (Log) TableName() string {
	return "logs"
}

// File is attachment metadata owned by a task. Content storage is external.
type File struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TaskID     uint      `json:"taskId" gorm:"column:task_id;not null;index"`
	UploaderID uint      `json:"uploaderId" gorm:"column:uploader_id;not null"`
	FileName   string    `json:"fileName" gorm:"column:file_name;not null"`
	URL        string    `json:"url" gorm:"not null"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name for File Model
func (File) TableName() string {
	return "files"
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&Project{},
		&BoardColumn{},
		&Sprint{},
		&Label{},
		&Task{},
		&Comment{},
		&File{},
		&Notification{},
		&Log{},
	}
}
