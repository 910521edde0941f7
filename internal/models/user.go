package models

import (
	"strings"
	"time"

	"project-tracker-api/internal/domain"
)

// Role is informational only; no permissions are derived from it.
type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
}

// TableName specifies the table name for Role Model
func (Role) TableName() string {
	return "roles"
}

// User represents a user in the system
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	FullName     string    `json:"fullName" gorm:"column:full_name;not null"`
	Avatar       string    `json:"avatar"`
	IsActive     bool      `json:"isActive" gorm:"column:is_active;default:true"`
	RoleID       *uint     `json:"roleId" gorm:"column:role_id"`
	Role         *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// Validate checks the invariants a user must satisfy before it is persisted.
func (u *User) Validate() error {
	email := strings.TrimSpace(u.Email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return domain.Invalid("email", "must be a valid address")
	}
	if u.PasswordHash == "" {
		return domain.Invalid("password", "is required")
	}
	if strings.TrimSpace(u.FullName) == "" {
		return domain.Invalid("full_name", "is required")
	}
	return nil
}
