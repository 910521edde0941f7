package repository

import (
	"context"
	"fmt"

	"project-tracker-api/internal/models"

	"gorm.io/gorm"
)

// GormAuditRepository appends rows to the logs table. Entries are never
// updated or deleted except by a project cascade.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Append(ctx context.Context, entry *models.Log) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

var _ AuditRepository = (*GormAuditRepository)(nil)
