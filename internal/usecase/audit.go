package usecase

import (
	"context"

	"project-tracker-api/internal/models"
	"project-tracker-api/internal/repository"
)

func appendAudit(ctx context.Context, audit repository.AuditRepository, projectID, userID uint, action string, changes map[string]any) error {
	entry := &models.Log{ProjectID: projectID, Action: action, Changes: changes}
	if userID != 0 {
		entry.UserID = &userID
	}
	return audit.Append(ctx, entry)
}
