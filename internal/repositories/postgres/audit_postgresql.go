package postgres

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type AuditPostgreSQL struct {
	*Store[models.AuditLog]
}

func NewAuditPostgreSQL(db *gorm.DB) repositories.AuditRepository {
	return &AuditPostgreSQL{Store: NewStore[models.AuditLog](db)}
}

func (a *AuditPostgreSQL) GetByTarget(ctx context.Context, tx *gorm.DB, targetType string, targetID uint) ([]*models.AuditLog, error) {
	return a.FindBy(ctx, tx,
		whereEq("target_type", targetType),
		whereEq("target_id", targetID),
		orderedBy("created_at ASC, id ASC"),
	)
}
