package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// OrderedRepository maintains the dense 1..N order of rows inside a parent scope.
// The scope is the course for modules and the module for lessons.
type OrderedRepository interface {
	// NextOrder returns max(order)+1 within the scope, or 1 when the scope is empty
	NextOrder(ctx context.Context, tx *gorm.DB, scopeID uint) (int, error)
	// UpdateOrder overwrites the order of one row without shifting its siblings
	UpdateOrder(ctx context.Context, tx *gorm.DB, id uint, order int) error
	// ReorderAfterDeletion closes the gap left by a deleted row
	ReorderAfterDeletion(ctx context.Context, tx *gorm.DB, scopeID uint, deletedOrder int) error
	// Resequence assigns 1..N following orderedIDs, which must list every row of the scope
	Resequence(ctx context.Context, tx *gorm.DB, scopeID uint, orderedIDs []uint) error
}

// ModuleRepository interface for module operations
type ModuleRepository interface {
	OrderedRepository

	Create(ctx context.Context, tx *gorm.DB, module *models.Module) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Module, error)
	GetByIDWithLessons(ctx context.Context, tx *gorm.DB, id uint) (*models.Module, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Module, error)
	GetByCourseWithLessonCounts(ctx context.Context, tx *gorm.DB, courseID uint) ([]ModuleWithLessonCount, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
}
