package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// LessonRepository interface for lesson operations
type LessonRepository interface {
	OrderedRepository

	Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error)
	GetByModule(ctx context.Context, tx *gorm.DB, moduleID uint) ([]*models.Lesson, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// CountByCourse counts lessons across every module of the course
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
	BelongsToCourse(ctx context.Context, tx *gorm.DB, lessonID, courseID uint) (bool, error)
}
