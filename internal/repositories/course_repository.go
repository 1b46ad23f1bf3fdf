package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// CourseRepository interface for course operations and catalog projections
type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Admin projections
	GetWithCounts(ctx context.Context, tx *gorm.DB, id uint) (*CourseWithCounts, error)
	Search(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*CourseWithCounts, int64, error)

	// Student projections, active courses only
	ListForStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters StudentCourseFilters) ([]*StudentCourseView, int64, error)
	GetForStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uint) (*StudentCourseView, error)
}
