package repositories

import (
	"context"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// EnrollmentRepository interface for enrollment operations
type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	// GetByIDWithDetails includes the student, the course and progress with lessons
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error

	FindByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (*models.Enrollment, error)
	HasActiveEnrollment(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (bool, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Enrollment, error)
	GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Enrollment, error)

	Search(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	GetStats(ctx context.Context, tx *gorm.DB) (*EnrollmentStats, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)
}
