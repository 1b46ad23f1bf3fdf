package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"gorm.io/gorm"
)

// ProgressRepository interface for per-lesson completion records
type ProgressRepository interface {
	// MarkCompleted inserts or updates the (enrollment, lesson) row as completed at the given time
	MarkCompleted(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uint, at time.Time) (*models.Progress, error)
	GetByEnrollmentAndLesson(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uint) (*models.Progress, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error)
	// GetForStudentLesson finds the student's progress on a lesson through their active enrollment
	GetForStudentLesson(ctx context.Context, tx *gorm.DB, studentID, lessonID uint) (*models.Progress, error)
}
