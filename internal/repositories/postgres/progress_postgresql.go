package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	*Store[models.Progress]
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{Store: NewStore[models.Progress](db)}
}

// MarkCompleted upserts on the (enrollment_id, lesson_id) unique index
func (p *ProgressPostgreSQL) MarkCompleted(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uint, at time.Time) (*models.Progress, error) {
	progress := &models.Progress{
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		Completed:    true,
		CompletedAt:  &at,
	}

	err := p.getDB(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
		}).
		Create(progress).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	return p.GetByEnrollmentAndLesson(ctx, tx, enrollmentID, lessonID)
}

func (p *ProgressPostgreSQL) GetByEnrollmentAndLesson(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uint) (*models.Progress, error) {
	return p.FindOneBy(ctx, tx, "enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID)
}

func (p *ProgressPostgreSQL) CountCompleted(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error) {
	return p.Count(ctx, tx, whereEq("enrollment_id", enrollmentID), whereEq("completed", true))
}

func (p *ProgressPostgreSQL) GetForStudentLesson(ctx context.Context, tx *gorm.DB, studentID, lessonID uint) (*models.Progress, error) {
	var progress models.Progress
	err := p.getDB(tx).WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.id = progress.enrollment_id").
		Where("enrollments.student_id = ? AND enrollments.active = ? AND progress.lesson_id = ?", studentID, true, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
