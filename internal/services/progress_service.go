package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/cache"
	"github.com/SAP-F-2025/learning-service/internal/events"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type progressService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *ServiceLogger
}

func NewProgressService(deps Dependencies) ProgressService {
	return &progressService{
		repo:      deps.Repo,
		db:        deps.Repo.DB(),
		publisher: deps.Publisher,
		cache:     deps.Cache,
		logger:    deps.serviceLogger("progress"),
	}
}

// MarkCompleted records the lesson as completed and recomputes the enrollment.
// The enrollment row stays locked for the whole transaction so concurrent
// completions for the same enrollment cannot overwrite each other's percentage.
func (s *progressService) MarkCompleted(ctx context.Context, identity auth.Identity, enrollmentID, lessonID uint) (enrollment *models.Enrollment, err error) {
	op := s.logger.WithOperation(ctx, "progress.mark_completed", identity.UserID)
	defer func() { op.LogResult(enrollmentID, "enrollment", err) }()

	var justCompleted bool

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		enrollment, err = s.repo.Enrollment().GetByIDForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			return notFoundAs(err, ErrEnrollmentNotFound, "get enrollment")
		}
		if !ownsEnrollment(identity, enrollment) {
			return ErrEnrollmentAccessDenied
		}
		if !enrollment.Active {
			return ErrEnrollmentInactive
		}

		if _, err := s.repo.Lesson().GetByID(ctx, tx, lessonID); err != nil {
			return notFoundAs(err, ErrLessonNotFound, "get lesson")
		}
		inCourse, err := s.repo.Lesson().BelongsToCourse(ctx, tx, lessonID, enrollment.CourseID)
		if err != nil {
			return fmt.Errorf("failed to check lesson course: %w", err)
		}
		if !inCourse {
			return ErrLessonNotInCourse
		}

		now := time.Now()
		if _, err := s.repo.Progress().MarkCompleted(ctx, tx, enrollmentID, lessonID, now); err != nil {
			return fmt.Errorf("failed to record progress: %w", err)
		}

		justCompleted, err = s.recompute(ctx, tx, enrollment, now)
		if err != nil {
			return err
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditLessonCompleted, "enrollment", enrollmentID,
			fmt.Sprintf("Lesson %d completed", lessonID),
			map[string]interface{}{"lesson_id": lessonID, "progress_percentage": enrollment.ProgressPercentage})
	})
	if err != nil {
		return nil, err
	}

	log := s.logger.Logger()
	publish(ctx, s.publisher, log, events.EventLessonCompleted, events.LessonCompletedEvent{
		EnrollmentID:       enrollment.ID,
		StudentID:          enrollment.StudentID,
		CourseID:           enrollment.CourseID,
		LessonID:           lessonID,
		ProgressPercentage: enrollment.ProgressPercentage,
	})
	if justCompleted {
		s.courseCompleted(ctx, enrollment)
	}
	return enrollment, nil
}

// Recalculate reruns the percentage math for one enrollment. It is never
// triggered implicitly; lesson deletions leave percentages as they were.
func (s *progressService) Recalculate(ctx context.Context, identity auth.Identity, enrollmentID uint) (enrollment *models.Enrollment, err error) {
	op := s.logger.WithOperation(ctx, "progress.recalculate", identity.UserID)
	defer func() { op.LogResult(enrollmentID, "enrollment", err) }()

	if err = requireAdmin(identity, "enrollment", "recalculate", enrollmentID); err != nil {
		return nil, err
	}

	var justCompleted bool
	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		enrollment, err = s.repo.Enrollment().GetByIDForUpdate(ctx, tx, enrollmentID)
		if err != nil {
			return notFoundAs(err, ErrEnrollmentNotFound, "get enrollment")
		}

		previous := enrollment.ProgressPercentage
		justCompleted, err = s.recompute(ctx, tx, enrollment, time.Now())
		if err != nil {
			return err
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditProgressRecomputed, "enrollment", enrollmentID,
			"Progress recalculated",
			map[string]interface{}{"old_percentage": previous, "new_percentage": enrollment.ProgressPercentage})
	})
	if err != nil {
		return nil, err
	}

	if justCompleted {
		s.courseCompleted(ctx, enrollment)
	}
	return enrollment, nil
}

// recompute derives the percentage from completed progress rows over all lessons
// of the course. completed_at is set the first time every lesson is completed
// and is never cleared. It reports whether this call set completed_at.
func (s *progressService) recompute(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment, now time.Time) (bool, error) {
	total, err := s.repo.Lesson().CountByCourse(ctx, tx, enrollment.CourseID)
	if err != nil {
		return false, fmt.Errorf("failed to count course lessons: %w", err)
	}
	completed, err := s.repo.Progress().CountCompleted(ctx, tx, enrollment.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	percentage := roundPercentage(completed, total)
	updates := map[string]interface{}{"progress_percentage": percentage}

	justCompleted := false
	if courseFinished(completed, total) && enrollment.CompletedAt == nil {
		updates["completed_at"] = now
		enrollment.CompletedAt = &now
		justCompleted = true
	}

	if err := s.repo.Enrollment().Update(ctx, tx, enrollment.ID, updates); err != nil {
		return false, fmt.Errorf("failed to update enrollment progress: %w", err)
	}
	enrollment.ProgressPercentage = percentage

	return justCompleted, nil
}

func (s *progressService) courseCompleted(ctx context.Context, enrollment *models.Enrollment) {
	log := s.logger.Logger()
	log.InfoContext(ctx, "Course completed", "enrollment_id", enrollment.ID, "student_id", enrollment.StudentID, "course_id", enrollment.CourseID)

	invalidateCourseStats(ctx, s.cache, log, enrollment.CourseID)
	publish(ctx, s.publisher, log, events.EventCourseCompleted, events.CourseCompletedEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
		CompletedAt:  *enrollment.CompletedAt,
	})
}

// GetLessonWithProgress returns the lesson with the caller's completion state.
// Students only see lessons of active courses.
func (s *progressService) GetLessonWithProgress(ctx context.Context, identity auth.Identity, lessonID uint) (*LessonWithProgress, error) {
	lesson, err := s.repo.Lesson().GetByID(ctx, nil, lessonID)
	if err != nil {
		return nil, notFoundAs(err, ErrLessonNotFound, "get lesson")
	}

	if !identity.IsAdmin() {
		module, err := s.repo.Module().GetByID(ctx, nil, lesson.ModuleID)
		if err != nil {
			return nil, notFoundAs(err, ErrLessonNotFound, "get module")
		}
		course, err := s.repo.Course().GetByID(ctx, nil, module.CourseID)
		if err != nil {
			return nil, notFoundAs(err, ErrLessonNotFound, "get course")
		}
		if !course.Active {
			return nil, ErrLessonNotFound
		}
	}

	result := &LessonWithProgress{Lesson: *lesson}

	progress, err := s.repo.Progress().GetForStudentLesson(ctx, nil, identity.UserID, lessonID)
	switch {
	case err == nil:
		result.Completed = progress.Completed
		result.CompletedAt = progress.CompletedAt
	case !repositories.IsNotFoundError(err):
		return nil, fmt.Errorf("failed to get lesson progress: %w", err)
	}
	return result, nil
}
