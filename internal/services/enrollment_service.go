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

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	publisher events.EventPublisher
	cache     cache.CacheService
	cacheTTL  time.Duration
	logger    *ServiceLogger
}

func NewEnrollmentService(deps Dependencies) EnrollmentService {
	return &enrollmentService{
		repo:      deps.Repo,
		db:        deps.Repo.DB(),
		publisher: deps.Publisher,
		cache:     deps.Cache,
		cacheTTL:  deps.CacheTTL,
		logger:    deps.serviceLogger("enrollment"),
	}
}

// ===== ADMISSION =====

// CanEnroll reports whether the user is a student, the course exists and is
// active, and the student has no active enrollment in it.
func (s *enrollmentService) CanEnroll(ctx context.Context, studentID, courseID uint) (bool, error) {
	return s.canEnroll(ctx, nil, studentID, courseID)
}

func (s *enrollmentService) canEnroll(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (bool, error) {
	isStudent, err := s.repo.User().HasRole(ctx, tx, studentID, models.RoleStudent)
	if err != nil {
		return false, fmt.Errorf("failed to check student role: %w", err)
	}
	if !isStudent {
		return false, nil
	}

	course, err := s.repo.Course().GetByID(ctx, tx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get course: %w", err)
	}
	if !course.Active {
		return false, nil
	}

	enrolled, err := s.repo.Enrollment().HasActiveEnrollment(ctx, tx, studentID, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return !enrolled, nil
}

// EnrollStudent re-checks admission inside the transaction. The unique
// (student_id, course_id) index has the final word: a duplicate insert is
// reported as ErrCannotEnroll as well.
func (s *enrollmentService) EnrollStudent(ctx context.Context, identity auth.Identity, studentID, courseID uint) (enrollment *models.Enrollment, err error) {
	op := s.logger.WithOperation(ctx, "enrollment.create", identity.UserID)
	defer func() { op.LogResult(courseID, "course", err) }()

	if err = requireSelfOrAdmin(identity, studentID, "enrollment", "create"); err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *gorm.DB) error {
		ok, err := s.canEnroll(ctx, tx, studentID, courseID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCannotEnroll
		}

		enrollment = &models.Enrollment{
			StudentID:          studentID,
			CourseID:           courseID,
			EnrolledAt:         time.Now(),
			ProgressPercentage: 0,
			Active:             true,
		}
		if err := s.repo.Enrollment().Create(ctx, tx, enrollment); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrCannotEnroll
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditEnrollmentCreated, "enrollment", enrollment.ID,
			fmt.Sprintf("Student %d enrolled in course %d", studentID, courseID), nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Logger().InfoContext(ctx, "Student enrolled", "enrollment_id", enrollment.ID, "student_id", studentID, "course_id", courseID)

	invalidateCourseStats(ctx, s.cache, s.logger.Logger(), courseID)
	publish(ctx, s.publisher, s.logger.Logger(), events.EventEnrollmentCreated, events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    studentID,
		CourseID:     courseID,
		OccurredAt:   enrollment.EnrolledAt,
	})
	return enrollment, nil
}

// CancelEnrollment deactivates the enrollment. Cancelling twice is a no-op.
func (s *enrollmentService) CancelEnrollment(ctx context.Context, identity auth.Identity, enrollmentID uint) (err error) {
	op := s.logger.WithOperation(ctx, "enrollment.cancel", identity.UserID)
	defer func() { op.LogResult(enrollmentID, "enrollment", err) }()

	var enrollment *models.Enrollment
	changed := false

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
			return nil
		}

		if err := s.repo.Enrollment().Update(ctx, tx, enrollmentID, map[string]interface{}{"active": false}); err != nil {
			return fmt.Errorf("failed to cancel enrollment: %w", err)
		}
		changed = true

		return recordAudit(ctx, tx, s.repo.Audit(), identity, models.AuditEnrollmentCancelled, "enrollment", enrollmentID,
			fmt.Sprintf("Enrollment of student %d in course %d cancelled", enrollment.StudentID, enrollment.CourseID), nil)
	})
	if err != nil || !changed {
		return err
	}

	invalidateCourseStats(ctx, s.cache, s.logger.Logger(), enrollment.CourseID)
	publish(ctx, s.publisher, s.logger.Logger(), events.EventEnrollmentCancelled, events.EnrollmentEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
		OccurredAt:   time.Now(),
	})
	return nil
}

// ===== READS =====

func (s *enrollmentService) GetEnrollment(ctx context.Context, identity auth.Identity, enrollmentID uint) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByIDWithDetails(ctx, nil, enrollmentID)
	if err != nil {
		return nil, notFoundAs(err, ErrEnrollmentNotFound, "get enrollment")
	}
	if !ownsEnrollment(identity, enrollment) {
		return nil, ErrEnrollmentAccessDenied
	}
	return enrollment, nil
}

func (s *enrollmentService) GetStudentEnrollments(ctx context.Context, identity auth.Identity, studentID uint) ([]*models.Enrollment, error) {
	if err := requireSelfOrAdmin(identity, studentID, "enrollment", "list"); err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment().GetByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) GetCourseEnrollments(ctx context.Context, identity auth.Identity, courseID uint) ([]*models.Enrollment, error) {
	if err := requireAdmin(identity, "enrollment", "list", courseID); err != nil {
		return nil, err
	}

	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		return nil, notFoundAs(err, ErrCourseNotFound, "get course")
	}

	enrollments, err := s.repo.Enrollment().GetByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentService) FindByStudentAndCourse(ctx context.Context, identity auth.Identity, studentID, courseID uint) (*models.Enrollment, error) {
	if err := requireSelfOrAdmin(identity, studentID, "enrollment", "read"); err != nil {
		return nil, err
	}

	enrollment, err := s.repo.Enrollment().FindByStudentAndCourse(ctx, nil, studentID, courseID)
	if err != nil {
		return nil, notFoundAs(err, ErrEnrollmentNotFound, "find enrollment")
	}
	return enrollment, nil
}

func (s *enrollmentService) SearchEnrollments(ctx context.Context, identity auth.Identity, filters repositories.EnrollmentFilters) (*EnrollmentPage, error) {
	if err := requireAdmin(identity, "enrollment", "search", 0); err != nil {
		return nil, err
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, NewValidationError("status", "Status must be one of active, completed, cancelled", *filters.Status)
	}

	enrollments, total, err := s.repo.Enrollment().Search(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search enrollments: %w", err)
	}
	return repositories.NewPage(enrollments, total, filters.Pagination), nil
}

func (s *enrollmentService) GetEnrollmentStats(ctx context.Context, identity auth.Identity) (*repositories.EnrollmentStats, error) {
	if err := requireAdmin(identity, "enrollment", "stats", 0); err != nil {
		return nil, err
	}

	var stats repositories.EnrollmentStats
	if err := s.cache.Get(ctx, cache.EnrollmentStatsKey, &stats); err == nil {
		return &stats, nil
	}

	fresh, err := s.repo.Enrollment().GetStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment stats: %w", err)
	}
	if err := s.cache.Set(ctx, cache.EnrollmentStatsKey, fresh, s.cacheTTL); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to cache enrollment stats", "error", err)
	}
	return fresh, nil
}
