package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentPostgreSQL struct {
	*Store[models.Enrollment]
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{Store: NewStore[models.Enrollment](db)}
}

// ===== BASIC OPERATIONS =====

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	return e.FindByID(ctx, tx, id)
}

// GetByIDForUpdate issues SELECT ... FOR UPDATE. SQLite ignores the locking clause
// and serialises writers on its own.
func (e *EnrollmentPostgreSQL) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	return e.FindByID(ctx, tx, id, func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	})
}

func (e *EnrollmentPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	return e.FindByID(ctx, tx, id, preload("Student", "Course", "Progress.Lesson"))
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return e.UpdateByID(ctx, tx, id, updates)
}

// ===== LOOKUPS =====

func (e *EnrollmentPostgreSQL) FindByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (*models.Enrollment, error) {
	return e.FindOneBy(ctx, tx, "student_id = ? AND course_id = ?", studentID, courseID)
}

func (e *EnrollmentPostgreSQL) HasActiveEnrollment(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (bool, error) {
	return e.Exists(ctx, tx, "student_id = ? AND course_id = ? AND active = ?", studentID, courseID, true)
}

func (e *EnrollmentPostgreSQL) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Enrollment, error) {
	return e.FindBy(ctx, tx, whereEq("student_id", studentID), preload("Course"), orderedBy("enrolled_at DESC, id DESC"))
}

func (e *EnrollmentPostgreSQL) GetByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Enrollment, error) {
	return e.FindBy(ctx, tx, whereEq("course_id", courseID), preload("Student"), orderedBy("enrolled_at DESC, id DESC"))
}

func (e *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	return e.Count(ctx, tx, whereEq("course_id", courseID))
}

// ===== SEARCH & STATS =====

func (e *EnrollmentPostgreSQL) Search(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	scopes := enrollmentFilterScopes(filters)

	const order = "enrollments.enrolled_at DESC, enrollments.id DESC"
	page, total, err := e.Paginate(ctx, tx, filters.Pagination, order, scopes...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search enrollments: %w", err)
	}

	if len(page) == 0 {
		return page, total, nil
	}

	// Relations are loaded for the page rows only, outside the joined count query.
	ids := make([]uint, len(page))
	for i, enrollment := range page {
		ids[i] = enrollment.ID
	}
	enrollments, err := e.FindBy(ctx, tx,
		func(db *gorm.DB) *gorm.DB { return db.Where("enrollments.id IN ?", ids) },
		preload("Student", "Course"),
		orderedBy(order),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load enrollment relations: %w", err)
	}
	return enrollments, total, nil
}

func enrollmentFilterScopes(filters repositories.EnrollmentFilters) []Scope {
	var scopes []Scope
	if filters.CourseID != nil {
		scopes = append(scopes, whereEq("enrollments.course_id", *filters.CourseID))
	}
	if filters.StudentID != nil {
		scopes = append(scopes, whereEq("enrollments.student_id", *filters.StudentID))
	}
	if filters.Status != nil {
		scopes = append(scopes, enrollmentStatus(*filters.Status))
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.
				Joins("JOIN users ON users.id = enrollments.student_id").
				Joins("JOIN courses ON courses.id = enrollments.course_id").
				Where(likeAny("users.name", "users.email", "courses.title"), pattern, pattern, pattern)
		})
	}
	return scopes
}

func enrollmentStatus(status models.EnrollmentStatus) Scope {
	return func(db *gorm.DB) *gorm.DB {
		switch status {
		case models.EnrollmentStatusCompleted:
			return db.Where("enrollments.active = ? AND enrollments.completed_at IS NOT NULL", true)
		case models.EnrollmentStatusCancelled:
			return db.Where("enrollments.active = ?", false)
		default:
			return db.Where("enrollments.active = ? AND enrollments.completed_at IS NULL", true)
		}
	}
}

func (e *EnrollmentPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.EnrollmentStats, error) {
	stats := &repositories.EnrollmentStats{}

	counters := []struct {
		target *int64
		scopes []Scope
	}{
		{&stats.Total, nil},
		{&stats.Active, []Scope{whereEq("active", true)}},
		{&stats.Completed, []Scope{func(db *gorm.DB) *gorm.DB { return db.Where("completed_at IS NOT NULL") }}},
		{&stats.Cancelled, []Scope{whereEq("active", false)}},
	}

	for _, counter := range counters {
		count, err := e.Count(ctx, tx, counter.scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to compute enrollment stats: %w", err)
		}
		*counter.target = count
	}
	return stats, nil
}
