package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	*Store[models.Course]
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{Store: NewStore[models.Course](db)}
}

// ===== BASIC OPERATIONS =====

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	return c.FindByID(ctx, tx, id)
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, id uint, updates map[string]interface{}) error {
	return c.UpdateByID(ctx, tx, id, updates)
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return c.DeleteByID(ctx, tx, id)
}

// ===== ADMIN PROJECTIONS =====

func (c *CoursePostgreSQL) GetWithCounts(ctx context.Context, tx *gorm.DB, id uint) (*repositories.CourseWithCounts, error) {
	course, err := c.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	counts, err := c.loadCounts(ctx, tx, []uint{id})
	if err != nil {
		return nil, err
	}

	result := counts.apply(course)
	return &result, nil
}

func (c *CoursePostgreSQL) Search(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*repositories.CourseWithCounts, int64, error) {
	var scopes []Scope
	if filters.Search != "" {
		scopes = append(scopes, courseSearch(filters.Search))
	}
	if filters.Active != nil {
		scopes = append(scopes, whereEq("courses.active", *filters.Active))
	}

	courses, total, err := c.Paginate(ctx, tx, filters.Pagination, "courses.created_at DESC, courses.id DESC", scopes...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search courses: %w", err)
	}

	ids := make([]uint, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}

	counts, err := c.loadCounts(ctx, tx, ids)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*repositories.CourseWithCounts, len(courses))
	for i, course := range courses {
		withCounts := counts.apply(course)
		result[i] = &withCounts
	}
	return result, total, nil
}

type courseCounts struct {
	modules     map[uint]int64
	enrollments map[uint]int64
}

func (cc courseCounts) apply(course *models.Course) repositories.CourseWithCounts {
	return repositories.CourseWithCounts{
		Course:           *course,
		ModulesCount:     cc.modules[course.ID],
		EnrollmentsCount: cc.enrollments[course.ID],
	}
}

type groupedCount struct {
	CourseID uint
	Total    int64
}

func (c *CoursePostgreSQL) loadCounts(ctx context.Context, tx *gorm.DB, courseIDs []uint) (courseCounts, error) {
	counts := courseCounts{modules: map[uint]int64{}, enrollments: map[uint]int64{}}
	if len(courseIDs) == 0 {
		return counts, nil
	}

	db := c.getDB(tx).WithContext(ctx)
	for table, target := range map[string]map[uint]int64{
		"modules":     counts.modules,
		"enrollments": counts.enrollments,
	} {
		var rows []groupedCount
		err := db.Table(table).
			Select("course_id, COUNT(*) AS total").
			Where("course_id IN ?", courseIDs).
			Group("course_id").
			Scan(&rows).Error
		if err != nil {
			return counts, fmt.Errorf("failed to count %s: %w", table, err)
		}
		for _, row := range rows {
			target[row.CourseID] = row.Total
		}
	}
	return counts, nil
}

// ===== STUDENT PROJECTIONS =====

// studentCourseRow is one course joined with the student's active enrollment, if any.
type studentCourseRow struct {
	ID            uint
	Title         string
	Description   string
	Image         *string
	DurationHours int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	EnrollmentID          *uint
	ProgressPercentage    *float64
	EnrolledAt            *time.Time
	EnrollmentCompletedAt *time.Time
}

func (r studentCourseRow) toView() *repositories.StudentCourseView {
	return &repositories.StudentCourseView{
		Course: models.Course{
			ID:            r.ID,
			Title:         r.Title,
			Description:   r.Description,
			Image:         r.Image,
			DurationHours: r.DurationHours,
			Active:        r.Active,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
		},
		EnrollmentID:       r.EnrollmentID,
		ProgressPercentage: r.ProgressPercentage,
		EnrolledAt:         r.EnrolledAt,
		CompletedAt:        r.EnrollmentCompletedAt,
		IsEnrolled:         r.EnrollmentID != nil,
	}
}

const studentCourseColumns = "courses.id, courses.title, courses.description, courses.image, " +
	"courses.duration_hours, courses.active, courses.created_at, courses.updated_at, " +
	"enrollments.id AS enrollment_id, enrollments.progress_percentage AS progress_percentage, " +
	"enrollments.enrolled_at AS enrolled_at, enrollments.completed_at AS enrollment_completed_at"

// studentCourseBase selects active courses left-joined with the student's active enrollment.
func (c *CoursePostgreSQL) studentCourseBase(ctx context.Context, tx *gorm.DB, studentID uint) *gorm.DB {
	return c.getDB(tx).WithContext(ctx).
		Table("courses").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.student_id = ? AND enrollments.active = ?", studentID, true).
		Where("courses.active = ?", true)
}

func (c *CoursePostgreSQL) ListForStudent(ctx context.Context, tx *gorm.DB, studentID uint, filters repositories.StudentCourseFilters) ([]*repositories.StudentCourseView, int64, error) {
	var scopes []Scope
	if filters.Search != "" {
		scopes = append(scopes, courseSearch(filters.Search))
	}
	if filters.Enrolled != nil {
		if *filters.Enrolled {
			scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("enrollments.id IS NOT NULL") })
		} else {
			scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where("enrollments.id IS NULL") })
		}
	}

	var total int64
	if err := c.studentCourseBase(ctx, tx, studentID).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count student courses: %w", err)
	}

	limit, offset := filters.LimitOffset()
	var rows []studentCourseRow
	err := c.studentCourseBase(ctx, tx, studentID).
		Scopes(scopes...).
		Select(studentCourseColumns).
		Order("courses.created_at DESC, courses.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list student courses: %w", err)
	}

	views := make([]*repositories.StudentCourseView, len(rows))
	for i, row := range rows {
		views[i] = row.toView()
	}
	return views, total, nil
}

// GetForStudent returns gorm.ErrRecordNotFound for missing and inactive courses alike.
func (c *CoursePostgreSQL) GetForStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uint) (*repositories.StudentCourseView, error) {
	var rows []studentCourseRow
	err := c.studentCourseBase(ctx, tx, studentID).
		Where("courses.id = ?", courseID).
		Select(studentCourseColumns).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get student course: %w", err)
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return rows[0].toView(), nil
}

func courseSearch(term string) Scope {
	pattern := likePattern(term)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(likeAny("courses.title", "courses.description"), pattern, pattern)
	}
}
