package repositories

import (
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
)

const DefaultPerPage = 15

// ===== PAGINATION =====

type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// LimitOffset returns the clamped limit and offset for the page.
func (p Pagination) LimitOffset() (int, int) {
	page, perPage := p.Page, p.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > 100 {
		perPage = 100
	}
	return perPage, (page - 1) * perPage
}

type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

func NewPage[T any](data []T, total int64, p Pagination) *Page[T] {
	limit, offset := p.LimitOffset()
	lastPage := int((total + int64(limit) - 1) / int64(limit))
	if lastPage < 1 {
		lastPage = 1
	}
	if data == nil {
		data = []T{}
	}
	return &Page[T]{
		Data:        data,
		Total:       total,
		CurrentPage: offset/limit + 1,
		PerPage:     limit,
		LastPage:    lastPage,
	}
}

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Search string `json:"search"`
	Active *bool  `json:"active"`
	Pagination
}

type StudentCourseFilters struct {
	Search   string `json:"search"`
	Enrolled *bool  `json:"enrolled"`
	Pagination
}

type EnrollmentFilters struct {
	CourseID  *uint                    `json:"course_id"`
	StudentID *uint                    `json:"student_id"`
	Status    *models.EnrollmentStatus `json:"status"`
	Search    string                   `json:"search"` // student name/email or course title
	Pagination
}

type UserFilters struct {
	Search string           `json:"search"`
	Role   *models.UserRole `json:"role"`
	Pagination
}

// ===== READ PROJECTIONS =====

type CourseWithCounts struct {
	models.Course
	ModulesCount     int64 `json:"modules_count"`
	EnrollmentsCount int64 `json:"enrollments_count"`
}

// StudentCourseView is a course as seen by one student. The enrollment fields are
// nil when the student has no active enrollment in the course.
type StudentCourseView struct {
	models.Course
	EnrollmentID       *uint      `json:"enrollment_id"`
	ProgressPercentage *float64   `json:"progress_percentage"`
	EnrolledAt         *time.Time `json:"enrolled_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsEnrolled         bool       `json:"is_enrolled"`
}

type ModuleWithLessonCount struct {
	models.Module
	LessonsCount int64 `json:"lessons_count"`
}

type StudentCourseDetail struct {
	StudentCourseView
	Modules []ModuleWithLessonCount `json:"modules"`
}

// ===== SHARED STATISTICS STRUCTS =====

type EnrollmentStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}
