package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// Every operation receives the caller's identity explicitly. Admin-only
// operations reject students with a PermissionError.

type CourseService interface {
	Create(ctx context.Context, identity auth.Identity, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Course, error)
	Update(ctx context.Context, identity auth.Identity, id uint, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, identity auth.Identity, id uint) error
	ToggleStatus(ctx context.Context, identity auth.Identity, id uint) (*models.Course, error)
}

type CatalogService interface {
	// Admin projection
	GetCourseWithStats(ctx context.Context, identity auth.Identity, courseID uint) (*repositories.CourseWithCounts, error)
	SearchCourses(ctx context.Context, identity auth.Identity, filters repositories.CourseFilters) (*CoursePage, error)

	// Student projection
	ListCoursesForStudent(ctx context.Context, identity auth.Identity, filters repositories.StudentCourseFilters) (*StudentCoursePage, error)
	GetCourseForStudent(ctx context.Context, identity auth.Identity, courseID uint) (*repositories.StudentCourseDetail, error)
}

type ModuleService interface {
	Create(ctx context.Context, identity auth.Identity, req *CreateModuleRequest) (*models.Module, error)
	GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Module, error)
	GetWithLessons(ctx context.Context, identity auth.Identity, id uint) (*models.Module, error)
	ListByCourse(ctx context.Context, identity auth.Identity, courseID uint) ([]*models.Module, error)
	Update(ctx context.Context, identity auth.Identity, id uint, req *UpdateModuleRequest) (*models.Module, error)
	Delete(ctx context.Context, identity auth.Identity, id uint) error

	NextOrder(ctx context.Context, courseID uint) (int, error)
	UpdateOrder(ctx context.Context, identity auth.Identity, id uint, order int) error
	Reorder(ctx context.Context, identity auth.Identity, courseID uint, moduleIDs []uint) ([]*models.Module, error)
}

type LessonService interface {
	Create(ctx context.Context, identity auth.Identity, req *CreateLessonRequest) (*models.Lesson, error)
	GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Lesson, error)
	ListByModule(ctx context.Context, identity auth.Identity, moduleID uint) ([]*models.Lesson, error)
	Update(ctx context.Context, identity auth.Identity, id uint, req *UpdateLessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, identity auth.Identity, id uint) error

	NextOrder(ctx context.Context, moduleID uint) (int, error)
	UpdateOrder(ctx context.Context, identity auth.Identity, id uint, order int) error
	Reorder(ctx context.Context, identity auth.Identity, moduleID uint, lessonIDs []uint) ([]*models.Lesson, error)
}

type EnrollmentService interface {
	CanEnroll(ctx context.Context, studentID, courseID uint) (bool, error)
	EnrollStudent(ctx context.Context, identity auth.Identity, studentID, courseID uint) (*models.Enrollment, error)
	CancelEnrollment(ctx context.Context, identity auth.Identity, enrollmentID uint) error

	GetEnrollment(ctx context.Context, identity auth.Identity, enrollmentID uint) (*models.Enrollment, error)
	GetStudentEnrollments(ctx context.Context, identity auth.Identity, studentID uint) ([]*models.Enrollment, error)
	GetCourseEnrollments(ctx context.Context, identity auth.Identity, courseID uint) ([]*models.Enrollment, error)
	FindByStudentAndCourse(ctx context.Context, identity auth.Identity, studentID, courseID uint) (*models.Enrollment, error)
	SearchEnrollments(ctx context.Context, identity auth.Identity, filters repositories.EnrollmentFilters) (*EnrollmentPage, error)
	GetEnrollmentStats(ctx context.Context, identity auth.Identity) (*repositories.EnrollmentStats, error)
}

type ProgressService interface {
	MarkCompleted(ctx context.Context, identity auth.Identity, enrollmentID, lessonID uint) (*models.Enrollment, error)
	Recalculate(ctx context.Context, identity auth.Identity, enrollmentID uint) (*models.Enrollment, error)
	GetLessonWithProgress(ctx context.Context, identity auth.Identity, lessonID uint) (*LessonWithProgress, error)
}

type UserService interface {
	Create(ctx context.Context, identity auth.Identity, req *CreateUserRequest) (*models.User, error)
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, identity auth.Identity, id uint, req *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, identity auth.Identity, req *ChangePasswordRequest) error
	Delete(ctx context.Context, identity auth.Identity, id uint) error
	Search(ctx context.Context, identity auth.Identity, filters repositories.UserFilters) (*UserPage, error)
	IsEmailAvailable(ctx context.Context, email string, excludeID *uint) (bool, error)
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, identity auth.Identity) (*models.User, error)
	Logout(ctx context.Context, identity auth.Identity, token string) error
}

type CertificateService interface {
	Issue(ctx context.Context, identity auth.Identity, enrollmentID uint) (*models.Certificate, error)
	Revoke(ctx context.Context, identity auth.Identity, certificateID uint) error
	GetByCode(ctx context.Context, code string) (*models.Certificate, error)
	ListForStudent(ctx context.Context, identity auth.Identity, studentID uint) ([]*models.Certificate, error)
}

type ExportService interface {
	ExportEnrollments(ctx context.Context, identity auth.Identity, filters repositories.EnrollmentFilters, w io.Writer) error
}
