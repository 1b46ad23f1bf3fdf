package services

import (
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
)

// ===== COURSE REQUESTS =====

type CreateCourseRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Description   string  `json:"description" validate:"required"`
	Image         *string `json:"image" validate:"omitempty,url,max=500"`
	DurationHours int     `json:"duration_hours" validate:"required,min=1"`
	Active        *bool   `json:"active"`
}

type UpdateCourseRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=255"`
	Description   *string `json:"description"`
	Image         *string `json:"image" validate:"omitempty,url,max=500"`
	DurationHours *int    `json:"duration_hours" validate:"omitempty,min=1"`
	Active        *bool   `json:"active"`
}

// ===== MODULE REQUESTS =====

type CreateModuleRequest struct {
	CourseID    uint   `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	// Order is assigned as the next free position when omitted
	Order *int `json:"order" validate:"omitempty,min=1"`
}

type UpdateModuleRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

// ===== LESSON REQUESTS =====

type CreateLessonRequest struct {
	ModuleID        uint              `json:"module_id" validate:"required"`
	Title           string            `json:"title" validate:"required,max=255"`
	Description     string            `json:"description"`
	Type            models.LessonType `json:"type" validate:"required,lesson_type"`
	Content         *string           `json:"content"`
	VideoURL        *string           `json:"video_url" validate:"omitempty,url,max=500"`
	DurationMinutes int               `json:"duration_minutes" validate:"required,min=1"`
	Order           *int              `json:"order" validate:"omitempty,min=1"`
}

type UpdateLessonRequest struct {
	Title           *string            `json:"title" validate:"omitempty,max=255"`
	Description     *string            `json:"description"`
	Type            *models.LessonType `json:"type" validate:"omitempty,lesson_type"`
	Content         *string            `json:"content"`
	VideoURL        *string            `json:"video_url" validate:"omitempty,url,max=500"`
	DurationMinutes *int               `json:"duration_minutes" validate:"omitempty,min=1"`
}

// ===== ORDERING REQUESTS =====

type UpdateOrderRequest struct {
	Order int `json:"order" validate:"required,min=1"`
}

type ReorderRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,required"`
}

// ===== ENROLLMENT REQUESTS =====

type EnrollRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	CourseID  uint `json:"course_id" validate:"required"`
}

// ===== USER REQUESTS =====

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	Phone    *string         `json:"phone" validate:"omitempty,max=20"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

// UpdateProfileRequest never carries email, password or role
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== RESPONSES =====

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type EligibilityResponse struct {
	StudentID uint `json:"student_id"`
	CourseID  uint `json:"course_id"`
	CanEnroll bool `json:"can_enroll"`
}

// LessonWithProgress is a lesson plus the caller's completion state for it
type LessonWithProgress struct {
	models.Lesson
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

type CoursePage = repositories.Page[*repositories.CourseWithCounts]
type StudentCoursePage = repositories.Page[*repositories.StudentCourseView]
type EnrollmentPage = repositories.Page[*models.Enrollment]
type UserPage = repositories.Page[*models.User]
