package models

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusCancelled:
		return true
	}
	return false
}

// Enrollment links a student to a course. At most one row exists per (student, course).
type Enrollment struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	StudentID          uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	CourseID           uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course;index"`
	EnrolledAt         time.Time  `json:"enrolled_at" gorm:"not null"`
	CompletedAt        *time.Time `json:"completed_at"`
	ProgressPercentage float64    `json:"progress_percentage" gorm:"type:decimal(5,2);not null;default:0"`
	Active             bool       `json:"active" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student  *User      `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course   *Course    `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Progress []Progress `json:"progress,omitempty" gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) IsCompleted() bool {
	return e.CompletedAt != nil
}

func (e *Enrollment) Status() EnrollmentStatus {
	switch {
	case !e.Active:
		return EnrollmentStatusCancelled
	case e.CompletedAt != nil:
		return EnrollmentStatusCompleted
	default:
		return EnrollmentStatusActive
	}
}

// Progress records the completion of one lesson within one enrollment.
type Progress struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	EnrollmentID uint       `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson"`
	LessonID     uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_enrollment_lesson;index"`
	Completed    bool       `json:"completed" gorm:"not null"`
	CompletedAt  *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lesson *Lesson `json:"lesson,omitempty" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}

func (Progress) TableName() string {
	return "progress"
}

type Certificate struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	StudentID       uint      `json:"student_id" gorm:"not null;index"`
	CourseID        uint      `json:"course_id" gorm:"not null;index"`
	CertificateCode string    `json:"certificate_code" gorm:"uniqueIndex;not null;size:32"`
	IssuedAt        time.Time `json:"issued_at" gorm:"not null"`
	Active          bool      `json:"active" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Certificate) TableName() string {
	return "certificates"
}
