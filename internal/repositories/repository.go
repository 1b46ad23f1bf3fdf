package repositories

import "gorm.io/gorm"

// Repository groups the entity repositories over one database handle.
// Services open transactions on DB() and pass the tx to each call.
type Repository interface {
	DB() *gorm.DB

	User() UserRepository
	Course() CourseRepository
	Module() ModuleRepository
	Lesson() LessonRepository
	Enrollment() EnrollmentRepository
	Progress() ProgressRepository
	Certificate() CertificateRepository
	Audit() AuditRepository
}
