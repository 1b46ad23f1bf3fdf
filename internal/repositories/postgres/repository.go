package postgres

import (
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db          *gorm.DB
	user        repositories.UserRepository
	course      repositories.CourseRepository
	module      repositories.ModuleRepository
	lesson      repositories.LessonRepository
	enrollment  repositories.EnrollmentRepository
	progress    repositories.ProgressRepository
	certificate repositories.CertificateRepository
	audit       repositories.AuditRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:          db,
		user:        NewUserPostgreSQL(db),
		course:      NewCoursePostgreSQL(db),
		module:      NewModulePostgreSQL(db),
		lesson:      NewLessonPostgreSQL(db),
		enrollment:  NewEnrollmentPostgreSQL(db),
		progress:    NewProgressPostgreSQL(db),
		certificate: NewCertificatePostgreSQL(db),
		audit:       NewAuditPostgreSQL(db),
	}
}

func (r *repository) DB() *gorm.DB                                    { return r.db }
func (r *repository) User() repositories.UserRepository               { return r.user }
func (r *repository) Course() repositories.CourseRepository           { return r.course }
func (r *repository) Module() repositories.ModuleRepository           { return r.module }
func (r *repository) Lesson() repositories.LessonRepository           { return r.lesson }
func (r *repository) Enrollment() repositories.EnrollmentRepository   { return r.enrollment }
func (r *repository) Progress() repositories.ProgressRepository       { return r.progress }
func (r *repository) Certificate() repositories.CertificateRepository { return r.certificate }
func (r *repository) Audit() repositories.AuditRepository             { return r.audit }
