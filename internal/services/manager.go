package services

import "github.com/SAP-F-2025/learning-service/internal/auth"

// ServiceManager exposes every service built over one set of dependencies
type ServiceManager interface {
	Course() CourseService
	Catalog() CatalogService
	Module() ModuleService
	Lesson() LessonService
	Enrollment() EnrollmentService
	Progress() ProgressService
	User() UserService
	Auth() AuthService
	Certificate() CertificateService
	Export() ExportService
}

type serviceManager struct {
	course      CourseService
	catalog     CatalogService
	module      ModuleService
	lesson      LessonService
	enrollment  EnrollmentService
	progress    ProgressService
	user        UserService
	auth        AuthService
	certificate CertificateService
	export      ExportService
}

func NewServiceManager(deps Dependencies, tokens *auth.JWTService) ServiceManager {
	return &serviceManager{
		course:      NewCourseService(deps),
		catalog:     NewCatalogService(deps),
		module:      NewModuleService(deps),
		lesson:      NewLessonService(deps),
		enrollment:  NewEnrollmentService(deps),
		progress:    NewProgressService(deps),
		user:        NewUserService(deps),
		auth:        NewAuthService(deps, tokens),
		certificate: NewCertificateService(deps),
		export:      NewExportService(deps),
	}
}

func (m *serviceManager) Course() CourseService           { return m.course }
func (m *serviceManager) Catalog() CatalogService         { return m.catalog }
func (m *serviceManager) Module() ModuleService           { return m.module }
func (m *serviceManager) Lesson() LessonService           { return m.lesson }
func (m *serviceManager) Enrollment() EnrollmentService   { return m.enrollment }
func (m *serviceManager) Progress() ProgressService       { return m.progress }
func (m *serviceManager) User() UserService               { return m.user }
func (m *serviceManager) Auth() AuthService               { return m.auth }
func (m *serviceManager) Certificate() CertificateService { return m.certificate }
func (m *serviceManager) Export() ExportService           { return m.export }
