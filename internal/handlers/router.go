package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/auth"
	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	courseHandler      *CourseHandler
	moduleHandler      *ModuleHandler
	lessonHandler      *LessonHandler
	enrollmentHandler  *EnrollmentHandler
	studentHandler     *StudentHandler
	userHandler        *UserHandler
	authHandler        *AuthHandler
	certificateHandler *CertificateHandler

	resolver auth.IdentityResolver
	logger   utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	resolver auth.IdentityResolver,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		courseHandler:      NewCourseHandler(serviceManager, validator, logger),
		moduleHandler:      NewModuleHandler(serviceManager, validator, logger),
		lessonHandler:      NewLessonHandler(serviceManager.Lesson(), validator, logger),
		enrollmentHandler:  NewEnrollmentHandler(serviceManager, validator, logger),
		studentHandler:     NewStudentHandler(serviceManager, validator, logger),
		userHandler:        NewUserHandler(serviceManager, validator, logger),
		authHandler:        NewAuthHandler(serviceManager, validator, logger),
		certificateHandler: NewCertificateHandler(serviceManager, validator, logger),
		resolver:           resolver,
		logger:             logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "learning-service",
		})
	})

	requireAuth := AuthMiddleware(hm.resolver, hm.logger)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", hm.authHandler.Register)
			authGroup.POST("/login", hm.authHandler.Login)
			authGroup.POST("/logout", requireAuth, hm.authHandler.Logout)

			me := authGroup.Group("/me", requireAuth)
			me.GET("", hm.authHandler.Me)
			me.PUT("", hm.authHandler.UpdateMe)
			me.PUT("/password", hm.authHandler.ChangePassword)
		}

		// Public certificate verification
		v1.GET("/certificates/:code", hm.certificateHandler.VerifyCertificate)

		admin := v1.Group("/admin", requireAuth, RequireRole(models.RoleAdmin))
		{
			courses := admin.Group("/courses")
			{
				courses.POST("", hm.courseHandler.CreateCourse)
				courses.GET("", hm.courseHandler.ListCourses)
				courses.GET("/:id", hm.courseHandler.GetCourse)
				courses.GET("/:id/stats", hm.courseHandler.GetCourseStats)
				courses.PUT("/:id", hm.courseHandler.UpdateCourse)
				courses.DELETE("/:id", hm.courseHandler.DeleteCourse)
				courses.POST("/:id/toggle-status", hm.courseHandler.ToggleCourseStatus)

				courses.GET("/:id/modules", hm.courseHandler.ListCourseModules)
				courses.GET("/:id/modules/next-order", hm.courseHandler.NextModuleOrder)
				courses.PUT("/:id/modules/reorder", hm.courseHandler.ReorderModules)
				courses.GET("/:id/enrollments", hm.courseHandler.ListCourseEnrollments)
			}

			modules := admin.Group("/modules")
			{
				modules.POST("", hm.moduleHandler.CreateModule)
				modules.GET("/:id", hm.moduleHandler.GetModule)
				modules.PUT("/:id", hm.moduleHandler.UpdateModule)
				modules.DELETE("/:id", hm.moduleHandler.DeleteModule)
				modules.PUT("/:id/order", hm.moduleHandler.UpdateModuleOrder)

				modules.GET("/:id/lessons", hm.moduleHandler.ListModuleLessons)
				modules.GET("/:id/lessons/next-order", hm.moduleHandler.NextLessonOrder)
				modules.PUT("/:id/lessons/reorder", hm.moduleHandler.ReorderLessons)
			}

			lessons := admin.Group("/lessons")
			{
				lessons.POST("", hm.lessonHandler.CreateLesson)
				lessons.GET("/:id", hm.lessonHandler.GetLesson)
				lessons.PUT("/:id", hm.lessonHandler.UpdateLesson)
				lessons.DELETE("/:id", hm.lessonHandler.DeleteLesson)
				lessons.PUT("/:id/order", hm.lessonHandler.UpdateLessonOrder)
			}

			enrollments := admin.Group("/enrollments")
			{
				enrollments.GET("", hm.enrollmentHandler.SearchEnrollments)
				enrollments.POST("", hm.enrollmentHandler.EnrollStudent)
				enrollments.GET("/stats", hm.enrollmentHandler.GetEnrollmentStats)
				enrollments.GET("/export", hm.enrollmentHandler.ExportEnrollments)
				enrollments.GET("/:id", hm.enrollmentHandler.GetEnrollment)
				enrollments.DELETE("/:id", hm.enrollmentHandler.CancelEnrollment)
				enrollments.POST("/:id/recalculate", hm.enrollmentHandler.RecalculateProgress)
				enrollments.POST("/:id/certificate", hm.certificateHandler.IssueCertificate)
			}

			users := admin.Group("/users")
			{
				users.POST("", hm.userHandler.CreateUser)
				users.GET("", hm.userHandler.ListUsers)
				users.GET("/check-email", hm.userHandler.CheckEmail)
				users.GET("/:id", hm.userHandler.GetUser)
				users.PUT("/:id", hm.userHandler.UpdateUser)
				users.DELETE("/:id", hm.userHandler.DeleteUser)
				users.GET("/:id/enrollments", hm.userHandler.ListUserEnrollments)
				users.GET("/:id/certificates", hm.userHandler.ListUserCertificates)
			}

			admin.DELETE("/certificates/:id", hm.certificateHandler.RevokeCertificate)
		}

		student := v1.Group("/student", requireAuth, RequireRole(models.RoleStudent))
		{
			student.GET("/profile", hm.authHandler.Me)
			student.PUT("/profile", hm.authHandler.UpdateMe)
			student.PUT("/change-password", hm.authHandler.ChangePassword)

			student.GET("/courses", hm.studentHandler.ListCourses)
			student.GET("/courses/:id", hm.studentHandler.GetCourse)
			student.GET("/courses/:id/can-enroll", hm.enrollmentHandler.CanEnroll)
			student.POST("/courses/:id/enroll", hm.enrollmentHandler.Enroll)

			student.GET("/lessons/:id", hm.studentHandler.GetLesson)

			student.GET("/enrollments", hm.enrollmentHandler.MyEnrollments)
			student.GET("/enrollments/:id", hm.enrollmentHandler.GetEnrollment)
			student.DELETE("/enrollments/:id", hm.enrollmentHandler.CancelEnrollment)
			student.POST("/enrollments/:id/lessons/:lesson_id/complete", hm.enrollmentHandler.CompleteLesson)

			student.GET("/certificates", hm.certificateHandler.MyCertificates)
		}
	}
}
