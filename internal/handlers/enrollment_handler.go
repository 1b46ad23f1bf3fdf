package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EnrollmentHandler serves enrollment and progress endpoints for both roles.
// Ownership is enforced by the services, so students and admins share handlers.
type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
	progressService   services.ProgressService
	exportService     services.ExportService
}

func NewEnrollmentHandler(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger, validator),
		enrollmentService: serviceManager.Enrollment(),
		progressService:   serviceManager.Progress(),
		exportService:     serviceManager.Export(),
	}
}

// ===== ADMIN =====

// SearchEnrollments lists enrollments by course, student, status or free text
// @Summary Search enrollments
// @Tags admin-enrollments
// @Produce json
// @Param course_id query int false "Course ID"
// @Param student_id query int false "Student ID"
// @Param status query string false "active, completed or cancelled"
// @Param search query string false "Student name/email or course title"
// @Success 200 {object} services.EnrollmentPage
// @Router /admin/enrollments [get]
func (h *EnrollmentHandler) SearchEnrollments(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	page, err := h.enrollmentService.SearchEnrollments(c.Request.Context(), identity, h.parseEnrollmentFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *EnrollmentHandler) GetEnrollmentStats(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	stats, err := h.enrollmentService.GetEnrollmentStats(c.Request.Context(), identity)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportEnrollments downloads the filtered enrollments as an Excel workbook
// @Summary Export enrollments
// @Tags admin-enrollments
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /admin/enrollments/export [get]
func (h *EnrollmentHandler) ExportEnrollments(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	// Buffer the workbook so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.exportService.ExportEnrollments(c.Request.Context(), identity, h.parseEnrollmentFilters(c), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("enrollments-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// EnrollStudent lets an admin enroll any student
func (h *EnrollmentHandler) EnrollStudent(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	enrollment, err := h.enrollmentService.EnrollStudent(c.Request.Context(), identity, req.StudentID, req.CourseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

// RecalculateProgress reruns the percentage math for one enrollment
func (h *EnrollmentHandler) RecalculateProgress(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	enrollment, err := h.progressService.Recalculate(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// ===== SHARED =====

func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.GetEnrollment(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// CancelEnrollment deactivates the enrollment. Cancelling twice succeeds.
func (h *EnrollmentHandler) CancelEnrollment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Cancelling enrollment", "enrollment_id", id)

	if err := h.enrollmentService.CancelEnrollment(c.Request.Context(), identity, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Enrollment cancelled"})
}

// ===== STUDENT =====

func (h *EnrollmentHandler) CanEnroll(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	canEnroll, err := h.enrollmentService.CanEnroll(c.Request.Context(), identity.UserID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.EligibilityResponse{
		StudentID: identity.UserID,
		CourseID:  courseID,
		CanEnroll: canEnroll,
	})
}

// Enroll enrolls the caller in the course from the path
// @Summary Enroll in course
// @Tags student-enrollments
// @Produce json
// @Param id path uint true "Course ID"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Router /student/courses/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.EnrollStudent(c.Request.Context(), identity, identity.UserID, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) MyEnrollments(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.GetStudentEnrollments(c.Request.Context(), identity, identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// CompleteLesson marks a lesson completed and returns the updated enrollment
// @Summary Complete lesson
// @Tags student-enrollments
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Param lesson_id path uint true "Lesson ID"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /student/enrollments/{id}/lessons/{lesson_id}/complete [post]
func (h *EnrollmentHandler) CompleteLesson(c *gin.Context) {
	enrollmentID := h.parseIDParam(c, "id")
	if enrollmentID == 0 {
		return
	}
	lessonID := h.parseIDParam(c, "lesson_id")
	if lessonID == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	enrollment, err := h.progressService.MarkCompleted(c.Request.Context(), identity, enrollmentID, lessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

func (h *EnrollmentHandler) parseEnrollmentFilters(c *gin.Context) repositories.EnrollmentFilters {
	filters := repositories.EnrollmentFilters{
		CourseID:   h.parseUintQueryPtr(c, "course_id"),
		StudentID:  h.parseUintQueryPtr(c, "student_id"),
		Search:     c.Query("search"),
		Pagination: h.parsePagination(c),
	}
	if status := c.Query("status"); status != "" {
		enrollmentStatus := models.EnrollmentStatus(status)
		filters.Status = &enrollmentStatus
	}
	return filters
}
