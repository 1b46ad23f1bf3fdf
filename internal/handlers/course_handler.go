package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// CourseHandler serves the admin course endpoints
type CourseHandler struct {
	BaseHandler
	courseService     services.CourseService
	catalogService    services.CatalogService
	moduleService     services.ModuleService
	enrollmentService services.EnrollmentService
}

func NewCourseHandler(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:       NewBaseHandler(logger, validator),
		courseService:     serviceManager.Course(),
		catalogService:    serviceManager.Catalog(),
		moduleService:     serviceManager.Module(),
		enrollmentService: serviceManager.Enrollment(),
	}
}

// CreateCourse creates a new course
// @Summary Create course
// @Tags admin-courses
// @Accept json
// @Produce json
// @Param course body services.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.CreateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// ListCourses searches courses with module and enrollment counts
// @Summary List courses
// @Tags admin-courses
// @Produce json
// @Param search query string false "Title or description"
// @Param active query bool false "Active filter"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} services.CoursePage
// @Router /admin/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	filters := repositories.CourseFilters{
		Search:     c.Query("search"),
		Active:     h.parseBoolQueryPtr(c, "active"),
		Pagination: h.parsePagination(c),
	}

	page, err := h.catalogService.SearchCourses(c.Request.Context(), identity, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetCourse retrieves a course by ID
// @Summary Get course
// @Tags admin-courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse
// @Router /admin/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// GetCourseStats returns the course with module and enrollment counts
// @Summary Get course statistics
// @Tags admin-courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} repositories.CourseWithCounts
// @Failure 404 {object} ErrorResponse
// @Router /admin/courses/{id}/stats [get]
func (h *CourseHandler) GetCourseStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	stats, err := h.catalogService.GetCourseWithStats(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UpdateCourse updates course fields
// @Summary Update course
// @Tags admin-courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param course body services.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} models.Course
// @Router /admin/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course with its modules, lessons and enrollments
// @Summary Delete course
// @Tags admin-courses
// @Param id path uint true "Course ID"
// @Success 204
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.courseService.Delete(c.Request.Context(), identity, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleCourseStatus flips a course between active and inactive
// @Summary Toggle course status
// @Tags admin-courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} models.Course
// @Router /admin/courses/{id}/toggle-status [patch]
func (h *CourseHandler) ToggleCourseStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	course, err := h.courseService.ToggleStatus(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) ListCourseModules(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	modules, err := h.moduleService.ListByCourse(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, modules)
}

func (h *CourseHandler) NextModuleOrder(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	next, err := h.moduleService.NextOrder(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"next_order": next})
}

// ReorderModules assigns orders 1..N following the given module ids
func (h *CourseHandler) ReorderModules(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.ReorderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	modules, err := h.moduleService.Reorder(c.Request.Context(), identity, id, req.IDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, modules)
}

func (h *CourseHandler) ListCourseEnrollments(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.GetCourseEnrollments(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}
