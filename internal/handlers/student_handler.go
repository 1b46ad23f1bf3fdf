package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/repositories"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// StudentHandler serves the student catalog. Inactive courses are invisible here.
type StudentHandler struct {
	BaseHandler
	catalogService  services.CatalogService
	progressService services.ProgressService
}

func NewStudentHandler(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *StudentHandler {
	return &StudentHandler{
		BaseHandler:     NewBaseHandler(logger, validator),
		catalogService:  serviceManager.Catalog(),
		progressService: serviceManager.Progress(),
	}
}

// ListCourses lists active courses with the caller's enrollment state
// @Summary List courses for student
// @Tags student-courses
// @Produce json
// @Param search query string false "Title or description"
// @Param enrolled query bool false "Only enrolled (true) or not enrolled (false)"
// @Success 200 {object} services.StudentCoursePage
// @Router /student/courses [get]
func (h *StudentHandler) ListCourses(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	filters := repositories.StudentCourseFilters{
		Search:     c.Query("search"),
		Enrolled:   h.parseBoolQueryPtr(c, "enrolled"),
		Pagination: h.parsePagination(c),
	}

	page, err := h.catalogService.ListCoursesForStudent(c.Request.Context(), identity, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *StudentHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	course, err := h.catalogService.GetCourseForStudent(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *StudentHandler) GetLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	lesson, err := h.progressService.GetLessonWithProgress(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}
