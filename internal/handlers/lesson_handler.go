package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// LessonHandler serves the admin lesson endpoints
type LessonHandler struct {
	BaseHandler
	lessonService services.LessonService
}

func NewLessonHandler(
	lessonService services.LessonService,
	validator *validator.Validator,
	logger utils.Logger,
) *LessonHandler {
	return &LessonHandler{
		BaseHandler:   NewBaseHandler(logger, validator),
		lessonService: lessonService,
	}
}

// CreateLesson creates a video or text lesson
// @Summary Create lesson
// @Description Video lessons require video_url, text lessons require content
// @Tags admin-lessons
// @Accept json
// @Produce json
// @Param lesson body services.CreateLessonRequest true "Lesson data"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} ErrorResponse
// @Router /admin/lessons [post]
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.CreateLessonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lesson, err := h.lessonService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

func (h *LessonHandler) GetLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	lesson, err := h.lessonService.GetByID(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.UpdateLessonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lesson, err := h.lessonService.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.lessonService.Delete(c.Request.Context(), identity, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *LessonHandler) UpdateLessonOrder(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.lessonService.UpdateOrder(c.Request.Context(), identity, id, req.Order); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Lesson order updated"})
}
