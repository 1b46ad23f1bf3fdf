package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// ModuleHandler serves the admin module endpoints
type ModuleHandler struct {
	BaseHandler
	moduleService services.ModuleService
	lessonService services.LessonService
}

func NewModuleHandler(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *ModuleHandler {
	return &ModuleHandler{
		BaseHandler:   NewBaseHandler(logger, validator),
		moduleService: serviceManager.Module(),
		lessonService: serviceManager.Lesson(),
	}
}

// CreateModule appends a module to a course, or places it at the requested order
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.CreateModuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	module, err := h.moduleService.Create(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, module)
}

// GetModule returns the module with its lessons
func (h *ModuleHandler) GetModule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	module, err := h.moduleService.GetWithLessons(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, module)
}

func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.UpdateModuleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	module, err := h.moduleService.Update(c.Request.Context(), identity, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, module)
}

// DeleteModule removes the module and closes the gap in its course
func (h *ModuleHandler) DeleteModule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting module", "module_id", id)

	if err := h.moduleService.Delete(c.Request.Context(), identity, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateModuleOrder overwrites the module's order without moving its siblings
func (h *ModuleHandler) UpdateModuleOrder(c *gin.Context) {
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

	if err := h.moduleService.UpdateOrder(c.Request.Context(), identity, id, req.Order); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Module order updated"})
}

func (h *ModuleHandler) ListModuleLessons(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	lessons, err := h.lessonService.ListByModule(c.Request.Context(), identity, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lessons)
}

func (h *ModuleHandler) NextLessonOrder(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	next, err := h.lessonService.NextOrder(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"next_order": next})
}

func (h *ModuleHandler) ReorderLessons(c *gin.Context) {
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

	lessons, err := h.lessonService.Reorder(c.Request.Context(), identity, id, req.IDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lessons)
}
