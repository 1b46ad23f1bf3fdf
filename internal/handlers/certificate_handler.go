package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
	"github.com/SAP-F-2025/learning-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	BaseHandler
	certificateService services.CertificateService
}

func NewCertificateHandler(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *CertificateHandler {
	return &CertificateHandler{
		BaseHandler:        NewBaseHandler(logger, validator),
		certificateService: serviceManager.Certificate(),
	}
}

// IssueCertificate issues a certificate for a completed enrollment
// @Summary Issue certificate
// @Tags admin-certificates
// @Produce json
// @Param id path uint true "Enrollment ID"
// @Success 201 {object} models.Certificate
// @Failure 422 {object} ErrorResponse
// @Router /admin/enrollments/{id}/certificate [post]
func (h *CertificateHandler) IssueCertificate(c *gin.Context) {
	enrollmentID := h.parseIDParam(c, "id")
	if enrollmentID == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Issuing certificate", "enrollment_id", enrollmentID)

	certificate, err := h.certificateService.Issue(c.Request.Context(), identity, enrollmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, certificate)
}

func (h *CertificateHandler) RevokeCertificate(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.certificateService.Revoke(c.Request.Context(), identity, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Certificate revoked"})
}

func (h *CertificateHandler) MyCertificates(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	certificates, err := h.certificateService.ListForStudent(c.Request.Context(), identity, identity.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, certificates)
}

// VerifyCertificate is public: anyone holding a code can check it
func (h *CertificateHandler) VerifyCertificate(c *gin.Context) {
	certificate, err := h.certificateService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, certificate)
}
