package consent

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/handler"
	"github.com/mindline/practice-api/internal/model"
	consentservice "github.com/mindline/practice-api/internal/service/consent"
)

type Handler struct {
	service *consentservice.Service
}

func NewHandler(service *consentservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requirePractitioner gin.HandlerFunc) {
	forms := r.Group("/consent-forms")
	forms.GET("", h.ListTemplates)
	forms.GET("/:id", h.GetTemplate)
	forms.POST("", requirePractitioner, h.CreateTemplate)
	forms.PUT("/:id", requirePractitioner, h.UpdateTemplate)
	forms.POST("/:id/sign", h.Sign)

	r.GET("/patient-consents", h.ListSigned)
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	var req model.CreateConsentTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	template, err := h.service.CreateTemplate(c.Request.Context(), account.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(template))
}

func (h *Handler) GetTemplate(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}
	practitionerID, _ := account.PractitionerID()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid template ID"))
		return
	}

	template, err := h.service.GetTemplate(c.Request.Context(), id, practitionerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(template))
}

func (h *Handler) UpdateTemplate(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid template ID"))
		return
	}

	var req model.UpdateConsentTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	template, err := h.service.UpdateTemplate(c.Request.Context(), id, account.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(template))
}

func (h *Handler) ListTemplates(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}
	practitionerID, _ := account.PractitionerID()

	templates, err := h.service.ListTemplates(c.Request.Context(), practitionerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(templates))
}

func (h *Handler) Sign(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid template ID"))
		return
	}

	var req model.SignConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// Clients may only sign for their own patient record.
	if !account.IsPractitioner() {
		if account.LinkedPatientID == nil || *account.LinkedPatientID != req.PatientID {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("clients may only sign for their own patient record"))
			return
		}
	}

	signed, err := h.service.Sign(c.Request.Context(), templateID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(signed))
}

func (h *Handler) ListSigned(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}
	practitionerID, _ := account.PractitionerID()

	signed, err := h.service.ListSigned(c.Request.Context(), practitionerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(signed))
}
