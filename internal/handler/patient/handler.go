package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/handler"
	"github.com/mindline/practice-api/internal/model"
	patientservice "github.com/mindline/practice-api/internal/service/patient"
)

type Handler struct {
	service *patientservice.Service
}

func NewHandler(service *patientservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requirePractitioner gin.HandlerFunc) {
	patients := r.Group("/patients")
	patients.GET("", h.List)
	patients.GET("/:id", h.Get)
	patients.POST("", requirePractitioner, h.Create)
	patients.PUT("/:id", requirePractitioner, h.Update)
}

func (h *Handler) Create(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.Create(c.Request.Context(), account.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) Get(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}
	practitionerID, _ := account.PractitionerID()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id, practitionerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) Update(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.Update(c.Request.Context(), id, account.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) List(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}
	practitionerID, _ := account.PractitionerID()

	patients, err := h.service.List(c.Request.Context(), practitionerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}
