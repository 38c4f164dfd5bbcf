package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/handler"
	"github.com/mindline/practice-api/internal/model"
	appointmentservice "github.com/mindline/practice-api/internal/service/appointment"
	"github.com/mindline/practice-api/internal/service/notify"
)

type Handler struct {
	service  *appointmentservice.Service
	notifier *notify.Service
}

func NewHandler(service *appointmentservice.Service, notifier *notify.Service) *Handler {
	return &Handler{service: service, notifier: notifier}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requirePractitioner gin.HandlerFunc) {
	appointments := r.Group("/appointments")
	appointments.GET("", h.List)
	appointments.GET("/:id", h.Get)
	appointments.POST("", h.Create)
	appointments.POST("/:id/approve", requirePractitioner, h.Approve)
	appointments.POST("/:id/reject", requirePractitioner, h.Reject)
	appointments.POST("/:id/complete", requirePractitioner, h.Complete)
	appointments.POST("/:id/cancel", requirePractitioner, h.Cancel)
	appointments.POST("/:id/miss", requirePractitioner, h.MarkMissed)
}

func (h *Handler) Create(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointment, err := h.service.Create(c.Request.Context(), account, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(appointment))
}

func (h *Handler) Get(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}
	practitionerID, _ := account.PractitionerID()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), id, practitionerID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) List(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}
	practitionerID, _ := account.PractitionerID()

	filters := &model.AppointmentFilters{}
	if v := c.Query("patient_id"); v != "" {
		patientID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		filters.PatientID = patientID
	}
	if v := c.Query("status"); v != "" {
		filters.Status = model.AppointmentStatus(v)
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date"))
			return
		}
		filters.From = from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to date"))
			return
		}
		filters.To = to
	}

	appointments, err := h.service.List(c.Request.Context(), practitionerID, filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Approve(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.AppointmentActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
	}

	appointment, changed, err := h.service.Approve(c.Request.Context(), id, account.ID, req.Notes)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	// A repeated approve is a no-op; do not re-notify the patient.
	if changed {
		h.notifier.AppointmentChanged(c.Request.Context(), appointment)
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) Reject(c *gin.Context) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.RejectAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("a rejection reason is required"))
		return
	}

	appointment, err := h.service.Reject(c.Request.Context(), id, account.ID, req.Reason)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.notifier.AppointmentChanged(c.Request.Context(), appointment)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) Complete(c *gin.Context) {
	h.action(c, func(id, practitionerID uuid.UUID, notes string) (*model.Appointment, error) {
		return h.service.Complete(c.Request.Context(), id, practitionerID, notes)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.action(c, func(id, practitionerID uuid.UUID, notes string) (*model.Appointment, error) {
		return h.service.Cancel(c.Request.Context(), id, practitionerID, notes)
	})
}

func (h *Handler) MarkMissed(c *gin.Context) {
	h.action(c, func(id, practitionerID uuid.UUID, notes string) (*model.Appointment, error) {
		return h.service.MarkMissed(c.Request.Context(), id, practitionerID, notes)
	})
}

// action factors the shared shape of the status endpoints: parse id,
// bind optional notes, run the transition, notify on success.
func (h *Handler) action(c *gin.Context, fn func(id, practitionerID uuid.UUID, notes string) (*model.Appointment, error)) {
	account, ok := handler.PractitionerScope(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.AppointmentActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
	}

	appointment, err := fn(id, account.ID, req.Notes)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.notifier.AppointmentChanged(c.Request.Context(), appointment)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}
