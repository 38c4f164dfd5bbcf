package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindline/practice-api/internal/handler"
	"github.com/mindline/practice-api/internal/model"
	contactservice "github.com/mindline/practice-api/internal/service/contact"
)

type Handler struct {
	service *contactservice.Service
}

func NewHandler(service *contactservice.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated lead-capture form.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/contact-requests", h.Submit)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, requirePractitioner gin.HandlerFunc) {
	r.GET("/contact-requests", requirePractitioner, h.List)
}

func (h *Handler) Submit(c *gin.Context) {
	var req model.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	request, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(request))
}

func (h *Handler) List(c *gin.Context) {
	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	requests, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}
