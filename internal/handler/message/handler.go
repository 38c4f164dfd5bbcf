package message

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/handler"
	"github.com/mindline/practice-api/internal/model"
	messageservice "github.com/mindline/practice-api/internal/service/message"
)

type Handler struct {
	service *messageservice.Service
}

func NewHandler(service *messageservice.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	messages.GET("", h.List)
	messages.POST("", h.Send)
	messages.POST("/:id/read", h.MarkRead)
	messages.DELETE("/:id", h.SoftDelete)
}

func (h *Handler) Send(c *gin.Context) {
	account, ok := handler.Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	message, err := h.service.Send(c.Request.Context(), account.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(message))
}

func (h *Handler) List(c *gin.Context) {
	account, ok := handler.Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
		return
	}

	messages, err := h.service.ListFor(c.Request.Context(), account.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(messages))
}

func (h *Handler) MarkRead(c *gin.Context) {
	account, ok := handler.Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid message ID"))
		return
	}

	message, err := h.service.MarkRead(c.Request.Context(), id, account.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(message))
}

func (h *Handler) SoftDelete(c *gin.Context) {
	account, ok := handler.Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid message ID"))
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id, account.ID); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
