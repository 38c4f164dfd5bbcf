package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindline/practice-api/internal/handler"
	"github.com/mindline/practice-api/internal/middleware"
	"github.com/mindline/practice-api/internal/model"
	accountservice "github.com/mindline/practice-api/internal/service/account"
	authservice "github.com/mindline/practice-api/internal/service/auth"
)

type Handler struct {
	authSvc      *authservice.Service
	accountSvc   *accountservice.Service
	secureCookie bool
}

func NewHandler(authSvc *authservice.Service, accountSvc *accountservice.Service, secureCookie bool) *Handler {
	return &Handler{
		authSvc:      authSvc,
		accountSvc:   accountSvc,
		secureCookie: secureCookie,
	}
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}

// RegisterRoutes mounts the session-scoped endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/logout", h.Logout)
	r.GET("/session/me", h.Me)
	r.PUT("/session/me", h.UpdateProfile)
	r.POST("/session/me/invite-code", h.RegenerateInviteCode)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	account, err := h.accountSvc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(account))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sess, account, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, sess.Token, int(authservice.SlidingTTL.Seconds()))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookie)
	if err := h.authSvc.Logout(c.Request.Context(), token); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) Me(c *gin.Context) {
	account, ok := handler.Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(account))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	account, ok := handler.Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.accountSvc.UpdateProfile(c.Request.Context(), account.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) RegenerateInviteCode(c *gin.Context) {
	account, ok := handler.Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
		return
	}

	updated, err := h.accountSvc.RegenerateInviteCode(c.Request.Context(), account.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
}
