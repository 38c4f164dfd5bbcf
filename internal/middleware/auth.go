package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindline/practice-api/internal/handler"
	"github.com/mindline/practice-api/internal/service/auth"
)

// SessionCookie is the name of the HTTP-only cookie carrying the
// opaque session token.
const SessionCookie = "practice_session"

type AuthMiddleware struct {
	authSvc *auth.Service
}

func NewAuthMiddleware(authSvc *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// Authenticate resolves the session cookie to an account and stores it
// in the request context. Absent, expired, or orphaned sessions get 401.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
			c.Abort()
			return
		}

		account, err := m.authSvc.CurrentAccount(c.Request.Context(), token)
		if err != nil {
			handler.RespondError(c, err)
			c.Abort()
			return
		}

		c.Set(handler.ContextAccount, account)
		c.Next()
	}
}

// RequirePractitioner rejects client accounts on practitioner-only
// routes.
func (m *AuthMiddleware) RequirePractitioner() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := handler.Account(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not logged in"))
			c.Abort()
			return
		}
		if !account.IsPractitioner() {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("practitioner account required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
