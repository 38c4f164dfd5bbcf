package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
)

// ContextAccount is the gin context key the auth middleware stores the
// authenticated account under.
const ContextAccount = "account"

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps application errors to HTTP statuses. Internal
// detail never reaches the client; it is logged here instead.
func RespondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperror.KindInternal {
			log.Error().Err(appErr.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request failed")
		}
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
		return
	}

	log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("unexpected error")
	c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
}

// Account returns the authenticated account placed in the context by
// the auth middleware.
func Account(c *gin.Context) (*model.Account, bool) {
	v, ok := c.Get(ContextAccount)
	if !ok {
		return nil, false
	}
	account, ok := v.(*model.Account)
	return account, ok
}

// PractitionerScope resolves the practitioner id the request operates
// under, aborting with 403 when the account has no practitioner link.
func PractitionerScope(c *gin.Context) (*model.Account, bool) {
	account, ok := Account(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("not logged in"))
		c.Abort()
		return nil, false
	}
	if _, ok := account.PractitionerID(); !ok {
		c.JSON(http.StatusForbidden, NewErrorResponse("account is not linked to a practitioner"))
		c.Abort()
		return nil, false
	}
	return account, true
}
