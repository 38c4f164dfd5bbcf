package router

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// registerValidations hooks custom rules into gin's binding validator.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("invitecode", validInviteCode)
}

// validInviteCode accepts the 10-character codes issued to
// practitioners: an ambiguity-free uppercase alphabet.
func validInviteCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 10 {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(inviteCodeAlphabet, r) {
			return false
		}
	}
	return true
}
