package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/arestate/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors report JSON keys instead of Go
// field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// errorResponse is the JSON error envelope of every non-2xx answer.
type errorResponse struct {
	Message string `json:"message"`
}

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Message: msg})
}

// writeError maps service errors to status codes and user-facing messages.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		abortWithMessage(c, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, common.ErrorAlreadyExists):
		abortWithMessage(c, http.StatusConflict, alreadyExistsMessage(err))
	case errors.Is(err, common.ErrorUnauthorized):
		abortWithMessage(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, common.ErrOTPNotFound):
		abortWithMessage(c, http.StatusUnauthorized, "No code was requested for this number")
	case errors.Is(err, common.ErrOTPExpired):
		abortWithMessage(c, http.StatusUnauthorized, "Code expired")
	case errors.Is(err, common.ErrOTPInvalid):
		abortWithMessage(c, http.StatusUnauthorized, "Invalid code")
	case errors.Is(err, common.ErrOTPTooManyAttempts):
		abortWithMessage(c, http.StatusTooManyRequests, "Too many attempts, request a new code")
	case errors.Is(err, common.ErrorNotFound):
		abortWithMessage(c, http.StatusNotFound, "No account for this mobile number")
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		abortWithMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

// alreadyExistsMessage names the taken field when the error carries one,
// e.g. "already exists: email".
func alreadyExistsMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, common.ErrorAlreadyExists.Error()+": "); i >= 0 {
		field := msg[i+len(common.ErrorAlreadyExists.Error())+2:]
		if field != "" && field != "user" {
			return fmt.Sprintf("A user with this %s already exists", field)
		}
	}
	return "User already exists"
}

// bindingMessage turns a gin binding error into a short message naming the
// first offending field.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "required_without_all":
			return "username, email or mobileNumber is required"
		case "email":
			return field + " must be a valid email"
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "len":
			return fmt.Sprintf("%s must be %s characters", field, fe.Param())
		case "numeric":
			return field + " must contain digits only"
		default:
			return field + " is invalid"
		}
	}
	return "Invalid request body"
}
