package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"
	"clubsphere/internal/middleware"
	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Field errors report the JSON name of the field.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func statusOf(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindPaymentRequired:
		return http.StatusPaymentRequired
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as {"message": ...}. Internal errors are logged and hidden from the client.
func fail(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = service.Internal(err)
	}
	status := statusOf(se.Kind)
	if status == http.StatusInternalServerError {
		logger.Named("handler").Errorw("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": se.Message})
}

// badBody answers a failed bind. Validator failures name the first offending field.
func badBody(c *gin.Context, err error) {
	_ = c.Error(err)
	msg := "Invalid request body"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msg = fieldMessage(verrs[0])
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "gte":
		if fe.Param() == "0" {
			return name + " must be zero or more"
		}
		return name + " must be at least " + fe.Param()
	case "oneof":
		return name + " must be one of " + fe.Param()
	}
	return name + " is invalid"
}

// list writes items as a JSON array, never null.
func list[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// principal is only called behind Authenticate.
func principal(c *gin.Context) auth.Principal {
	return middleware.PrincipalFrom(c)
}

// flexTime accepts RFC 3339 as well as the bare date and minute forms browsers send for date inputs.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return errors.New("eventDate: unrecognised time format")
}
