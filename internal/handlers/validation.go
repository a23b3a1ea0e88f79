package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"kanban-task-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators teaches gin's validator engine the custom rules and
// makes it report JSON field names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// requiredMessages holds the per-field message for a missing value.
var requiredMessages = map[string]string{
	"title":    service.MsgTitleRequired,
	"dueDate":  service.MsgDueDateRequired,
	"priority": service.MsgPriorityRequired,
	"status":   service.MsgStatusRequired,
}

// bindJSON decodes and validates the request body into obj. Every failure is
// returned as a validation *service.Error keyed by JSON field name.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		// empty body, report what the zero value is missing
		err = binding.Validator.ValidateStruct(obj)
	}
	if err == nil {
		return nil
	}
	return translateBindError(err)
}

func translateBindError(err error) error {
	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			name := fe.Field()
			if _, seen := fields[name]; seen {
				continue
			}
			fields[name] = fieldMessage(fe)
		}
		return service.NewValidationError(fields)
	case errors.As(err, &typeErr):
		name := typeErr.Field
		if name == "" {
			name = "body"
		}
		return service.NewValidationError(map[string]string{name: service.MsgInvalidType})
	default:
		// syntax errors, truncated bodies
		return service.NewValidationError(map[string]string{"body": service.MsgMalformedBody})
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return fe.Field() + " é obrigatório"
	case "oneof":
		return service.InvalidValue(fe.Value())
	case "datetime":
		return service.MsgInvalidDate
	default:
		return service.InvalidValue(fe.Value())
	}
}
