// Package validation checks decoded request bodies with struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed constraint, named by the field's JSON key.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string { return e.Message }

// RequestValidationError collects every failed constraint of a request.
type RequestValidationError struct {
	Fields []FieldError
}

func (e *RequestValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct checks s and returns nil or a *RequestValidationError.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		})
	}
	return &RequestValidationError{Fields: fields}
}

var messages = map[string]string{
	"required": "%s is required",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gt":       "%s must be greater than %s",
	"max":      "%s must be at most %s",
	"min":      "%s must be at least %s",
	"oneof":    "%s must be one of: %s",
}

func translate(fe validator.FieldError) string {
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	if strings.Count(tmpl, "%s") == 1 {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
}
