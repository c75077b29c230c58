package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/clock"
)

// InputValidator checks request payloads against their struct tags and turns
// failures into ErrValidation with per-field details.
type InputValidator struct {
	validate *validator.Validate
}

func NewInputValidator(clk clock.Clock) *InputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("field")
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("past", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.IsZero() && t.Before(clk.Now())
	}); err != nil {
		panic(fmt.Sprintf("register past validation: %v", err))
	}
	return &InputValidator{validate: v}
}

func (iv *InputValidator) Validate(input any) error {
	err := iv.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ErrValidation.WithCause(err)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
	}
	return ErrValidation.WithDetails(details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "past":
		return "must be a date in the past"
	default:
		return "is invalid"
	}
}

// nonBlank drops whitespace-only optional values so they are treated as absent.
func nonBlank(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
