package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"wordplay-service/internal/domain"
)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks a decoded request body and maps failures to ErrValidation.
func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fe := fieldErrs[0]
	// drop the leading struct type name, e.g. submitRequest.answers[0].answer
	name := fe.Namespace()
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrValidation, name)
		}
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
		}
		return fmt.Errorf("%w: %s must not be negative", domain.ErrValidation, name)
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", domain.ErrValidation, name, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", domain.ErrValidation, name)
	}
}
