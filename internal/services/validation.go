package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/snowpadi/community-backend/internal/viewer"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validator tags on req and reports the first
// failing field.
func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "dive", "unique":
		return "contains invalid or duplicate values"
	default:
		return "is invalid"
	}
}

// requireParticipant rejects anonymous and banned viewers.
func requireParticipant(v viewer.Viewer) error {
	if v.IsAnonymous() {
		return ErrUnauthorized
	}
	if v.IsBanned {
		return errors.Join(ErrUnauthorized, errors.New("account is banned"))
	}
	return nil
}

func requireAdmin(v viewer.Viewer) error {
	if v.IsAnonymous() || !v.IsAdmin {
		return ErrUnauthorized
	}
	return nil
}
