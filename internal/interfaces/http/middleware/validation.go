package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrorsKey collects messages that belong to no single field
const NonFieldErrorsKey = "__all__"

// SetupValidator makes gin's validator report errors under the form or
// json field name instead of the Go field name.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
}

// FormatValidationErrors converts a binding error into per-field messages
func FormatValidationErrors(err error) map[string][]string {
	fields := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields[NonFieldErrorsKey] = []string{"The submitted data could not be read."}
		return fields
	}
	for _, e := range verrs {
		fields[e.Field()] = append(fields[e.Field()], getValidationMessage(e))
	}
	return fields
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if e.Kind() == reflect.String {
			return "Ensure this value has at least " + e.Param() + " characters."
		}
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "max":
		if e.Kind() == reflect.String {
			return "Ensure this value has at most " + e.Param() + " characters."
		}
		return "Ensure this value is less than or equal to " + e.Param() + "."
	case "oneof":
		return "Select one of: " + e.Param() + "."
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "gt":
		return "Ensure this value is greater than " + e.Param() + "."
	default:
		return "Enter a valid value."
	}
}
