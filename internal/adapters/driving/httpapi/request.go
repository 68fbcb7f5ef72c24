package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; validator.Validate caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	// Text is required but may be empty.
	Text *string `json:"text" validate:"required"`

	// NumResults is optional; zero selects the server default.
	NumResults int `json:"num_results" validate:"omitempty,min=1,max=100"`
}

// ValidationError lists the fields of a request that failed validation.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed"
}

// validateRequest checks v against its struct tags.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		name := jsonName(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "min":
			fields[name] = fmt.Sprintf("%s must be at least %s", name, fe.Param())
		case "max":
			fields[name] = fmt.Sprintf("%s must be at most %s", name, fe.Param())
		default:
			fields[name] = fmt.Sprintf("%s failed on '%s'", name, fe.Tag())
		}
	}
	return &ValidationError{Fields: fields}
}

// jsonName maps struct field names to their JSON keys.
func jsonName(field string) string {
	switch field {
	case "Text":
		return "text"
	case "NumResults":
		return "num_results"
	default:
		return field
	}
}
