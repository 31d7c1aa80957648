package shared

import (
	"sort"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)

// ValidationErrors collects per-field messages for a submitted form.
// The zero value is empty and ready to use.
type ValidationErrors struct {
	Fields map[string][]string `json:"fields"`
}

// NewValidationErrors returns an empty set of field errors
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Fields: make(map[string][]string)}
}

// Add records a message against field
func (v *ValidationErrors) Add(field, message string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], message)
}

// Has reports whether field has at least one message
func (v *ValidationErrors) Has(field string) bool {
	return len(v.Fields[field]) > 0
}

// Empty reports whether no field errors were recorded
func (v *ValidationErrors) Empty() bool {
	return len(v.Fields) == 0
}

// OrNil returns v when it carries errors and nil otherwise, so callers can
// write `return v.OrNil()`.
func (v *ValidationErrors) OrNil() error {
	if v == nil || v.Empty() {
		return nil
	}
	return v
}

// Messages flattens the field errors in field order
func (v *ValidationErrors) Messages() []string {
	fields := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var out []string
	for _, f := range fields {
		out = append(out, v.Fields[f]...)
	}
	return out
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}
