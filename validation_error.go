package formkit

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes one failed rule for a single field.
type ValidationError struct {
	Field   Path   `json:"field"`
	Message string `json:"message"`
}

// IssueProvider is implemented by validation failures that can be reported
// field by field. Validators from pkg/validator and pkg/schema implement it.
type IssueProvider interface {
	Issues() []ValidationError
}

// ValidationErrors is an ordered list of field errors.
// It implements error and IssueProvider.
type ValidationErrors []ValidationError

// Error implements the error interface.
// Returns a human-readable error message summarizing validation failures.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "Validation failed"
	}

	parts := make([]string, 0, len(e))
	for _, ve := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}

	return fmt.Sprintf("validation error: %s", strings.Join(parts, ", "))
}

// Issues returns the errors as they are.
func (e ValidationErrors) Issues() []ValidationError {
	return e
}

// Add appends an error for the given path.
func (e *ValidationErrors) Add(field Path, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// Get returns the first message recorded for a dot-joined field, or "".
func (e ValidationErrors) Get(field string) string {
	for _, ve := range e {
		if ve.Field.String() == field {
			return ve.Message
		}
	}
	return ""
}

// Has checks if a field has any errors.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field.String() == field {
			return true
		}
	}
	return false
}

// IsEmpty returns true if there are no validation errors.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// ExtractIssues returns the field errors carried by err, if any.
func ExtractIssues(err error) ([]ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	var provider IssueProvider
	if !errors.As(err, &provider) {
		return nil, false
	}
	return provider.Issues(), true
}
