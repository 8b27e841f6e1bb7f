package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents multiple validation errors
type ValidationError struct {
	Errors []error
}

// NewValidationError creates a new ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{
		Errors: make([]error, 0),
	}
}

// Add adds an error to the validation error list. Nested ValidationErrors are flattened.
func (v *ValidationError) Add(err error) {
	if err == nil {
		return
	}
	var nested *ValidationError
	if errors.As(err, &nested) {
		v.Errors = append(v.Errors, nested.Errors...)
		return
	}
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are any validation errors
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d validation errors:\n", len(v.Errors)))
	for i, err := range v.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Is reports whether any collected error matches target
func (v *ValidationError) Is(target error) bool {
	for _, err := range v.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Unwrap returns the collected errors
func (v *ValidationError) Unwrap() []error {
	return v.Errors
}

// ErrorOrNil returns the error if there are any validation errors, otherwise nil
func (v *ValidationError) ErrorOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
