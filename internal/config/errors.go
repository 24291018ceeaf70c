// Package config defines the validated project configuration that drives
// scaffolding. It converts raw wizard, flag, or preset answers into an
// immutable Config and reports violations with field-level context.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidProjectName indicates an empty or malformed project name.
	ErrInvalidProjectName = errors.New("config: invalid project name")

	// ErrProjectExists indicates the target directory already exists.
	ErrProjectExists = errors.New("config: project directory already exists")

	// ErrInvalidPort indicates a port outside 1-65535 or a non-numeric value.
	ErrInvalidPort = errors.New("config: invalid port")

	// ErrUnknownFramework indicates an unsupported framework value.
	ErrUnknownFramework = errors.New("config: unknown framework")

	// ErrUnknownLanguage indicates an unsupported language mode value.
	ErrUnknownLanguage = errors.New("config: unknown language mode")

	// ErrUnknownDatabase indicates an unsupported database value.
	ErrUnknownDatabase = errors.New("config: unknown database")

	// ErrUnknownFeature indicates an unsupported feature flag.
	ErrUnknownFeature = errors.New("config: unknown feature")

	// ErrInvalidConnectionURI indicates a malformed document-store URI.
	ErrInvalidConnectionURI = errors.New("config: invalid connection URI")

	// ErrMissingCredentials indicates incomplete relational credentials.
	ErrMissingCredentials = errors.New("config: missing database credentials")

	// ErrPresetNotFound indicates the preset file could not be read.
	ErrPresetNotFound = errors.New("config: preset file not found")

	// ErrInvalidPreset indicates invalid YAML in a preset file.
	ErrInvalidPreset = errors.New("config: invalid preset file")
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error // underlying sentinel error for errors.Is support
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error: field %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Is reports whether any contained error matches the target sentinel.
func (e *ValidationErrors) Is(target error) bool {
	for i := range e.Errors {
		if errors.Is(&e.Errors[i], target) {
			return true
		}
	}
	return false
}
