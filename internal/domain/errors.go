package domain

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError describes one caller-correctable problem with an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError carries every field error found for one input.
type ValidationError struct {
	Errors []FieldError
	Err    error
}

// NewValidationError is a shorthand for a single-field validation failure.
func NewValidationError(field, msg string) ValidationError {
	return ValidationError{Errors: []FieldError{{Field: field, Message: msg}}}
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError reports a uniqueness violation on Field.
type ConflictError struct {
	Resource string
	Field    string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Resource != "" && e.Field != "":
		return fmt.Sprintf("there is already a %s for the given %s", e.Resource, e.Field)
	case e.Resource != "":
		return fmt.Sprintf("%s already exists", e.Resource)
	default:
		return "conflict"
	}
}

// Code identifies the conflict in response bodies, e.g. "category.existent".
func (e ConflictError) Code() string {
	if e.Resource == "" {
		return "existent"
	}
	return e.Resource + ".existent"
}

func (e ConflictError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "not authorized"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}
