package service

import "fmt"

// ValidationError indicates a missing or malformed request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError indicates the referenced form or submission does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ForbiddenError indicates the caller's identity may not perform the operation
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func notFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func forbidden(msg string) error {
	return &ForbiddenError{Message: msg}
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
