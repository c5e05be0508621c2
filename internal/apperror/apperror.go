// Package apperror holds the flat error taxonomy surfaced to HTTP clients.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports a rejected input field.
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

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound wraps ErrNotFound with the message shown to the client.
func NotFound(message string) error {
	return &messageError{kind: ErrNotFound, message: message}
}

func Unauthorized(message string) error {
	return &messageError{kind: ErrUnauthorized, message: message}
}

type messageError struct {
	kind    error
	message string
}

func (e *messageError) Error() string { return e.message }

func (e *messageError) Unwrap() error { return e.kind }

// Message returns the client-facing message of err, or fallback.
func Message(err error, fallback string) string {
	var me *messageError
	if errors.As(err, &me) {
		return me.message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return fallback
}
