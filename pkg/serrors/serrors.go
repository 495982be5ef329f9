package serrors

import (
	"errors"
	"fmt"
)

// Error is a coded error surfaced verbatim to API consumers. Code is a stable
// machine-readable identifier, Message a human-readable summary and Hint an
// optional remediation note.
type Error struct {
	Code    string
	Message string
	Hint    string
}

func NewError(code, message, hint string) *Error {
	return &Error{Code: code, Message: message, Hint: hint}
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy with a more specific message, preserving the code.
func (e *Error) WithMessage(message string) *Error {
	return &Error{Code: e.Code, Message: message, Hint: e.Hint}
}

// Is matches errors by code, so sentinel comparisons survive WithMessage.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}
