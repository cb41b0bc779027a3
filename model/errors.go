package model

import (
	"errors"
	"fmt"
)

// Kind classifies console failures.
type Kind string

const (
	KindValidation Kind = "validation"
	KindPermission Kind = "permission"
	KindGateway    Kind = "gateway"
	KindParse      Kind = "parse"
	KindUnknown    Kind = "unknown"
)

// Error is a locally detected failure: no remote call was made.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorKind implements Kinded.
func (e *Error) ErrorKind() Kind { return e.Kind }

// Kinded is implemented by errors that know their own kind.
type Kinded interface {
	ErrorKind() Kind
}

// NewValidationError returns an empty-or-invalid input error.
func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewPermissionError returns an error for an identity lacking role.
func NewPermissionError(userID string, role Role) *Error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf("user %q lacks role %q", userID, role)}
}

// NewParseError wraps a payload decoding failure.
func NewParseError(cause error) *Error {
	return &Error{Kind: KindParse, Message: "malformed payload", Cause: cause}
}

// KindOf classifies err. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.ErrorKind()
	}
	return KindUnknown
}

// Describe returns the user facing part of err.
func Describe(err error) string {
	var local *Error
	if errors.As(err, &local) {
		if local.Cause != nil {
			return fmt.Sprintf("%s: %v", local.Message, local.Cause)
		}
		return local.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
