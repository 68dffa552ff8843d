package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so handlers can map it to a transport status
// without inspecting error text.
type Kind int

const (
	// KindMissingTenant means no tenant is bound to the request context.
	KindMissingTenant Kind = iota + 1
	// KindNotFound means the target entity or its parent aggregate does
	// not exist under the caller's tenant.
	KindNotFound
	// KindValidation means the input shape violates declared constraints.
	KindValidation
	// KindConflict means the mutation collides with an existing record,
	// e.g. a duplicate per-tenant code.
	KindConflict
)

var (
	ErrMissingTenant = &Error{Kind: KindMissingTenant, Message: "no tenant bound to request context"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "not found"}
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of the wrapped message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NotFound builds a NotFound error naming the missing entity.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Validation builds a Validation error for a rejected input field.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a Conflict error for a colliding mutation.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind of err, or zero when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
