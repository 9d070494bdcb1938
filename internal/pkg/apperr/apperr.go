package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport-level mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindNotFound // covers both "absent" and "owned by someone else"
	KindValidation
	KindPersistence
	KindOracle
)

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

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "storage operation failed", Err: err}
}

func Oracle(err error) *Error {
	return &Error{Kind: KindOracle, Message: "model call failed", Err: err}
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
