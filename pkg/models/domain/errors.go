package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindInput      ErrorKind = "input"
	ErrorKindExtraction ErrorKind = "extraction"
	ErrorKindNetwork    ErrorKind = "network"
	ErrorKindConfig     ErrorKind = "config"
)

// Error is a pipeline failure. Message is safe to show to a user, Detail and
// the wrapped error are for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message, detail string, err error) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail, Err: err}
}

func InputError(message string, err error) *Error {
	return newError(ErrorKindInput, message, "", err)
}

func ExtractionError(detail string, err error) *Error {
	return newError(ErrorKindExtraction, "document could not be read", detail, err)
}

func NetworkError(detail string, err error) *Error {
	return newError(ErrorKindNetwork, "extraction service unavailable", detail, err)
}

func ConfigError(message string, err error) *Error {
	return newError(ErrorKindConfig, message, "", err)
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// UserMessage returns the short message for err, hiding raw detail.
func UserMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "report processing failed"
}
