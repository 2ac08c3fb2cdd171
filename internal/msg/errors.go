package msg

import (
	"errors"
	"strings"
)

// ErrorKind classifies msg failures.
type ErrorKind string

const (
	// ErrorKindConfiguration marks an unusable channel configuration: unknown
	// channel or medium, missing storage key, missing session.
	ErrorKindConfiguration ErrorKind = "configuration"
	// ErrorKindArgument marks invalid input to a store operation.
	ErrorKindArgument ErrorKind = "argument"
)

// Error is a typed msg failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error renders the human-readable message.
func (e *Error) Error() string {
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = string(e.Kind)
	}
	if e.Err != nil {
		return "msg: " + message + ": " + e.Err.Error()
	}
	return "msg: " + message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return hasKind(err, ErrorKindConfiguration)
}

// IsArgument reports whether err is an argument error.
func IsArgument(err error) bool {
	return hasKind(err, ErrorKindArgument)
}

func hasKind(err error, kind ErrorKind) bool {
	var target *Error
	if !errors.As(err, &target) {
		return false
	}
	return target.Kind == kind
}

func configurationError(message string, err error) error {
	return &Error{Kind: ErrorKindConfiguration, Message: message, Err: err}
}

func argumentError(message string, err error) error {
	return &Error{Kind: ErrorKindArgument, Message: message, Err: err}
}
