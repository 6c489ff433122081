package game

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can report it uniformly.
type Kind string

const (
	KindInvalidArgument    Kind = "invalid_argument"
	KindNotFound           Kind = "not_found"
	KindRuleViolation      Kind = "rule_violation"
	KindIllegalState       Kind = "illegal_state"
	KindPreconditionFailed Kind = "precondition_failed"
)

// Error is the single error type produced by the game and room layers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ErrInvalidArgument(format string, args ...any) *Error {
	return newError(KindInvalidArgument, format, args...)
}

func ErrNotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func ErrRuleViolation(format string, args ...any) *Error {
	return newError(KindRuleViolation, format, args...)
}

func ErrIllegalState(format string, args ...any) *Error {
	return newError(KindIllegalState, format, args...)
}

func ErrPreconditionFailed(format string, args ...any) *Error {
	return newError(KindPreconditionFailed, format, args...)
}

// KindOf returns the kind of err, or an empty Kind for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
