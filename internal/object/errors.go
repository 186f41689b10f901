package object

import "fmt"

type ErrorKind string

const (
	ReferenceError ErrorKind = "ReferenceError"
	TypeError      ErrorKind = "TypeError"
	RuntimeError   ErrorKind = "RuntimeError"
)

// Error is a recoverable evaluation failure. It travels as a Go error from
// the failing step up to the driver unchanged, except that the first step
// with a source position records it.
type Error struct {
	Kind     ErrorKind
	Message  string
	Src      string
	Position int
	Located  bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func NewReferenceError(format string, a ...interface{}) *Error {
	return NewError(ReferenceError, format, a...)
}

func NewTypeError(format string, a ...interface{}) *Error {
	return NewError(TypeError, format, a...)
}

func NewRuntimeError(format string, a ...interface{}) *Error {
	return NewError(RuntimeError, format, a...)
}

// Locate records the source position once, the innermost position wins.
func (e *Error) Locate(src string, pos int) *Error {
	if !e.Located {
		e.Src = src
		e.Position = pos
		e.Located = true
	}
	return e
}
