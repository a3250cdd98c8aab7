// Package apperr defines the error taxonomy shared by every layer of the
// service. Each failure that reaches a client carries a dotted code such as
// "Resource.NotFound", an HTTP status and a message.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Code is a dotted two-level taxonomy key ("<Domain>.<Key>").
type Code string

// Known codes.
const (
	CodeResourceNotFound Code = "Resource.NotFound"
	CodeValidationFailed Code = "Common.ValidationFailed"
	CodeInternalError    Code = "Common.InternalError"
	CodeNotFound         Code = "Common.NotFound"
)

// Definition is the fixed status and default message of a code.
type Definition struct {
	Status  int
	Message string
}

var definitions = map[Code]Definition{
	CodeResourceNotFound: {Status: 404, Message: "Resource not found"},
	CodeValidationFailed: {Status: 422, Message: "Validation failed"},
	CodeInternalError:    {Status: 500, Message: "Internal server error"},
	CodeNotFound:         {Status: 404, Message: "API Not found"},
}

// Lookup returns the definition registered for code.
func Lookup(code Code) (Definition, bool) {
	def, ok := definitions[code]
	return def, ok
}

// Error is the unified failure value returned by services and rendered by
// the HTTP error handler.
type Error struct {
	Code    Code
	Status  int
	Message string
	Details any
	Stack   string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code, so errors.Is(err, &Error{Code: c}) works
// regardless of message and details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New builds an *Error for code. The first non-empty override replaces the
// default message. New panics on a code missing from the taxonomy.
func New(code Code, details any, override ...string) *Error {
	def, ok := Lookup(code)
	if !ok {
		panic(fmt.Sprintf("apperr: unknown error code %q", code))
	}
	msg := def.Message
	if len(override) > 0 && override[0] != "" {
		msg = override[0]
	}
	return &Error{
		Code:    code,
		Status:  def.Status,
		Message: msg,
		Details: details,
		Stack:   callers(3),
	}
}

// ResourceNotFound reports a missing or soft-deleted resource.
func ResourceNotFound(details any, message ...string) *Error {
	return New(CodeResourceNotFound, details, message...)
}

// ValidationFailed reports rejected input; details usually hold violations.
func ValidationFailed(details any, message ...string) *Error {
	return New(CodeValidationFailed, details, message...)
}

// InternalError is the catch-all for unexpected failures.
func InternalError(details any, message ...string) *Error {
	return New(CodeInternalError, details, message...)
}

// NotFound reports an unmatched API route.
func NotFound(details any, message ...string) *Error {
	return New(CodeNotFound, details, message...)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

type stackTracer interface {
	StackTrace() string
}

// From normalizes any failure value into an *Error. Values that are already
// *Error pass through; anything else becomes Common.InternalError with the
// message "Unexpected Server Error: <text>".
func From(v any) *Error {
	var cause error
	switch t := v.(type) {
	case nil:
		cause = errors.New("nil failure")
	case error:
		var ae *Error
		if errors.As(t, &ae) {
			return ae
		}
		cause = t
	case string:
		cause = errors.New(t)
	default:
		cause = errors.New(describe(t))
	}

	ae := New(CodeInternalError, nil, "Unexpected Server Error: "+cause.Error())
	ae.Cause = cause
	if st, ok := cause.(stackTracer); ok {
		ae.Stack = st.StackTrace()
	}
	return ae
}

func describe(v any) string {
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func callers(skip int) string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}
