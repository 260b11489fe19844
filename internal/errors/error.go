package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/go-stack/stack"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting  Category = "routing"
	CategoryHook     Category = "hook"
	CategoryRender   Category = "render"
	CategorySecurity Category = "security"
	CategoryConfig   Category = "config"
	CategoryAssets   Category = "assets"
)

// Error is a coded error with an optional cause and captured stack.
type Error struct {
	// Code is a unique error identifier (e.g., "V101").
	Code string

	// Category groups related codes.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is request-specific context, such as the route involved.
	Detail string

	// Wrapped is the underlying error, if any.
	Wrapped error

	// Stack is the call stack at the point the error was created.
	Stack stack.CallStack
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail sets the request-specific detail.
func (e *Error) WithDetail(format string, args ...any) *Error {
	if len(args) == 0 {
		e.Detail = format
	} else {
		e.Detail = fmt.Sprintf(format, args...)
	}
	return e
}

// WithStack replaces the captured stack, e.g. with one taken at a recover site.
func (e *Error) WithStack(cs stack.CallStack) *Error {
	e.Stack = cs
	return e
}

// New creates an Error from a registered code. The stack is captured at the
// caller.
func New(code string) *Error {
	e := fromTemplate(code)
	e.Stack = capture(1)
	return e
}

// Newf creates an uncoded Error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Stack:    capture(1),
	}
}

// Wrap wraps err under code. An err that already carries an *Error is
// returned as that *Error unchanged. Wrap(code, nil) returns nil.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	e = fromTemplate(code)
	e.Wrapped = err
	e.Stack = capture(1)
	return e
}

// Panic converts a recovered panic value into an Error under code. Call it
// from the deferred function so the stack still shows the panicking frame.
func Panic(code string, recovered any) *Error {
	e := fromTemplate(code)
	if err, ok := recovered.(error); ok {
		e.Wrapped = fmt.Errorf("panic: %w", err)
	} else {
		e.Wrapped = fmt.Errorf("panic: %v", recovered)
	}
	e.Stack = capture(1)
	return e
}

// Is reports whether err carries an *Error with the given code.
func Is(err error, code string) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Code == code
}

func fromTemplate(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
	}
}

// capture returns the stack above the caller of capture's caller, without
// Go runtime frames.
func capture(skip int) stack.CallStack {
	return stack.Trace().TrimBelow(stack.Caller(skip + 1)).TrimRuntime()
}
