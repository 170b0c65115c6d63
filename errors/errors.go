// Package errors implements errors that carry the stack of the call that
// created them, plus helpers to walk chains of wrapped errors.
//
// NOTE: This package intentionally mirrors the standard "errors" module, and
// the concrete error type implements Unwrap so the standard errors.Is and
// errors.As keep working across wrapped chains.
package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"runtime"
	"sync"
)

// This interface exposes additional information about the error.
type Error interface {
	// This returns the error message without the stack trace.
	GetMessage() string

	// This returns the wrapped error.  This returns nil if this does not wrap
	// another error.
	GetInner() error

	// Implements the built-in error interface.
	Error() string

	// Returns stack frames.
	StackFrames() []StackFrame

	// Returns string representation of stack frames.
	// Stack frame formatting looks generally something like this:
	// github.com/fpdb/fpdb/database/sqltemplate.(*Database).BuildQuery
	//   /src/fpdb/database/sqltemplate/database.go:87 +0xbf9
	// main.main
	//   /src/fpdb/cmd/fpdb/main.go:13 +0x84
	// Use StackFrames() to get actual stack frame metadata instead of parsing
	// this string.
	GetStack() string
}

// Represents a single stack frame.
type StackFrame struct {
	PC         uintptr
	Func       *runtime.Func
	FuncName   string
	File       string
	LineNumber int
}

// Standard struct for general types of errors.
//
// For an example of custom error type, look at TemplateError in
// database/sqltemplate.
type baseError struct {
	msg   string
	inner error

	stack       []uintptr
	framesOnce  sync.Once
	stackFrames []StackFrame
}

// This returns the error string without stack trace information.
func GetMessage(err interface{}) string {
	switch e := err.(type) {
	case Error:
		return extractFullErrorMessage(e, false)
	case runtime.Error:
		return runtime.Error(e).Error()
	case error:
		return e.Error()
	default:
		return "Passed a non-error to GetMessage"
	}
}

// This returns a string with all available error information, including inner
// errors that are wrapped by this errors.
func (e *baseError) Error() string {
	return extractFullErrorMessage(e, true)
}

// Implements Error interface.
func (e *baseError) GetMessage() string {
	return e.msg
}

// Implements Error interface.
func (e *baseError) GetInner() error {
	return e.inner
}

// Unwrap lets the standard library walk past this error.
func (e *baseError) Unwrap() error {
	return e.inner
}

// Implements Error interface.
func (e *baseError) StackFrames() []StackFrame {
	e.framesOnce.Do(func() {
		if len(e.stack) == 0 {
			return
		}
		// CallersFrames expands inlined calls, which share a single PC.
		e.stackFrames = make([]StackFrame, 0, len(e.stack))
		frames := runtime.CallersFrames(e.stack)
		for {
			frame, more := frames.Next()
			e.stackFrames = append(e.stackFrames, StackFrame{
				PC:         frame.PC,
				Func:       frame.Func,
				FuncName:   frame.Function,
				File:       frame.File,
				LineNumber: frame.Line,
			})
			if !more {
				break
			}
		}
	})
	return e.stackFrames
}

// Implements Error interface.
func (e *baseError) GetStack() string {
	stackFrames := e.StackFrames()
	buf := bytes.NewBuffer(make([]byte, 0, 256))
	for _, frame := range stackFrames {
		_, _ = buf.WriteString(frame.FuncName)
		_, _ = buf.WriteString("\n")
		fmt.Fprintf(buf, "\t%s:%d +0x%x\n",
			frame.File, frame.LineNumber, frame.PC)
	}
	return buf.String()
}

// This returns a new baseError initialized with the given message and
// the current stack trace.
func New(msg string) Error {
	return newError(nil, msg, 3)
}

// Same as New, but with fmt.Printf-style parameters.
func Newf(format string, args ...interface{}) Error {
	return newError(nil, fmt.Sprintf(format, args...), 3)
}

// Wraps another error in a new baseError.
func Wrap(err error, msg string) Error {
	return newError(err, msg, 3)
}

// Same as Wrap, but with fmt.Printf-style parameters.
func Wrapf(err error, format string, args ...interface{}) Error {
	return newError(err, fmt.Sprintf(format, args...), 3)
}

// NewSkip is New for helpers that construct errors on behalf of their caller.
// skip is the number of extra frames to drop from the captured stack.
func NewSkip(skip int, msg string) Error {
	return newError(nil, msg, 3+skip)
}

// Internal helper function to create new baseError objects. callers is the
// number of frames (counting runtime.Callers itself) that are omitted from the
// stack trace.
func newError(err error, msg string, callers int) *baseError {
	stack := make([]uintptr, 200)
	stackLength := runtime.Callers(callers, stack)
	return &baseError{
		msg:   msg,
		stack: stack[:stackLength],
		inner: err,
	}
}

// Constructs full error message for a given Error by traversing all of its
// inner errors. If includeStack is True it will also include stack trace from
// deepest Error in the chain.
func extractFullErrorMessage(e Error, includeStack bool) string {
	var ok bool
	var lastErr Error
	errMsg := bytes.NewBuffer(make([]byte, 0, 1024))

	cur := e
	for {
		lastErr = cur
		errMsg.WriteString(cur.GetMessage())

		innerErr := cur.GetInner()
		if innerErr == nil {
			break
		}
		cur, ok = innerErr.(Error)
		if !ok {
			// We have reached the end and traveresed all inner errors.
			// Add last message and exit loop.
			errMsg.WriteString("\n")
			errMsg.WriteString(innerErr.Error())
			break
		}
		errMsg.WriteString("\n")
	}
	if includeStack {
		errMsg.WriteString("\nORIGINAL STACK TRACE:\n")
		errMsg.WriteString(lastErr.GetStack())
	}
	return errMsg.String()
}

// Keep peeling away layers of context until a primitive error is revealed.
func RootError(ierr error) (nerr error) {
	nerr = ierr
	for i := 0; i < 20; i++ {
		terr := stderrors.Unwrap(nerr)
		if terr == nil {
			return nerr
		}
		nerr = terr
	}
	return fmt.Errorf("too many iterations: %T", nerr)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
