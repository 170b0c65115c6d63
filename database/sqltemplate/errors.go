package sqltemplate

import (
	stderrors "errors"
	"fmt"

	"github.com/fpdb/fpdb/errors"
)

var (
	// ErrUnknownPlaceholder is returned when a placeholder tag is not one of
	// ?, ?d, ?f, ?a or ?#.
	ErrUnknownPlaceholder = stderrors.New("unknown placeholder")

	// ErrTypeMismatch is returned when an argument cannot be formatted by the
	// placeholder it is bound to, including a missing argument for ?, ?a or ?#.
	ErrTypeMismatch = stderrors.New("type mismatch")
)

// TemplateError describes why a build failed.  errors.Is reports its Kind,
// and the error that caused it when there is one.
type TemplateError struct {
	Kind error

	// Placeholder is the exact placeholder text, e.g. "?a".
	Placeholder string

	// Offset is the byte offset of the placeholder in the template, or -1.
	Offset int

	// ArgIndex is the index of the argument bound to the placeholder, or -1.
	ArgIndex int

	msg   string
	stack errors.Error
}

func (e *TemplateError) Error() string {
	return e.Kind.Error() + ": " + e.msg
}

// GetMessage returns the message without the kind prefix.
func (e *TemplateError) GetMessage() string {
	return e.msg
}

// GetStack returns the stack of the call that failed.
func (e *TemplateError) GetStack() string {
	return e.stack.GetStack()
}

func (e *TemplateError) Unwrap() []error {
	if inner := e.stack.GetInner(); inner != nil {
		return []error{e.Kind, inner}
	}
	return []error{e.Kind}
}

func newTemplateError(
	kind error,
	tok Token,
	argIndex int,
	inner error,
	format string,
	args ...interface{}) *TemplateError {

	msg := fmt.Sprintf(format, args...)
	var stack errors.Error
	if inner != nil {
		stack = errors.Wrap(inner, msg)
	} else {
		stack = errors.NewSkip(2, msg)
	}
	return &TemplateError{
		Kind:        kind,
		Placeholder: tok.Text,
		Offset:      tok.Start,
		ArgIndex:    argIndex,
		msg:         msg,
		stack:       stack,
	}
}

func unknownPlaceholder(tok Token, argIndex int) *TemplateError {
	return newTemplateError(
		ErrUnknownPlaceholder,
		tok,
		argIndex,
		nil,
		"%s at offset %d",
		tok.Text,
		tok.Start)
}

func typeMismatch(
	tok Token,
	argIndex int,
	expected string,
	got string) *TemplateError {

	return newTemplateError(
		ErrTypeMismatch,
		tok,
		argIndex,
		nil,
		"%s at offset %d expects %s, got %s (argument %d)",
		tok.Text,
		tok.Start,
		expected,
		got,
		argIndex)
}
