// Extensions to the go-check unittest framework.
//
// NOTE: see https://github.com/go-check/check/pull/6 for reasons why these
// checkers live here.
package gocheck2

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
	. "gopkg.in/check.v1"
)

// -----------------------------------------------------------------------
// IsTrue / IsFalse checker.

type isBoolValueChecker struct {
	*CheckerInfo
	expected bool
}

func (checker *isBoolValueChecker) Check(
	params []interface{},
	names []string) (
	result bool,
	error string) {

	obtained, ok := params[0].(bool)
	if !ok {
		return false, "Argument to " + checker.Name + " must be bool"
	}

	return obtained == checker.expected, ""
}

// The IsTrue checker verifies that the obtained value is true.
//
// For example:
//
//     c.Assert(value, IsTrue)
//
var IsTrue Checker = &isBoolValueChecker{
	&CheckerInfo{Name: "IsTrue", Params: []string{"obtained"}},
	true,
}

// The IsFalse checker verifies that the obtained value is false.
//
// For example:
//
//     c.Assert(value, IsFalse)
//
var IsFalse Checker = &isBoolValueChecker{
	&CheckerInfo{Name: "IsFalse", Params: []string{"obtained"}},
	false,
}

// -----------------------------------------------------------------------
// ErrorIs checker.

type errorIsChecker struct {
	*CheckerInfo
}

func (checker *errorIsChecker) Check(
	params []interface{},
	names []string) (
	result bool,
	errStr string) {

	obtained, ok := params[0].(error)
	if !ok {
		return false, "Obtained value must be a non-nil error"
	}
	expected, ok := params[1].(error)
	if !ok {
		return false, "Expected value must be an error"
	}
	return errors.Is(obtained, expected), ""
}

// The ErrorIs checker verifies that the expected error is in the chain of the
// obtained error, as errors.Is reports it.
//
// For example:
//
//     c.Assert(err, ErrorIs, sqltemplate.ErrTypeMismatch)
//
var ErrorIs Checker = &errorIsChecker{
	&CheckerInfo{Name: "ErrorIs", Params: []string{"obtained", "expected"}},
}

// -----------------------------------------------------------------------
// TextEquals checker.

type textEqualsChecker struct {
	*CheckerInfo
}

func (checker *textEqualsChecker) Check(
	params []interface{},
	names []string) (
	result bool,
	errStr string) {

	obtained, ok := params[0].(string)
	if !ok {
		return false, "Obtained value must be a string, got:\n" +
			spew.Sdump(params[0])
	}
	expected, ok := params[1].(string)
	if !ok {
		return false, "Expected value must be a string, got:\n" +
			spew.Sdump(params[1])
	}
	if obtained == expected {
		return true, ""
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitForDiff(expected),
		B:        splitForDiff(obtained),
		FromFile: "expected",
		ToFile:   "obtained",
		Context:  2,
	})
	if err != nil {
		return false, fmt.Sprintf("unable to diff: %v", err)
	}
	return false, "Text differs:\n" + diff + spew.Sdump(obtained)
}

// splitForDiff splits s into lines, breaking long single line SQL at
// spaces so that the diff points at the differing words.
func splitForDiff(s string) []string {
	if !strings.Contains(s, "\n") {
		s = strings.ReplaceAll(s, " ", " \n")
	}
	return difflib.SplitLines(s)
}

// The TextEquals checker verifies that two strings are equal, and reports a
// unified diff of the two when they are not.
//
// For example:
//
//     c.Assert(query, TextEquals, "SELECT 1")
//
var TextEquals Checker = &textEqualsChecker{
	&CheckerInfo{Name: "TextEquals", Params: []string{"obtained", "expected"}},
}
