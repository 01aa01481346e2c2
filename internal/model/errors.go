package model

import (
	"fmt"
	"strings"
)

// ParseErrorKind classifies structural problems in an input file.
type ParseErrorKind string

const (
	ErrHeaderNotFound ParseErrorKind = "header-not-found"
	ErrMissingColumn  ParseErrorKind = "missing-column"
	ErrAmountFormat   ParseErrorKind = "amount-format"
	ErrDateFormat     ParseErrorKind = "date-format"
	ErrBadYear        ParseErrorKind = "bad-year"
	ErrBadMonth       ParseErrorKind = "bad-month"
)

// ParseError is a fatal problem with the shape of an input file.
type ParseError struct {
	Kind  ParseErrorKind
	Line  int // 0 when the problem is not tied to a line
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " in %s", e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": %q", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationErrorKind classifies domain constraint failures.
type ValidationErrorKind string

const (
	ErrInvalidRows    ValidationErrorKind = "rows"
	ErrEmptyResult    ValidationErrorKind = "empty-result"
	ErrNoExpenses     ValidationErrorKind = "no-expenses"
	ErrTooManyPersons ValidationErrorKind = "too-many-persons"
	ErrNoCounterparty ValidationErrorKind = "no-counterparty"
)

// Issue is a single row-level defect.
type Issue struct {
	Line    int
	Field   string
	Value   string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// ValidationError reports content that breaks a domain rule. Row-level
// issues are collected so they can all be fixed in one pass.
type ValidationError struct {
	Kind   ValidationErrorKind
	Detail string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed (")
	b.WriteString(string(e.Kind))
	b.WriteString(")")
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}
