package dsl

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports malformed DSL source at the offending token.
type SyntaxError struct {
	Line  int
	Col   int
	Token string // offending token text; empty at end of input
	Msg   string
	Err   error // optional cause, e.g. command.ErrInvalidAxis
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSyntax, e.Err}
	}
	return []error{ErrSyntax}
}

func errorAt(tok Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Line:  tok.Line,
		Col:   tok.Col,
		Token: tok.Value,
		Msg:   fmt.Sprintf(format, args...),
	}
}
