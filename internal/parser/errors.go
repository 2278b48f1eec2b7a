package parser

import "fmt"

// ParseError reports malformed query text with the offending token and
// its position. It is always surfaced to the caller, never retried.
type ParseError struct {
	Pos   Position
	Token string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("parse error at %d:%d near %q: %s", e.Pos.Line, e.Pos.Column, e.Token, e.Msg)
}

func errorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{Pos: tok.Pos, Token: tok.Literal, Msg: fmt.Sprintf(format, args...)}
}
