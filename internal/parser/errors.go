package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is the sentinel wrapped by every error the parser produces.
var ErrParse = errors.New("parse error")

// Error reports a syntax failure at a specific 1-based source position,
// rendered with a caret pointer per spec.md section 7's user-visible
// format.
type Error struct {
	Pos    int
	Msg    string
	Source string
}

func (e *Error) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("Syntax error at character %d\n%s", e.Pos, e.Msg)
	}
	caret := strings.Repeat(" ", max(e.Pos-1, 0)) + "^"
	return fmt.Sprintf("Syntax error at character %d\n%s\n%s\n%s", e.Pos, e.Source, caret, e.Msg)
}

func (e *Error) Unwrap() error { return ErrParse }

func parseError(source string, pos int, format string, args ...any) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), Source: source}
}
