package evaluator

import (
	"fmt"

	"github.com/titivuk/cliq/token"
)

type ErrorKind int

const (
	UndeclaredVariable ErrorKind = iota // assignment to a name no VAR section declared
	UnassignedVariable                  // read of a name with no value yet
	IllegalType                         // coercion to a type the language does not have
	TypeMismatch
	DivisionByZero
	DuplicateDeclaration // a name given twice across VAR, IO and WAYPOINT
)

var errorKindNames = [...]string{
	UndeclaredVariable:   "undeclared variable",
	UnassignedVariable:   "unassigned variable",
	IllegalType:          "illegal type",
	TypeMismatch:         "type mismatch",
	DivisionByZero:       "division by zero",
	DuplicateDeclaration: "duplicate declaration",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a runtime error of a program. Line and Column are zero when the
// failing node carries no position.
type Error struct {
	Kind   ErrorKind
	Name   string // offending variable, if any
	Msg    string
	Line   int
	Column int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newError(kind ErrorKind, tok token.Token, name, format string, a ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Name:   name,
		Msg:    fmt.Sprintf(format, a...),
		Line:   tok.Line,
		Column: tok.Column,
	}
}
