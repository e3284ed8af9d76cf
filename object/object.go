package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/titivuk/cliq/ast"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	REAL_OBJ     = "REAL"
	BOOLEAN_OBJ  = "BOOLEAN"
	WAYPOINT_OBJ = "WAYPOINT"
)

// Object is a value held in the interpreter's value table.
type Object interface {
	Type() ObjectType
	Inspect() string
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Real struct {
	Value float64
}

func (r *Real) Type() ObjectType { return REAL_OBJ }

// Inspect always shows a fraction digit so a whole real reads differently
// from an integer.
func (r *Real) Inspect() string {
	s := strconv.FormatFloat(r.Value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "TRUE"
	}
	return "FALSE"
}

// Waypoint keeps the declared operand expressions. They are evaluated each
// time a move uses the waypoint.
type Waypoint struct {
	Distance ast.Expression
	Speed    ast.Expression
}

func (w *Waypoint) Type() ObjectType { return WAYPOINT_OBJ }
func (w *Waypoint) Inspect() string {
	return fmt.Sprintf("(%s, %s)", w.Distance.String(), w.Speed.String())
}

// Float returns the numeric value of obj. Booleans count as 1 and 0.
func Float(obj Object) (float64, bool) {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value), true
	case *Real:
		return obj.Value, true
	case *Boolean:
		if obj.Value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
