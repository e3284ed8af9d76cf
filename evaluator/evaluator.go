package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/titivuk/cliq/ast"
	"github.com/titivuk/cliq/gcode"
	"github.com/titivuk/cliq/logger"
	"github.com/titivuk/cliq/object"
	"github.com/titivuk/cliq/token"
)

// reuse the two booleans, comparisons produce a lot of them
var (
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// Machine receives the motion intents of a program. *gcode.Encoder is the
// production implementation.
type Machine interface {
	GoHome() error
	MoveLinear(value float64, relative bool, speed float64) error
	MoveRotary(value float64, relative bool, speed float64) error
	Wait(duration float64) error
	Stop() error
}

// IOPin is one entry of the IO section.
type IOPin struct {
	Direction token.TokenType // token.PININ or token.PINOUT
	Pin       int64
}

// Interpreter is one run of a program. It owns the declared types, the
// current values and the machine the motion statements drive.
type Interpreter struct {
	types  map[string]token.TokenType
	values map[string]object.Object
	io     map[string]IOPin
	m      Machine
	log    *slog.Logger
}

func New(m Machine) *Interpreter {
	return &Interpreter{
		types:  map[string]token.TokenType{},
		values: map[string]object.Object{},
		io:     map[string]IOPin{},
		m:      m,
		log:    logger.With("module", "evaluator"),
	}
}

// Interpret runs program to completion. On error the values assigned so far
// stay readable through Globals.
func (in *Interpreter) Interpret(ctx context.Context, program *ast.Program) error {
	in.log.Debug("Interpreting program", "name", program.Name)
	_, err := in.Eval(ctx, program)
	return err
}

// Globals returns a copy of the value table.
func (in *Interpreter) Globals() map[string]object.Object {
	out := make(map[string]object.Object, len(in.values))
	for name, v := range in.values {
		out[name] = v
	}
	return out
}

// Names returns the names in the value table in sorted order.
func (in *Interpreter) Names() []string {
	names := make([]string, 0, len(in.values))
	for name := range in.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (in *Interpreter) Value(name string) (object.Object, bool) {
	v, ok := in.values[name]
	return v, ok
}

// DeclaredType returns the type a VAR section gave name.
func (in *Interpreter) DeclaredType(name string) (token.TokenType, bool) {
	t, ok := in.types[name]
	return t, ok
}

func (in *Interpreter) IO() map[string]IOPin {
	out := make(map[string]IOPin, len(in.io))
	for name, p := range in.io {
		out[name] = p
	}
	return out
}

// Eval visits node. Statements return a nil object, except WAIT which
// returns its duration.
func (in *Interpreter) Eval(ctx context.Context, node ast.Node) (object.Object, error) {
	in.log.Debug("Visit", "node", fmt.Sprintf("%T", node))

	switch node := node.(type) {
	case *ast.Program:
		return in.Eval(ctx, node.Block)
	case *ast.Block:
		return in.evalBlock(ctx, node)
	case *ast.Compound:
		return in.evalCompound(ctx, node)
	case *ast.NoOp:
		return nil, nil
	case *ast.Assign:
		return nil, in.evalAssign(ctx, node)
	case *ast.If:
		return in.evalIf(ctx, node)
	case *ast.Loop:
		return in.evalLoop(ctx, node)
	case *ast.Wait:
		return in.evalWait(ctx, node)
	case *ast.Moveto:
		value, relative, speed, err := in.motionOperands(ctx, node.Distance, node.Speed)
		if err != nil {
			return nil, err
		}
		return nil, in.m.MoveLinear(value, relative, speed)
	case *ast.Rotate:
		value, relative, speed, err := in.motionOperands(ctx, node.Distance, node.Speed)
		if err != nil {
			return nil, err
		}
		return nil, in.m.MoveRotary(value, relative, speed)
	case *ast.Home:
		return nil, in.m.GoHome()
	case *ast.Stop:
		return nil, in.m.Stop()
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil
	case *ast.RealLiteral:
		return &object.Real{Value: node.Value}, nil
	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value), nil
	case *ast.Identifier:
		return in.evalIdentifier(node)
	case *ast.PrefixExpression:
		right, err := in.Eval(ctx, node.Right)
		if err != nil {
			return nil, err
		}
		return evalPrefixExpression(node, right)
	case *ast.InfixExpression:
		// right before left
		right, err := in.Eval(ctx, node.Right)
		if err != nil {
			return nil, err
		}
		left, err := in.Eval(ctx, node.Left)
		if err != nil {
			return nil, err
		}
		return evalInfixExpression(node, left, right)
	default:
		panic(fmt.Sprintf("unexpected node: %T", node))
	}
}

// evalBlock binds the declarations before running the body. The three
// sections share one namespace.
func (in *Interpreter) evalBlock(ctx context.Context, block *ast.Block) (object.Object, error) {
	seen := map[string]bool{}
	declare := func(tok token.Token, name string) error {
		if seen[name] {
			return newError(DuplicateDeclaration, tok, name, "%s is already declared", name)
		}
		seen[name] = true
		return nil
	}

	for _, decl := range block.Declarations {
		if err := declare(decl.Token, decl.Name); err != nil {
			return nil, err
		}
		in.types[decl.Name] = decl.Type
	}
	for _, decl := range block.IOList {
		if err := declare(decl.Token, decl.Name); err != nil {
			return nil, err
		}
		in.io[decl.Name] = IOPin{Direction: decl.Direction, Pin: decl.Pin}
	}
	for _, decl := range block.Waypoints {
		if err := declare(decl.Token, decl.Name); err != nil {
			return nil, err
		}
		in.values[decl.Name] = &object.Waypoint{Distance: decl.Distance, Speed: decl.Speed}
	}
	return in.Eval(ctx, block.Body)
}

func (in *Interpreter) evalCompound(ctx context.Context, c *ast.Compound) (object.Object, error) {
	for _, st := range c.Statements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := in.Eval(ctx, st); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (in *Interpreter) evalAssign(ctx context.Context, a *ast.Assign) error {
	name := a.Name.Value
	declared, ok := in.types[name]
	if !ok {
		return newError(UndeclaredVariable, a.Name.Token, name, "variable %s not declared", name)
	}

	value, err := in.Eval(ctx, a.Value)
	if err != nil {
		return err
	}

	value, err = coerce(declared, value)
	if err != nil {
		if e, ok := err.(*Error); ok {
			e.Name = name
			e.Line, e.Column = a.Name.Token.Line, a.Name.Token.Column
		}
		return err
	}

	in.values[name] = value
	return nil
}

func (in *Interpreter) evalIdentifier(id *ast.Identifier) (object.Object, error) {
	value, ok := in.values[id.Value]
	if !ok {
		return nil, newError(UnassignedVariable, id.Token, id.Value,
			"%s is defined but has not been assigned a value", id.Value)
	}
	return value, nil
}

func (in *Interpreter) evalCondition(ctx context.Context, cond ast.Expression) (bool, error) {
	obj, err := in.Eval(ctx, cond)
	if err != nil {
		return false, err
	}
	b, ok := obj.(*object.Boolean)
	if !ok {
		return false, newError(TypeMismatch, firstToken(cond), "",
			"condition %s is %s, not BOOLEAN", cond.String(), obj.Type())
	}
	return b.Value, nil
}

func (in *Interpreter) evalIf(ctx context.Context, i *ast.If) (object.Object, error) {
	ok, err := in.evalCondition(ctx, i.Condition)
	if err != nil {
		return nil, err
	}
	if ok {
		return in.Eval(ctx, i.Consequence)
	}
	return in.Eval(ctx, i.Alternative)
}

// evalLoop runs the body at least once and stops the first time the
// condition holds.
func (in *Interpreter) evalLoop(ctx context.Context, l *ast.Loop) (object.Object, error) {
	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			in.log.Warn("Loop interrupted", "iteration", iteration, "err", err)
			return nil, err
		}
		if _, err := in.Eval(ctx, l.Body); err != nil {
			return nil, err
		}
		done, err := in.evalCondition(ctx, l.Condition)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, nil
		}
	}
}

func (in *Interpreter) evalWait(ctx context.Context, w *ast.Wait) (object.Object, error) {
	pause, err := in.Eval(ctx, w.Duration)
	if err != nil {
		return nil, err
	}
	seconds, err := numeric(pause, w.Duration)
	if err != nil {
		return nil, err
	}
	if err := in.m.Wait(seconds); err != nil {
		return nil, err
	}
	return pause, nil
}

// motionOperands resolves the operands of MOVETO and ROTATE. A variable
// reference as distance names a waypoint, whose stored pair replaces both
// operands, or a scalar, which is the distance. Either way the move is
// relative. A literal or computed distance is an absolute target.
func (in *Interpreter) motionOperands(ctx context.Context, distance, speed ast.Expression) (float64, bool, float64, error) {
	_, relative := distance.(*ast.Identifier)
	if relative {
		obj, err := in.evalIdentifier(distance.(*ast.Identifier))
		if err != nil {
			return 0, false, 0, err
		}
		if wp, ok := obj.(*object.Waypoint); ok {
			distance, speed = wp.Distance, wp.Speed
		}
	}

	value, err := in.evalNumber(ctx, distance)
	if err != nil {
		return 0, false, 0, err
	}

	rate := gcode.DefaultSpeed
	if speed != nil {
		if rate, err = in.evalNumber(ctx, speed); err != nil {
			return 0, false, 0, err
		}
	}

	in.log.Debug("Motion operands", "distance", value, "speed", rate, "relative", relative)
	return value, relative, rate, nil
}

func (in *Interpreter) evalNumber(ctx context.Context, expr ast.Expression) (float64, error) {
	obj, err := in.Eval(ctx, expr)
	if err != nil {
		return 0, err
	}
	return numeric(obj, expr)
}

func numeric(obj object.Object, expr ast.Expression) (float64, error) {
	v, ok := object.Float(obj)
	if !ok {
		return 0, newError(TypeMismatch, firstToken(expr), "",
			"%s is %s, not a number", expr.String(), obj.Type())
	}
	return v, nil
}

// coerce converts value to the declared type of its target.
func coerce(declared token.TokenType, value object.Object) (object.Object, error) {
	if value.Type() == object.WAYPOINT_OBJ {
		return nil, &Error{Kind: TypeMismatch, Msg: fmt.Sprintf("cannot assign waypoint to %s", declared)}
	}

	switch declared {
	case token.INTEGER:
		switch value := value.(type) {
		case *object.Integer:
			return value, nil
		case *object.Real:
			return &object.Integer{Value: int64(value.Value)}, nil
		}
		f, _ := object.Float(value)
		return &object.Integer{Value: int64(f)}, nil
	case token.REAL:
		f, _ := object.Float(value)
		return &object.Real{Value: f}, nil
	case token.BOOL:
		f, _ := object.Float(value)
		return nativeBoolToBooleanObject(f != 0), nil
	default:
		return nil, &Error{Kind: IllegalType, Msg: fmt.Sprintf("illegal type %s", declared)}
	}
}

func evalPrefixExpression(node *ast.PrefixExpression, right object.Object) (object.Object, error) {
	switch right := right.(type) {
	case *object.Real:
		if node.Token.Type == token.MINUS {
			return &object.Real{Value: -right.Value}, nil
		}
		return right, nil
	case *object.Integer, *object.Boolean:
		v, _ := integerValue(right)
		if node.Token.Type == token.MINUS {
			v = -v
		}
		return &object.Integer{Value: v}, nil
	default:
		return nil, newError(TypeMismatch, node.Token, "",
			"unknown operator: %s%s", node.Operator, right.Type())
	}
}

func evalInfixExpression(node *ast.InfixExpression, left, right object.Object) (object.Object, error) {
	if _, ok := object.Float(left); !ok {
		return nil, operandError(node, left, right)
	}
	if _, ok := object.Float(right); !ok {
		return nil, operandError(node, left, right)
	}

	l, lok := integerValue(left)
	r, rok := integerValue(right)
	if lok && rok {
		return evalIntegerInfixExpression(node, l, r)
	}

	lf, _ := object.Float(left)
	rf, _ := object.Float(right)
	return evalRealInfixExpression(node, lf, rf)
}

func evalIntegerInfixExpression(node *ast.InfixExpression, l, r int64) (object.Object, error) {
	switch node.Token.Type {
	case token.PLUS:
		return &object.Integer{Value: l + r}, nil
	case token.MINUS:
		return &object.Integer{Value: l - r}, nil
	case token.MUL:
		return &object.Integer{Value: l * r}, nil
	case token.INTEGER_DIV:
		if r == 0 {
			return nil, divisionByZero(node)
		}
		return &object.Integer{Value: floorDiv(l, r)}, nil
	case token.FLOAT_DIV:
		if r == 0 {
			return nil, divisionByZero(node)
		}
		return &object.Real{Value: float64(l) / float64(r)}, nil
	case token.EQUAL:
		return nativeBoolToBooleanObject(l == r), nil
	case token.NEQUAL:
		return nativeBoolToBooleanObject(l != r), nil
	case token.LT:
		return nativeBoolToBooleanObject(l < r), nil
	case token.LTE:
		return nativeBoolToBooleanObject(l <= r), nil
	case token.GT:
		return nativeBoolToBooleanObject(l > r), nil
	case token.GTE:
		return nativeBoolToBooleanObject(l >= r), nil
	default:
		panic(fmt.Sprintf("unexpected operator: %s", node.Token.Type))
	}
}

func evalRealInfixExpression(node *ast.InfixExpression, l, r float64) (object.Object, error) {
	switch node.Token.Type {
	case token.PLUS:
		return &object.Real{Value: l + r}, nil
	case token.MINUS:
		return &object.Real{Value: l - r}, nil
	case token.MUL:
		return &object.Real{Value: l * r}, nil
	case token.INTEGER_DIV:
		if r == 0 {
			return nil, divisionByZero(node)
		}
		return &object.Real{Value: math.Floor(l / r)}, nil
	case token.FLOAT_DIV:
		if r == 0 {
			return nil, divisionByZero(node)
		}
		return &object.Real{Value: l / r}, nil
	case token.EQUAL:
		return nativeBoolToBooleanObject(l == r), nil
	case token.NEQUAL:
		return nativeBoolToBooleanObject(l != r), nil
	case token.LT:
		return nativeBoolToBooleanObject(l < r), nil
	case token.LTE:
		return nativeBoolToBooleanObject(l <= r), nil
	case token.GT:
		return nativeBoolToBooleanObject(l > r), nil
	case token.GTE:
		return nativeBoolToBooleanObject(l >= r), nil
	default:
		panic(fmt.Sprintf("unexpected operator: %s", node.Token.Type))
	}
}

// floorDiv rounds toward negative infinity: -7 DIV 2 is -4.
func floorDiv(l, r int64) int64 {
	q := l / r
	if (l%r != 0) && ((l < 0) != (r < 0)) {
		q--
	}
	return q
}

// integerValue reports the value of an integer or a boolean (1 or 0).
func integerValue(obj object.Object) (int64, bool) {
	switch obj := obj.(type) {
	case *object.Integer:
		return obj.Value, true
	case *object.Boolean:
		if obj.Value {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func operandError(node *ast.InfixExpression, left, right object.Object) error {
	return newError(TypeMismatch, node.Token, "",
		"unsupported operands: %s %s %s", left.Type(), node.Operator, right.Type())
}

func divisionByZero(node *ast.InfixExpression) error {
	return newError(DivisionByZero, node.Token, "", "division by zero in %s", node.String())
}

// firstToken finds the leftmost token of an expression for error positions.
func firstToken(expr ast.Expression) token.Token {
	switch expr := expr.(type) {
	case *ast.InfixExpression:
		return firstToken(expr.Left)
	case *ast.PrefixExpression:
		return expr.Token
	case *ast.Identifier:
		return expr.Token
	case *ast.IntegerLiteral:
		return expr.Token
	case *ast.RealLiteral:
		return expr.Token
	case *ast.Boolean:
		return expr.Token
	default:
		return token.Token{}
	}
}
