package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/titivuk/cliq/token"
)

// Node is implemented by every node the parser produces. The set of node
// types is closed: the marker methods below are unexported, so only this
// package can add a variant.
type Node interface {
	TokenLiteral() string
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Declaration interface {
	Node
	declarationNode()
}

// root node of AST
type Program struct {
	Token token.Token // the token.PROGRAM token
	Name  string
	Block *Block
}

func (p *Program) TokenLiteral() string { return p.Token.Literal }

func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("PROGRAM " + p.Name + ";\n")
	out.WriteString(p.Block.String())
	out.WriteString(".")
	return out.String()
}

// Block holds the three declaration sections, in source order, and the body.
type Block struct {
	Declarations []*VarDecl
	IOList       []*IODecl
	Waypoints    []*WaypointDecl
	Body         *Compound
}

func (b *Block) TokenLiteral() string { return b.Body.TokenLiteral() }

func (b *Block) String() string {
	var out bytes.Buffer
	if len(b.Declarations) > 0 {
		out.WriteString("VAR\n")
		for _, d := range b.Declarations {
			out.WriteString("    " + d.String() + ";\n")
		}
	}
	if len(b.IOList) > 0 {
		out.WriteString("IO\n")
		for _, d := range b.IOList {
			out.WriteString("    " + d.String() + ";\n")
		}
	}
	if len(b.Waypoints) > 0 {
		out.WriteString("WAYPOINT\n")
		for _, d := range b.Waypoints {
			out.WriteString("    " + d.String() + ";\n")
		}
	}
	out.WriteString("BEGIN\n")
	for _, s := range b.Body.Statements {
		if _, ok := s.(*NoOp); ok {
			continue
		}
		out.WriteString("    " + s.String() + ";\n")
	}
	out.WriteString("END")
	return out.String()
}

// VarDecl declares one variable. `a, b : INTEGER` yields two of them.
type VarDecl struct {
	Token token.Token // the token.ID token
	Name  string
	Type  token.TokenType // token.INTEGER, token.REAL or token.BOOL
}

func (vd *VarDecl) declarationNode()     {}
func (vd *VarDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDecl) String() string       { return fmt.Sprintf("%s : %s", vd.Name, vd.Type) }

type IODecl struct {
	Token     token.Token // the token.ID token
	Name      string
	Direction token.TokenType // token.PININ or token.PINOUT
	Pin       int64
}

func (io *IODecl) declarationNode()     {}
func (io *IODecl) TokenLiteral() string { return io.Token.Literal }
func (io *IODecl) String() string {
	return fmt.Sprintf("%s : %s %d", io.Name, io.Direction, io.Pin)
}

// WaypointDecl names a (distance, speed) pair that MOVETO and ROTATE can
// refer to.
type WaypointDecl struct {
	Token    token.Token // the token.ID token
	Name     string
	Distance Expression
	Speed    Expression
}

func (wd *WaypointDecl) declarationNode()     {}
func (wd *WaypointDecl) TokenLiteral() string { return wd.Token.Literal }
func (wd *WaypointDecl) String() string {
	return fmt.Sprintf("%s := %s, %s", wd.Name, wd.Distance.String(), wd.Speed.String())
}

// Compound is BEGIN ... END, or the bare statement list of an IF or LOOP body.
type Compound struct {
	Token      token.Token // first token of the list
	Statements []Statement
}

func (c *Compound) statementNode()       {}
func (c *Compound) TokenLiteral() string { return c.Token.Literal }
func (c *Compound) String() string {
	parts := make([]string, 0, len(c.Statements))
	for _, s := range c.Statements {
		if _, ok := s.(*NoOp); ok {
			continue
		}
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "; ")
}

type Assign struct {
	Token token.Token // the token.ASSIGN token
	Name  *Identifier
	Value Expression
}

func (a *Assign) statementNode()       {}
func (a *Assign) TokenLiteral() string { return a.Token.Literal }
func (a *Assign) String() string {
	return a.Name.String() + " := " + a.Value.String()
}

type If struct {
	Token       token.Token // the token.IF token
	Condition   Expression
	Consequence *Compound
	Alternative Statement // *Compound, or *NoOp when there is no ELSE
}

func (i *If) statementNode()       {}
func (i *If) TokenLiteral() string { return i.Token.Literal }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("IF " + i.Condition.String() + ": " + i.Consequence.String() + ";")
	if alt, ok := i.Alternative.(*Compound); ok {
		out.WriteString(" ELSE: " + alt.String() + ";")
	}
	out.WriteString(" ENDIF")
	return out.String()
}

// Loop runs Body, then tests Condition, until Condition is true.
type Loop struct {
	Token     token.Token // the token.LOOP token
	Body      *Compound
	Condition Expression
}

func (l *Loop) statementNode()       {}
func (l *Loop) TokenLiteral() string { return l.Token.Literal }
func (l *Loop) String() string {
	return "LOOP: " + l.Body.String() + "; UNTIL " + l.Condition.String()
}

type Wait struct {
	Token    token.Token // the token.WAIT token
	Duration Expression
}

func (w *Wait) statementNode()       {}
func (w *Wait) TokenLiteral() string { return w.Token.Literal }
func (w *Wait) String() string       { return "WAIT " + w.Duration.String() }

// Moveto drives the linear axis. Speed is nil when only one operand was
// given.
type Moveto struct {
	Token    token.Token // the token.MOVETO token
	Distance Expression
	Speed    Expression
}

func (m *Moveto) statementNode()       {}
func (m *Moveto) TokenLiteral() string { return m.Token.Literal }
func (m *Moveto) String() string       { return motionString("MOVETO", m.Distance, m.Speed) }

// Rotate drives the rotary axis. Speed is nil when only one operand was
// given.
type Rotate struct {
	Token    token.Token // the token.ROTATE token
	Distance Expression
	Speed    Expression
}

func (r *Rotate) statementNode()       {}
func (r *Rotate) TokenLiteral() string { return r.Token.Literal }
func (r *Rotate) String() string       { return motionString("ROTATE", r.Distance, r.Speed) }

func motionString(keyword string, distance, speed Expression) string {
	if speed == nil {
		return keyword + " " + distance.String()
	}
	return keyword + " " + distance.String() + ", " + speed.String()
}

type Home struct {
	Token token.Token // the token.HOME token
}

func (h *Home) statementNode()       {}
func (h *Home) TokenLiteral() string { return h.Token.Literal }
func (h *Home) String() string       { return "HOME" }

type Stop struct {
	Token token.Token // the token.STOP token
}

func (s *Stop) statementNode()       {}
func (s *Stop) TokenLiteral() string { return s.Token.Literal }
func (s *Stop) String() string       { return "STOP" }

// NoOp is the empty statement.
type NoOp struct{}

func (n *NoOp) statementNode()       {}
func (n *NoOp) TokenLiteral() string { return "" }
func (n *NoOp) String() string       { return "" }

type Identifier struct {
	Token token.Token // the token.ID token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

type RealLiteral struct {
	Token token.Token
	Value float64
}

func (rl *RealLiteral) expressionNode()      {}
func (rl *RealLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RealLiteral) String() string       { return rl.Token.Literal }

type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

type PrefixExpression struct {
	Token    token.Token // the prefix token, e.g. -
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}
