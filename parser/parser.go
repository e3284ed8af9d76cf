package parser

import (
	"fmt"
	"strconv"

	"github.com/titivuk/cliq/ast"
	"github.com/titivuk/cliq/lexer"
	"github.com/titivuk/cliq/token"
)

// SyntaxError reports a token the grammar did not allow at that point.
type SyntaxError struct {
	Expected string
	Found    token.TokenType
	Literal  string
	Line     int
	Column   int
}

func (e *SyntaxError) Error() string {
	found := string(e.Found)
	if e.Literal != "" && e.Literal != found {
		found = fmt.Sprintf("%s %q", e.Found, e.Literal)
	}
	return fmt.Sprintf("syntax error at line %d column %d: expected %s, found %s",
		e.Line, e.Column, e.Expected, found)
}

// Parser is a recursive-descent parser with a single token of lookahead.
//
//	program      : PROGRAM ID SEMI block DOT
//	block        : [VAR var_decl+] [IO io_decl+] [WAYPOINT waypoint_decl+] compound
//	var_decl     : ID (COMMA ID)* COLON (INTEGER | REAL | BOOL) SEMI
//	io_decl      : ID COLON (PININ | PINOUT) INTEGER_CONST SEMI
//	waypoint_decl: ID ASSIGN factor COMMA factor SEMI
//	compound     : BEGIN statement_list END
//	statement_list: statement (SEMI statement)*
//	statement    : compound | assignment | if | loop | wait | moveto | rotate | home | stop | empty
//	if           : IF expr COLON statement_list [ELSE COLON statement_list] ENDIF
//	loop         : LOOP COLON statement_list UNTIL expr
//	moveto       : MOVETO factor [COMMA factor]
//	rotate       : ROTATE factor [COMMA factor]
//	expr         : sum [(EQUAL | NEQUAL | LT | LTE | GT | GTE) sum]
//	sum          : term ((PLUS | MINUS) term)*
//	term         : factor ((MUL | INTEGER_DIV | FLOAT_DIV) factor)*
//	factor       : (PLUS | MINUS) factor | INTEGER_CONST | REAL_CONST | BOOL_CONST
//	             | LPAREN expr RPAREN | ID
type Parser struct {
	l *lexer.Lexer

	currToken token.Token

	// set when reading the very first token failed
	err error
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	// Read one token, so currToken is set
	p.err = p.nextToken()

	return p
}

// ParseProgram lexes and parses a complete source text.
func ParseProgram(input string) (*ast.Program, error) {
	return New(lexer.New(input)).Parse()
}

// Parse parses one program and requires the input to end after its final DOT.
func (p *Parser) Parse() (*ast.Program, error) {
	if p.err != nil {
		return nil, p.err
	}

	program, err := p.parseProgram()
	if err != nil {
		return nil, err
	}

	if !p.currTokenIs(token.EOF) {
		return nil, p.syntaxError(token.EOF)
	}

	return program, nil
}

func (p *Parser) nextToken() error {
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.currToken = tok
	return nil
}

func (p *Parser) currTokenIs(t token.TokenType) bool {
	return p.currToken.Type == t
}

// eat consumes the current token if it has the expected type
func (p *Parser) eat(t token.TokenType) error {
	if !p.currTokenIs(t) {
		return p.syntaxError(string(t))
	}
	return p.nextToken()
}

func (p *Parser) syntaxError(expected string) error {
	return &SyntaxError{
		Expected: expected,
		Found:    p.currToken.Type,
		Literal:  p.currToken.Literal,
		Line:     p.currToken.Line,
		Column:   p.currToken.Column,
	}
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	program := &ast.Program{Token: p.currToken}
	if err := p.eat(token.PROGRAM); err != nil {
		return nil, err
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	program.Name = name.Value

	if err := p.eat(token.SEMI); err != nil {
		return nil, err
	}

	program.Block, err = p.parseBlock()
	if err != nil {
		return nil, err
	}

	if err := p.eat(token.DOT); err != nil {
		return nil, err
	}

	return program, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	var err error
	block := &ast.Block{}

	if block.Declarations, err = p.parseVarSection(); err != nil {
		return nil, err
	}
	if block.IOList, err = p.parseIOSection(); err != nil {
		return nil, err
	}
	if block.Waypoints, err = p.parseWaypointSection(); err != nil {
		return nil, err
	}
	if block.Body, err = p.parseCompound(true); err != nil {
		return nil, err
	}

	return block, nil
}

func (p *Parser) parseVarSection() ([]*ast.VarDecl, error) {
	decls := []*ast.VarDecl{}
	if !p.currTokenIs(token.VAR) {
		return decls, nil
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	for p.currTokenIs(token.ID) {
		group, err := p.parseVariableDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, group...)

		if err := p.eat(token.SEMI); err != nil {
			return nil, err
		}
	}

	return decls, nil
}

// parseVariableDeclaration expands `a, b, c : TYPE` into one VarDecl per name
func (p *Parser) parseVariableDeclaration() ([]*ast.VarDecl, error) {
	var names []token.Token

	names = append(names, p.currToken)
	if err := p.eat(token.ID); err != nil {
		return nil, err
	}

	for p.currTokenIs(token.COMMA) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		names = append(names, p.currToken)
		if err := p.eat(token.ID); err != nil {
			return nil, err
		}
	}

	if err := p.eat(token.COLON); err != nil {
		return nil, err
	}

	typ := p.currToken.Type
	switch typ {
	case token.INTEGER, token.REAL, token.BOOL:
	default:
		return nil, p.syntaxError("INTEGER, REAL or BOOL")
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	decls := make([]*ast.VarDecl, 0, len(names))
	for _, name := range names {
		decls = append(decls, &ast.VarDecl{Token: name, Name: name.Literal, Type: typ})
	}

	return decls, nil
}

func (p *Parser) parseIOSection() ([]*ast.IODecl, error) {
	decls := []*ast.IODecl{}
	if !p.currTokenIs(token.IO) {
		return decls, nil
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	for p.currTokenIs(token.ID) {
		decl := &ast.IODecl{Token: p.currToken, Name: p.currToken.Literal}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.eat(token.COLON); err != nil {
			return nil, err
		}

		decl.Direction = p.currToken.Type
		if decl.Direction != token.PININ && decl.Direction != token.PINOUT {
			return nil, p.syntaxError("PININ or PINOUT")
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}

		if !p.currTokenIs(token.INTEGER_CONST) {
			return nil, p.syntaxError(token.INTEGER_CONST)
		}
		pin, err := strconv.ParseInt(p.currToken.Literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse %q as pin number: %w", p.currToken.Literal, err)
		}
		decl.Pin = pin
		if err := p.nextToken(); err != nil {
			return nil, err
		}

		if err := p.eat(token.SEMI); err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	return decls, nil
}

func (p *Parser) parseWaypointSection() ([]*ast.WaypointDecl, error) {
	decls := []*ast.WaypointDecl{}
	if !p.currTokenIs(token.WAYPOINT) {
		return decls, nil
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	for p.currTokenIs(token.ID) {
		decl := &ast.WaypointDecl{Token: p.currToken, Name: p.currToken.Literal}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.eat(token.ASSIGN); err != nil {
			return nil, err
		}

		var err error
		if decl.Distance, err = p.parseFactor(); err != nil {
			return nil, err
		}
		if err := p.eat(token.COMMA); err != nil {
			return nil, err
		}
		if decl.Speed, err = p.parseFactor(); err != nil {
			return nil, err
		}

		if err := p.eat(token.SEMI); err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	return decls, nil
}

// parseCompound parses BEGIN statement_list END when begin is set, otherwise
// the bare statement list used by IF and LOOP bodies
func (p *Parser) parseCompound(begin bool) (*ast.Compound, error) {
	compound := &ast.Compound{Token: p.currToken}

	if begin {
		if err := p.eat(token.BEGIN); err != nil {
			return nil, err
		}
	}

	statements, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}
	compound.Statements = statements

	if begin {
		if err := p.eat(token.END); err != nil {
			return nil, err
		}
	}

	return compound, nil
}

func (p *Parser) parseStatementList() ([]ast.Statement, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	statements := []ast.Statement{stmt}

	for p.currTokenIs(token.SEMI) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.currToken.Type {
	case token.BEGIN:
		return p.parseCompound(true)
	case token.ID:
		return p.parseAssignment()
	case token.IF:
		return p.parseIf()
	case token.LOOP:
		return p.parseLoop()
	case token.WAIT:
		return p.parseWait()
	case token.MOVETO:
		tok := p.currToken
		distance, speed, err := p.parseMotionOperands()
		if err != nil {
			return nil, err
		}
		return &ast.Moveto{Token: tok, Distance: distance, Speed: speed}, nil
	case token.ROTATE:
		tok := p.currToken
		distance, speed, err := p.parseMotionOperands()
		if err != nil {
			return nil, err
		}
		return &ast.Rotate{Token: tok, Distance: distance, Speed: speed}, nil
	case token.HOME:
		stmt := &ast.Home{Token: p.currToken}
		return stmt, p.nextToken()
	case token.STOP:
		stmt := &ast.Stop{Token: p.currToken}
		return stmt, p.nextToken()
	default:
		return &ast.NoOp{}, nil
	}
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	stmt := &ast.Assign{Token: p.currToken, Name: name}
	if err := p.eat(token.ASSIGN); err != nil {
		return nil, err
	}

	stmt.Value, err = p.parseExpression()
	if err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	stmt := &ast.If{Token: p.currToken}
	if err := p.eat(token.IF); err != nil {
		return nil, err
	}

	var err error
	if stmt.Condition, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if err := p.eat(token.COLON); err != nil {
		return nil, err
	}
	if stmt.Consequence, err = p.parseCompound(false); err != nil {
		return nil, err
	}

	stmt.Alternative = &ast.NoOp{}
	if p.currTokenIs(token.ELSE) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.eat(token.COLON); err != nil {
			return nil, err
		}
		if stmt.Alternative, err = p.parseCompound(false); err != nil {
			return nil, err
		}
	}

	if err := p.eat(token.ENDIF); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) parseLoop() (ast.Statement, error) {
	stmt := &ast.Loop{Token: p.currToken}
	if err := p.eat(token.LOOP); err != nil {
		return nil, err
	}
	if err := p.eat(token.COLON); err != nil {
		return nil, err
	}

	var err error
	if stmt.Body, err = p.parseCompound(false); err != nil {
		return nil, err
	}
	if err := p.eat(token.UNTIL); err != nil {
		return nil, err
	}
	if stmt.Condition, err = p.parseExpression(); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) parseWait() (ast.Statement, error) {
	stmt := &ast.Wait{Token: p.currToken}
	if err := p.eat(token.WAIT); err != nil {
		return nil, err
	}

	var err error
	if stmt.Duration, err = p.parseExpression(); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseMotionOperands parses `factor [, factor]` after MOVETO or ROTATE.
// speed is nil when the second operand is absent.
func (p *Parser) parseMotionOperands() (distance, speed ast.Expression, err error) {
	if err := p.nextToken(); err != nil {
		return nil, nil, err
	}

	if distance, err = p.parseFactor(); err != nil {
		return nil, nil, err
	}

	if p.currTokenIs(token.COMMA) {
		if err := p.nextToken(); err != nil {
			return nil, nil, err
		}
		if speed, err = p.parseFactor(); err != nil {
			return nil, nil, err
		}
	}

	return distance, speed, nil
}

// parseExpression allows at most one comparison; `a < b < c` stops after b
func (p *Parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	if !token.IsRelational(p.currToken.Type) {
		return left, nil
	}

	return p.parseInfix(left, p.parseSum)
}

func (p *Parser) parseSum() (ast.Expression, error) {
	expression, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.currTokenIs(token.PLUS) || p.currTokenIs(token.MINUS) {
		expression, err = p.parseInfix(expression, p.parseTerm)
		if err != nil {
			return nil, err
		}
	}

	return expression, nil
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	expression, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.currTokenIs(token.MUL) || p.currTokenIs(token.INTEGER_DIV) || p.currTokenIs(token.FLOAT_DIV) {
		expression, err = p.parseInfix(expression, p.parseFactor)
		if err != nil {
			return nil, err
		}
	}

	return expression, nil
}

// parseInfix consumes the operator under currToken and parses the right
// operand with operand
func (p *Parser) parseInfix(left ast.Expression, operand func() (ast.Expression, error)) (ast.Expression, error) {
	expression := &ast.InfixExpression{
		Token:    p.currToken,
		Operator: p.currToken.Literal,
		Left:     left,
	}

	if err := p.nextToken(); err != nil {
		return nil, err
	}

	right, err := operand()
	if err != nil {
		return nil, err
	}
	expression.Right = right

	return expression, nil
}

func (p *Parser) parseFactor() (ast.Expression, error) {
	tok := p.currToken

	switch tok.Type {
	case token.PLUS, token.MINUS:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Right: right}, nil
	case token.INTEGER_CONST:
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse %q as integer at line %d column %d: %w",
				tok.Literal, tok.Line, tok.Column, err)
		}
		return &ast.IntegerLiteral{Token: tok, Value: value}, p.nextToken()
	case token.REAL_CONST:
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, fmt.Errorf("could not parse %q as real at line %d column %d: %w",
				tok.Literal, tok.Line, tok.Column, err)
		}
		return &ast.RealLiteral{Token: tok, Value: value}, p.nextToken()
	case token.BOOL_CONST:
		return &ast.Boolean{Token: tok, Value: tok.Literal == "TRUE"}, p.nextToken()
	case token.LPAREN:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		exp, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.eat(token.RPAREN); err != nil {
			return nil, err
		}
		return exp, nil
	default:
		return p.parseIdentifier()
	}
}

func (p *Parser) parseIdentifier() (*ast.Identifier, error) {
	ident := &ast.Identifier{Token: p.currToken, Value: p.currToken.Literal}
	if err := p.eat(token.ID); err != nil {
		return nil, err
	}
	return ident, nil
}
