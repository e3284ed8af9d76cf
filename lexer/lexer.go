package lexer

import (
	"fmt"

	"github.com/titivuk/cliq/token"
)

type ErrorKind int

const (
	InvalidCharacter ErrorKind = iota + 1
	MalformedComment
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "invalid character"
	case MalformedComment:
		return "malformed comment"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a lexical error. Line and Column point at the offending character.
type Error struct {
	Kind   ErrorKind
	Char   byte
	Line   int
	Column int
}

func (e *Error) Error() string {
	if e.Kind == MalformedComment {
		return fmt.Sprintf("missing closing brace of comment at line %d column %d", e.Line, e.Column)
	}
	return fmt.Sprintf("invalid character %q at line %d column %d", e.Char, e.Line, e.Column)
}

// Lexer supports only ASCII
// it allows us to use byte and access ch by index
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current read position in input (after current char)
	ch           byte // current char under examination
	line         int  // 1-based line of ch
	column       int  // 1-based column of ch
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line += 1
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition += 1
	l.column += 1
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// a NUL byte inside the input is a character like any other
func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token. Once the input is exhausted every call
// returns an EOF token.
func (l *Lexer) NextToken() (token.Token, error) {
	for {
		l.skipWhitespace()
		if l.ch != '{' {
			break
		}
		if err := l.skipComment(); err != nil {
			return token.Token{}, err
		}
	}

	tok := token.Token{Line: l.line, Column: l.column}

	switch {
	case l.atEOF():
		tok.Type = token.EOF
		return tok, nil
	case isLetter(l.ch):
		tok.Literal = l.readIdentifier()
		tok.Type = token.LookupIdent(tok.Literal)
		return tok, nil
	case isDigit(l.ch):
		tok.Literal, tok.Type = l.readNumber()
		return tok, nil
	}

	// two-character operators first: `<=` must not lex as `<` `=`
	pair := string([]byte{l.ch, l.peekChar()})
	if typ, ok := token.Operators[pair]; ok {
		l.readChar()
		l.readChar()
		tok.Type = typ
		tok.Literal = pair
		return tok, nil
	}

	if typ, ok := token.Operators[string(l.ch)]; ok {
		tok.Type = typ
		tok.Literal = string(l.ch)
		l.readChar()
		return tok, nil
	}

	return token.Token{}, &Error{Kind: InvalidCharacter, Char: l.ch, Line: l.line, Column: l.column}
}

// Tokenize runs the lexer to the end of input. The returned slice ends with
// the EOF token.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// a comment runs from { to } and must close on the line it opens
func (l *Lexer) skipComment() error {
	l.readChar()
	for l.ch != '}' {
		if l.ch == '\n' || l.atEOF() {
			return &Error{Kind: MalformedComment, Char: l.ch, Line: l.line, Column: l.column}
		}
		l.readChar()
	}
	l.readChar()
	return nil
}

func (l *Lexer) readIdentifier() string {
	position := l.position

	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	return l.input[position:l.position]
}

// a '.' is part of the number only when a digit follows it, so `END.` and
// `x := 5.` still end with a DOT token
func (l *Lexer) readNumber() (string, token.TokenType) {
	position := l.position
	typ := token.TokenType(token.INTEGER_CONST)

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		typ = token.REAL_CONST
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[position:l.position], typ
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
