package token

import "fmt"

const (
	EOF = "EOF" // EOF tells the parser there is no more input

	// identifiers + literals
	ID            = "ID"            // number, approach, ...
	INTEGER_CONST = "INTEGER_CONST" // 12345
	REAL_CONST    = "REAL_CONST"    // 3.14
	BOOL_CONST    = "BOOL_CONST"    // TRUE, FALSE

	// operators
	ASSIGN      = "ASSIGN"
	PLUS        = "PLUS"
	MINUS       = "MINUS"
	MUL         = "MUL"
	INTEGER_DIV = "INTEGER_DIV"
	FLOAT_DIV   = "FLOAT_DIV"
	EQUAL       = "EQUAL"
	NEQUAL      = "NEQUAL"
	LT          = "LT"
	LTE         = "LTE"
	GT          = "GT"
	GTE         = "GTE"

	// delimiters
	LPAREN = "LPAREN"
	RPAREN = "RPAREN"
	SEMI   = "SEMI"
	COLON  = "COLON"
	COMMA  = "COMMA"
	DOT    = "DOT"

	// keywords
	PROGRAM  = "PROGRAM"
	BEGIN    = "BEGIN"
	END      = "END"
	VAR      = "VAR"
	IO       = "IO"
	WAYPOINT = "WAYPOINT"
	IF       = "IF"
	ELSE     = "ELSE"
	ENDIF    = "ENDIF"
	LOOP     = "LOOP"
	UNTIL    = "UNTIL"
	WAIT     = "WAIT"
	MOVETO   = "MOVETO"
	ROTATE   = "ROTATE"
	HOME     = "HOME"
	STOP     = "STOP"

	// type names
	INTEGER = "INTEGER"
	REAL    = "REAL"
	BOOL    = "BOOL"
	PININ   = "PININ"
	PINOUT  = "PINOUT"
)

var keywords = map[string]TokenType{
	"PROGRAM":  PROGRAM,
	"BEGIN":    BEGIN,
	"END":      END,
	"VAR":      VAR,
	"IO":       IO,
	"WAYPOINT": WAYPOINT,
	"IF":       IF,
	"ELSE":     ELSE,
	"ENDIF":    ENDIF,
	"LOOP":     LOOP,
	"UNTIL":    UNTIL,
	"WAIT":     WAIT,
	"MOVETO":   MOVETO,
	"ROTATE":   ROTATE,
	"HOME":     HOME,
	"STOP":     STOP,
	"INTEGER":  INTEGER,
	"REAL":     REAL,
	"BOOL":     BOOL,
	"PININ":    PININ,
	"PINOUT":   PINOUT,
	"DIV":      INTEGER_DIV,
	"TRUE":     BOOL_CONST,
	"FALSE":    BOOL_CONST,
}

// Operators maps every operator and delimiter spelling to its kind.
// Two-character spellings must be matched before their one-character prefixes.
var Operators = map[string]TokenType{
	":=": ASSIGN,
	"==": EQUAL,
	"!=": NEQUAL,
	"<=": LTE,
	">=": GTE,
	"<":  LT,
	">":  GT,
	"+":  PLUS,
	"-":  MINUS,
	"*":  MUL,
	"/":  FLOAT_DIV,
	"(":  LPAREN,
	")":  RPAREN,
	";":  SEMI,
	":":  COLON,
	",":  COMMA,
	".":  DOT,
}

type TokenType string

type Token struct {
	Type    TokenType
	Literal string

	// 1-based source position, used only for diagnostics
	Line   int
	Column int
}

// Equal reports whether two tokens have the same kind and value.
// Positions are ignored.
func (t Token) Equal(other Token) bool {
	return t.Type == other.Type && t.Literal == other.Literal
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, '%s')", t.Type, t.Literal)
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}

	return ID
}

// Keywords returns a copy of the reserved-word table.
func Keywords() map[string]TokenType {
	kw := make(map[string]TokenType, len(keywords))
	for k, v := range keywords {
		kw[k] = v
	}
	return kw
}

// IsRelational reports whether t compares two operands and yields a boolean.
func IsRelational(t TokenType) bool {
	switch t {
	case EQUAL, NEQUAL, LT, LTE, GT, GTE:
		return true
	}
	return false
}
