package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titivuk/cliq/token"
)

func TestNextTokenSingle(t *testing.T) {
	cases := []struct {
		input   string
		typ     token.TokenType
		literal string
	}{
		{"WAIT", token.WAIT, "WAIT"},
		{"TRUE", token.BOOL_CONST, "TRUE"},
		{"FALSE", token.BOOL_CONST, "FALSE"},
		{"234", token.INTEGER_CONST, "234"},
		{"3.14", token.REAL_CONST, "3.14"},
		{"*", token.MUL, "*"},
		{"DIV", token.INTEGER_DIV, "DIV"},
		{"/", token.FLOAT_DIV, "/"},
		{"+", token.PLUS, "+"},
		{"-", token.MINUS, "-"},
		{"(", token.LPAREN, "("},
		{")", token.RPAREN, ")"},
		{":=", token.ASSIGN, ":="},
		{"==", token.EQUAL, "=="},
		{"!=", token.NEQUAL, "!="},
		{"<=", token.LTE, "<="},
		{">=", token.GTE, ">="},
		{"<", token.LT, "<"},
		{">", token.GT, ">"},
		{".", token.DOT, "."},
		{";", token.SEMI, ";"},
		{":", token.COLON, ":"},
		{",", token.COMMA, ","},
		{"IF", token.IF, "IF"},
		{"ELSE", token.ELSE, "ELSE"},
		{"ENDIF", token.ENDIF, "ENDIF"},
		{"LOOP", token.LOOP, "LOOP"},
		{"UNTIL", token.UNTIL, "UNTIL"},
		{"MOVETO", token.MOVETO, "MOVETO"},
		{"ROTATE", token.ROTATE, "ROTATE"},
		{"STOP", token.STOP, "STOP"},
		{"HOME", token.HOME, "HOME"},
		{"number", token.ID, "number"},
		{"limit_2", token.ID, "limit_2"},
		{"begin", token.ID, "begin"},
		{"BEGIN", token.BEGIN, "BEGIN"},
		{"WAYPOINT", token.WAYPOINT, "WAYPOINT"},
		{"IO", token.IO, "IO"},
		{"PININ", token.PININ, "PININ"},
		{"END", token.END, "END"},
	}

	for _, c := range cases {
		l := New(c.input)
		tok, err := l.NextToken()
		require.NoError(t, err, c.input)
		assert.Equal(t, c.typ, tok.Type, c.input)
		assert.Equal(t, c.literal, tok.Literal, c.input)

		eof, err := l.NextToken()
		require.NoError(t, err, c.input)
		assert.Equal(t, token.TokenType(token.EOF), eof.Type, c.input)
	}
}

func TestReservedWordsRoundTrip(t *testing.T) {
	for word, typ := range token.Keywords() {
		tok, err := New(word).NextToken()
		require.NoError(t, err)
		want := token.Token{Type: typ, Literal: word}
		assert.True(t, want.Equal(tok), "%s: got %s want %s", word, tok, want)
		assert.Equal(t, want.String(), tok.String())
	}
	for spelling, typ := range token.Operators {
		tok, err := New(spelling).NextToken()
		require.NoError(t, err)
		want := token.Token{Type: typ, Literal: spelling}
		assert.True(t, want.Equal(tok), "%s: got %s want %s", spelling, tok, want)
	}
}

func TestNextTokenSequence(t *testing.T) {
	input := `PROGRAM Test;
VAR
    aa, BB : INTEGER; { declared together }
BEGIN
    aa := 7 DIV 2;
    IF aa >= 3:
        BB := -1.5;
    ENDIF;
END.`

	want := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.PROGRAM, "PROGRAM"},
		{token.ID, "Test"},
		{token.SEMI, ";"},
		{token.VAR, "VAR"},
		{token.ID, "aa"},
		{token.COMMA, ","},
		{token.ID, "BB"},
		{token.COLON, ":"},
		{token.INTEGER, "INTEGER"},
		{token.SEMI, ";"},
		{token.BEGIN, "BEGIN"},
		{token.ID, "aa"},
		{token.ASSIGN, ":="},
		{token.INTEGER_CONST, "7"},
		{token.INTEGER_DIV, "DIV"},
		{token.INTEGER_CONST, "2"},
		{token.SEMI, ";"},
		{token.IF, "IF"},
		{token.ID, "aa"},
		{token.GTE, ">="},
		{token.INTEGER_CONST, "3"},
		{token.COLON, ":"},
		{token.ID, "BB"},
		{token.ASSIGN, ":="},
		{token.MINUS, "-"},
		{token.REAL_CONST, "1.5"},
		{token.SEMI, ";"},
		{token.ENDIF, "ENDIF"},
		{token.SEMI, ";"},
		{token.END, "END"},
		{token.DOT, "."},
		{token.EOF, ""},
	}

	tokens, err := New(input).Tokenize()
	require.NoError(t, err)
	require.Len(t, tokens, len(want))
	for i, w := range want {
		assert.Equal(t, w.typ, tokens[i].Type, "token %d", i)
		assert.Equal(t, w.literal, tokens[i].Literal, "token %d", i)
	}
}

func TestNumber(t *testing.T) {
	cases := []struct {
		input   string
		typ     token.TokenType
		literal string
		next    token.TokenType
	}{
		{"12345  )))", token.INTEGER_CONST, "12345", token.RPAREN},
		{"123.45", token.REAL_CONST, "123.45", token.EOF},
		{"5.", token.INTEGER_CONST, "5", token.DOT},
		{"0.5;", token.REAL_CONST, "0.5", token.SEMI},
	}

	for _, c := range cases {
		l := New(c.input)
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, c.typ, tok.Type, c.input)
		assert.Equal(t, c.literal, tok.Literal, c.input)

		next, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, c.next, next.Type, c.input)
	}

	// a leading '.' is not a number
	tok, err := New(".5").NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.TokenType(token.DOT), tok.Type)
}

func TestComment(t *testing.T) {
	tok, err := New("{this is a comment}  \n").NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.TokenType(token.EOF), tok.Type)

	tok, err = New("{one}{two} HOME").NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.TokenType(token.HOME), tok.Type)

	for _, input := range []string{"{missing closing brace  \n}", "{never closed"} {
		_, err = New(input).NextToken()
		var lexErr *Error
		require.True(t, errors.As(err, &lexErr), input)
		assert.Equal(t, MalformedComment, lexErr.Kind, input)
		assert.Equal(t, 1, lexErr.Line, input)
	}
}

func TestInvalidCharacter(t *testing.T) {
	l := New("  !=  \n  @")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.TokenType(token.NEQUAL), tok.Type)
	assert.Equal(t, 1, tok.Line)
	assert.Equal(t, 3, tok.Column)

	_, err = l.NextToken()
	var lexErr *Error
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, InvalidCharacter, lexErr.Kind)
	assert.Equal(t, byte('@'), lexErr.Char)
	assert.Equal(t, 2, lexErr.Line)
	assert.Equal(t, 3, lexErr.Column)
	assert.Contains(t, lexErr.Error(), "'@'")

	// a lone '=' and '!' are not operators
	for _, input := range []string{"=", "!"} {
		_, err := New(input).NextToken()
		require.Error(t, err, input)
	}
}

func TestNulByteIsNotEndOfInput(t *testing.T) {
	tokens, err := New("END.\x00 @@@").Tokenize()
	var lexErr *Error
	require.True(t, errors.As(err, &lexErr), "%v", err)
	assert.Equal(t, InvalidCharacter, lexErr.Kind)
	assert.Equal(t, byte(0), lexErr.Char)
	assert.Equal(t, 5, lexErr.Column)
	require.Len(t, tokens, 2)
	assert.Equal(t, token.TokenType(token.DOT), tokens[1].Type)

	tok, err := New("{nul \x00 inside} HOME").NextToken()
	require.NoError(t, err)
	assert.Equal(t, token.TokenType(token.HOME), tok.Type)
}
