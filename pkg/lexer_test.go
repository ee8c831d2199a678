package lox

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.lox.dev/internal/test"
)

func tok(typ TokenType, lexeme string, line int) Token {
	return Token{Typ: typ, Lexeme: lexeme, Line: line}
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"var a = 1;",
			false,
			[]Token{
				tok(TokenVar, "var", 1),
				tok(TokenIdentifier, "a", 1),
				tok(TokenEqual, "=", 1),
				{TokenNumber, "1", NumberValue(1), 1},
				tok(TokenSemicolon, ";", 1),
				tok(TokenEOF, "", 1),
			},
		},
		{
			"// this is a comment\nprint nil;",
			false,
			[]Token{
				tok(TokenPrint, "print", 2),
				tok(TokenNil, "nil", 2),
				tok(TokenSemicolon, ";", 2),
				tok(TokenEOF, "", 2),
			},
		},
		{
			"< <= > >= = == ! !=",
			false,
			[]Token{
				tok(TokenLess, "<", 1),
				tok(TokenLessEqual, "<=", 1),
				tok(TokenGreater, ">", 1),
				tok(TokenGreaterEqual, ">=", 1),
				tok(TokenEqual, "=", 1),
				tok(TokenEqualEqual, "==", 1),
				tok(TokenBang, "!", 1),
				tok(TokenBangEqual, "!=", 1),
				tok(TokenEOF, "", 1),
			},
		},
		{
			"(){},.-+;/*",
			false,
			[]Token{
				tok(TokenLeftParen, "(", 1),
				tok(TokenRightParen, ")", 1),
				tok(TokenLeftBrace, "{", 1),
				tok(TokenRightBrace, "}", 1),
				tok(TokenComma, ",", 1),
				tok(TokenDot, ".", 1),
				tok(TokenMinus, "-", 1),
				tok(TokenPlus, "+", 1),
				tok(TokenSemicolon, ";", 1),
				tok(TokenSlash, "/", 1),
				tok(TokenStar, "*", 1),
				tok(TokenEOF, "", 1),
			},
		},
		{
			"12.5 7. 0",
			false,
			[]Token{
				{TokenNumber, "12.5", NumberValue(12.5), 1},
				{TokenNumber, "7", NumberValue(7), 1},
				tok(TokenDot, ".", 1),
				{TokenNumber, "0", NumberValue(0), 1},
				tok(TokenEOF, "", 1),
			},
		},
		{
			"\"\"",
			false,
			[]Token{
				{TokenString, "\"\"", StringValue(""), 1},
				tok(TokenEOF, "", 1),
			},
		},
		{
			"\"multi\nline\" x",
			false,
			[]Token{
				{TokenString, "\"multi\nline\"", StringValue("multi\nline"), 1},
				tok(TokenIdentifier, "x", 2),
				tok(TokenEOF, "", 2),
			},
		},
		{
			"únicódeShouldBeVàlid_2 class fun return this super",
			false,
			[]Token{
				tok(TokenIdentifier, "únicódeShouldBeVàlid_2", 1),
				tok(TokenClass, "class", 1),
				tok(TokenFun, "fun", 1),
				tok(TokenReturn, "return", 1),
				tok(TokenThis, "this", 1),
				tok(TokenSuper, "super", 1),
				tok(TokenEOF, "", 1),
			},
		},
		{
			"\"unclosed string",
			true,
			[]Token{
				tok(TokenEOF, "", 1),
			},
		},
		{
			"a @ b",
			true,
			[]Token{
				tok(TokenIdentifier, "a", 1),
				tok(TokenIdentifier, "b", 1),
				tok(TokenEOF, "", 1),
			},
		},
	}

	for _, c := range cases {
		l := NewLexer(strings.NewReader(c.data))

		toks, errs := l.RunBlocking()
		if c.fail {
			assert.NotEmpty(t, errs, c.data)
		} else {
			assert.Empty(t, errs, c.data)
		}

		assert.Equal(t, c.expect, toks, c.data)
	}
}

func TestLexerContinuesAfterErrors(t *testing.T) {
	toks, errs := NewLexer(strings.NewReader("@\nprint 1;\n#\n\"open")).RunBlocking()

	require.Len(t, errs, 3)
	assert.Equal(t, &SyntaxError{Line: 1, Message: "Unexpected character."}, errs[0])
	assert.Equal(t, &SyntaxError{Line: 3, Message: "Unexpected character."}, errs[1])
	assert.Equal(t, &SyntaxError{Line: 4, Message: "Unterminated string."}, errs[2])

	assert.Equal(t, "line[4] Error: Unterminated string.", errs[2].Error())

	require.Len(t, toks, 4)
	assert.Equal(t, TokenPrint, toks[0].Typ)
	assert.Equal(t, 2, toks[0].Line)
	assert.Equal(t, TokenEOF, toks[3].Typ)
}

func TestLexerNulIsNotEndOfInput(t *testing.T) {
	toks, errs := NewLexer(strings.NewReader("\x00 print 1;")).RunBlocking()

	require.Len(t, errs, 1)
	assert.Equal(t, &SyntaxError{Line: 1, Message: "Unexpected character."}, errs[0])
	assert.Equal(t, []Token{
		tok(TokenPrint, "print", 1),
		{TokenNumber, "1", NumberValue(1), 1},
		tok(TokenSemicolon, ";", 1),
		tok(TokenEOF, "", 1),
	}, toks)

	// Inside a string a NUL is just another character
	toks, errs = NewLexer(strings.NewReader("\"a\x00b\"")).RunBlocking()
	assert.Empty(t, errs)
	assert.Equal(t, StringValue("a\x00b"), toks[0].Literal)
}

func TestLexerReadError(t *testing.T) {
	errRead := errors.New("short read")
	l := NewLexer(io.MultiReader(strings.NewReader("print 1; "), iotest.ErrReader(errRead)))

	toks, errs := l.RunBlocking()

	assert.ErrorIs(t, l.Err(), errRead)
	assert.Empty(t, errs)
	assert.Equal(t, TokenEOF, toks[len(toks)-1].Typ, "the token stream is still terminated")
}

func TestLexerErrNilAtEOF(t *testing.T) {
	l := NewLexer(strings.NewReader("print 1;"))
	_, _ = l.RunBlocking()

	assert.NoError(t, l.Err())
}

func TestLexerSingleEOF(t *testing.T) {
	for _, data := range []string{"", "   ", "\n\n", "// only a comment", "var"} {
		toks, _ := NewLexer(strings.NewReader(data)).RunBlocking()

		eofs := 0
		for _, tk := range toks {
			if tk.Typ == TokenEOF {
				eofs++
			}
		}

		assert.Equal(t, 1, eofs, data)
		assert.Equal(t, TokenEOF, toks[len(toks)-1].Typ, data)
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "GreaterEqual", TokenGreaterEqual.String())
	assert.Equal(t, "While", TokenWhile.String())
	assert.Equal(t, "TokenType(999)", TokenType(999).String())

	assert.Equal(t, `Number "2.50" 2.5`, Token{TokenNumber, "2.50", NumberValue(2.5), 1}.String())
	assert.Equal(t, `Identifier "x"`, tok(TokenIdentifier, "x", 1).String())
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		r := strings.NewReader(data)
		l := NewLexer(r)

		b.StartTimer()

		benchResult, _ = l.RunBlocking()
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
