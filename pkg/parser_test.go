package lox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.lox.dev/internal/test"
)

func num(n float64) Token {
	return Token{TokenNumber, Stringify(NumberValue(n)), NumberValue(n), 1}
}

func str(s string) Token {
	return Token{TokenString, `"` + s + `"`, StringValue(s), 1}
}

func ident(name string) Token {
	return tok(TokenIdentifier, name, 1)
}

func op(typ TokenType, lexeme string) Token {
	return tok(typ, lexeme, 1)
}

var semicolon = op(TokenSemicolon, ";")

func TestParser(t *testing.T) {
	cases := []struct {
		data   []Token
		fail   bool
		expect []Stmt
	}{
		{
			[]Token{op(TokenVar, "var"), ident("a"), op(TokenEqual, "="), num(1), semicolon},
			false,
			[]Stmt{
				&VarStmt{Name: ident("a"), Initializer: &LiteralExpr{NumberValue(1)}},
			},
		},
		{
			[]Token{op(TokenVar, "var"), ident("a"), semicolon},
			false,
			[]Stmt{
				&VarStmt{Name: ident("a")},
			},
		},
		{
			[]Token{op(TokenPrint, "print"), str("hi"), semicolon},
			false,
			[]Stmt{
				&PrintStmt{Expression: &LiteralExpr{StringValue("hi")}},
			},
		},
		{
			[]Token{op(TokenTrue, "true"), op(TokenEqualEqual, "=="), op(TokenFalse, "false"), op(TokenBangEqual, "!="), op(TokenNil, "nil"), semicolon},
			false,
			[]Stmt{
				&ExpressionStmt{Expression: &BinaryExpr{
					Left: &BinaryExpr{
						Left:     &LiteralExpr{BoolValue(true)},
						Operator: op(TokenEqualEqual, "=="),
						Right:    &LiteralExpr{BoolValue(false)},
					},
					Operator: op(TokenBangEqual, "!="),
					Right:    &LiteralExpr{Nil},
				}},
			},
		},
		{
			// 1 + 2 * 3
			[]Token{num(1), op(TokenPlus, "+"), num(2), op(TokenStar, "*"), num(3), semicolon},
			false,
			[]Stmt{
				&ExpressionStmt{Expression: &BinaryExpr{
					Left:     &LiteralExpr{NumberValue(1)},
					Operator: op(TokenPlus, "+"),
					Right: &BinaryExpr{
						Left:     &LiteralExpr{NumberValue(2)},
						Operator: op(TokenStar, "*"),
						Right:    &LiteralExpr{NumberValue(3)},
					},
				}},
			},
		},
		{
			// 1 - 3 - 1 is left associative
			[]Token{num(1), op(TokenMinus, "-"), num(3), op(TokenMinus, "-"), num(1), semicolon},
			false,
			[]Stmt{
				&ExpressionStmt{Expression: &BinaryExpr{
					Left: &BinaryExpr{
						Left:     &LiteralExpr{NumberValue(1)},
						Operator: op(TokenMinus, "-"),
						Right:    &LiteralExpr{NumberValue(3)},
					},
					Operator: op(TokenMinus, "-"),
					Right:    &LiteralExpr{NumberValue(1)},
				}},
			},
		},
		{
			// (1 + 3) * 2
			[]Token{op(TokenLeftParen, "("), num(1), op(TokenPlus, "+"), num(3), op(TokenRightParen, ")"), op(TokenStar, "*"), num(2), semicolon},
			false,
			[]Stmt{
				&ExpressionStmt{Expression: &BinaryExpr{
					Left: &GroupingExpr{&BinaryExpr{
						Left:     &LiteralExpr{NumberValue(1)},
						Operator: op(TokenPlus, "+"),
						Right:    &LiteralExpr{NumberValue(3)},
					}},
					Operator: op(TokenStar, "*"),
					Right:    &LiteralExpr{NumberValue(2)},
				}},
			},
		},
		{
			// !-x < 2
			[]Token{op(TokenBang, "!"), op(TokenMinus, "-"), ident("x"), op(TokenLess, "<"), num(2), semicolon},
			false,
			[]Stmt{
				&ExpressionStmt{Expression: &BinaryExpr{
					Left: &UnaryExpr{
						Operator: op(TokenBang, "!"),
						Right:    &UnaryExpr{Operator: op(TokenMinus, "-"), Right: &VariableExpr{ident("x")}},
					},
					Operator: op(TokenLess, "<"),
					Right:    &LiteralExpr{NumberValue(2)},
				}},
			},
		},
		{
			// a or b and c
			[]Token{ident("a"), op(TokenOr, "or"), ident("b"), op(TokenAnd, "and"), ident("c"), semicolon},
			false,
			[]Stmt{
				&ExpressionStmt{Expression: &LogicalExpr{
					Left:     &VariableExpr{ident("a")},
					Operator: op(TokenOr, "or"),
					Right: &LogicalExpr{
						Left:     &VariableExpr{ident("b")},
						Operator: op(TokenAnd, "and"),
						Right:    &VariableExpr{ident("c")},
					},
				}},
			},
		},
		{
			// a = b = 1 is right associative
			[]Token{ident("a"), op(TokenEqual, "="), ident("b"), op(TokenEqual, "="), num(1), semicolon},
			false,
			[]Stmt{
				&ExpressionStmt{Expression: &AssignExpr{
					Name:  ident("a"),
					Value: &AssignExpr{Name: ident("b"), Value: &LiteralExpr{NumberValue(1)}},
				}},
			},
		},
		{
			// if (a) print 1; else { print 2; }
			[]Token{
				op(TokenIf, "if"), op(TokenLeftParen, "("), ident("a"), op(TokenRightParen, ")"),
				op(TokenPrint, "print"), num(1), semicolon,
				op(TokenElse, "else"), op(TokenLeftBrace, "{"), op(TokenPrint, "print"), num(2), semicolon, op(TokenRightBrace, "}"),
			},
			false,
			[]Stmt{
				&IfStmt{
					Condition: &VariableExpr{ident("a")},
					Then:      &PrintStmt{&LiteralExpr{NumberValue(1)}},
					Else:      &BlockStmt{[]Stmt{&PrintStmt{&LiteralExpr{NumberValue(2)}}}},
				},
			},
		},
		{
			// while (true) {}
			[]Token{op(TokenWhile, "while"), op(TokenLeftParen, "("), op(TokenTrue, "true"), op(TokenRightParen, ")"), op(TokenLeftBrace, "{"), op(TokenRightBrace, "}")},
			false,
			[]Stmt{
				&WhileStmt{Condition: &LiteralExpr{BoolValue(true)}, Body: &BlockStmt{}},
			},
		},
		{
			// print 1 with no semicolon
			[]Token{op(TokenPrint, "print"), num(1)},
			true,
			nil,
		},
		{
			// 1 2;
			[]Token{num(1), num(2), semicolon},
			true,
			nil,
		},
		{
			// (1;
			[]Token{op(TokenLeftParen, "("), num(1), semicolon},
			true,
			nil,
		},
		{
			// { print 1;
			[]Token{op(TokenLeftBrace, "{"), op(TokenPrint, "print"), num(1), semicolon},
			true,
			nil,
		},
		{
			// var 1;
			[]Token{op(TokenVar, "var"), num(1), semicolon},
			true,
			nil,
		},
	}

	for _, c := range cases {
		got := NewParser(c.data).Run()

		if c.fail {
			assert.True(t, got.HasErrors(), "expected parsing to fail, but succeeded: %v", c.data)
			continue
		}

		assert.Empty(t, got.Errors)
		assert.Equal(t, c.expect, got.Statements)
	}
}

func TestParserForDesugaring(t *testing.T) {
	ast := ParseString("for (var i = 0; i < 3; i = i + 1) print i;")
	require.Empty(t, ast.Errors)
	require.Len(t, ast.Statements, 1)

	outer, ok := ast.Statements[0].(*BlockStmt)
	require.True(t, ok, "initializer wraps the loop in a block")
	require.Len(t, outer.Statements, 2)
	assert.IsType(t, &VarStmt{}, outer.Statements[0])

	loop, ok := outer.Statements[1].(*WhileStmt)
	require.True(t, ok)
	assert.IsType(t, &BinaryExpr{}, loop.Condition)

	body, ok := loop.Body.(*BlockStmt)
	require.True(t, ok, "increment is appended in a block")
	require.Len(t, body.Statements, 2)
	assert.IsType(t, &PrintStmt{}, body.Statements[0])
	assert.IsType(t, &AssignExpr{}, body.Statements[1].(*ExpressionStmt).Expression)
}

func TestParserForWithoutClauses(t *testing.T) {
	ast := ParseString("for (;;) print 1;")
	require.Empty(t, ast.Errors)
	require.Len(t, ast.Statements, 1)

	loop, ok := ast.Statements[0].(*WhileStmt)
	require.True(t, ok, "no initializer means no outer block")
	assert.Equal(t, &LiteralExpr{BoolValue(true)}, loop.Condition)
	assert.IsType(t, &PrintStmt{}, loop.Body)
}

func TestParserInvalidAssignmentTarget(t *testing.T) {
	ast := ParseString("var a = 1;\na + 1 = 2;\nprint a;")

	require.Len(t, ast.Errors, 1)
	assert.Equal(t, "line[2] Error at '=': Invalid assignment target.", ast.Errors[0].Error())

	// Parsing went on past the bad target
	require.Len(t, ast.Statements, 3)
	stmt, ok := ast.Statements[1].(*ExpressionStmt)
	require.True(t, ok)
	assert.IsType(t, &BinaryExpr{}, stmt.Expression, "no assignment is built")
	assert.IsType(t, &PrintStmt{}, ast.Statements[2])
}

func TestParserReportsEveryError(t *testing.T) {
	source := "print 1\nvar b = 2;\n(b) = 3;\nprint b;\nprint ;"
	ast := ParseString(source)

	var got []string
	for _, e := range ast.Errors {
		got = append(got, e.Error())
	}

	assert.Equal(t, []string{
		"line[2] Error at 'var': Expect ';' after value.",
		"line[3] Error at '=': Invalid assignment target.",
		"line[5] Error at ';': Expect expression.",
	}, got)
}

func TestParserErrorAtEnd(t *testing.T) {
	ast := ParseString("print (1 + 2")

	require.Len(t, ast.Errors, 1)
	assert.Equal(t, "line[1] Error at end: Expect ')' after expression.", ast.Errors[0].Error())
}

func TestParserSynchronizesOnKeywords(t *testing.T) {
	// The junk before each keyword is skipped and the statements after parse
	ast := ParseString("1 + ) 2 var a = 1; ) ) print a;")

	require.Len(t, ast.Errors, 2)
	require.Len(t, ast.Statements, 2)
	assert.IsType(t, &VarStmt{}, ast.Statements[0])
	assert.IsType(t, &PrintStmt{}, ast.Statements[1])
}

func TestParserWithoutEOF(t *testing.T) {
	ast := Parse([]Token{op(TokenPrint, "print"), num(1), semicolon})

	assert.Empty(t, ast.Errors)
	assert.Len(t, ast.Statements, 1)
}

func TestParserRandomPrograms(t *testing.T) {
	for i := 0; i < 20; i++ {
		source := test.GetRandomProgram(50)
		ast := ParseString(source)

		assert.Empty(t, ast.Errors, source)
		assert.Len(t, ast.Statements, 50)
	}
}

var benchAST *AST

func benchmarkParser(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		tokens, _ := NewLexer(strings.NewReader(test.GetRandomProgram(size))).RunBlocking()
		b.StartTimer()

		benchAST = Parse(tokens)
	}
}

func BenchmarkParser100(b *testing.B) {
	benchmarkParser(100, b)
}

func BenchmarkParser10000(b *testing.B) {
	benchmarkParser(10000, b)
}
