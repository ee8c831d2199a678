package lox

import "fmt"

//go:generate stringer -type=TokenType -trimprefix=Token

type TokenType uint64

const (
	TokenError TokenType = iota
	TokenEOF

	// Single-character tokens
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenDot
	TokenMinus
	TokenPlus
	TokenSemicolon
	TokenSlash
	TokenStar

	// One or two character tokens
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Literals
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords
	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFun
	TokenFor
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile
)

var keywordTable = map[string]TokenType{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

var operatorTable = map[string]TokenType{
	"(":  TokenLeftParen,
	")":  TokenRightParen,
	"{":  TokenLeftBrace,
	"}":  TokenRightBrace,
	",":  TokenComma,
	".":  TokenDot,
	"-":  TokenMinus,
	"+":  TokenPlus,
	";":  TokenSemicolon,
	"/":  TokenSlash,
	"*":  TokenStar,
	"!":  TokenBang,
	"!=": TokenBangEqual,
	"=":  TokenEqual,
	"==": TokenEqualEqual,
	">":  TokenGreater,
	">=": TokenGreaterEqual,
	"<":  TokenLess,
	"<=": TokenLessEqual,
}

// Token is a classified unit of source text. Literal is only set for
// TokenNumber and TokenString.
type Token struct {
	Typ     TokenType
	Lexeme  string
	Literal Value
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %s", t.Typ, t.Lexeme, Stringify(t.Literal))
	}

	return fmt.Sprintf("%s %q", t.Typ, t.Lexeme)
}
