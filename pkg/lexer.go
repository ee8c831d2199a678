package lox

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type stateFunc func(l *Lexer) stateFunc

// EOF is returned by next and peek once input is exhausted. It is not a
// valid rune, so a NUL in the source is scanned like any other character.
const EOF rune = -1

type Lexer struct {
	reader *bufio.Reader
	done   chan Token

	line      int // current line
	startLine int // line on which the token being scanned starts

	err error // first read error other than io.EOF
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		done:   make(chan Token),
		line:   1,
	}
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

// Err returns the error that cut the input short, if any. It is only
// meaningful once the token channel has been closed.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

// RunBlocking scans the whole input. The returned tokens always end with
// exactly one TokenEOF; lexical errors are collected rather than stopping the
// scan so later errors can surface as well. A failing reader ends the scan
// early; check Err before using the result.
func (l *Lexer) RunBlocking() ([]Token, []*SyntaxError) {
	go l.Run()

	var tokens []Token
	var errs []*SyntaxError
	for t := range l.Chan() {
		if t.Typ == TokenError {
			errs = append(errs, &SyntaxError{Line: t.Line, Message: t.Lexeme})
			continue
		}

		tokens = append(tokens, t)
	}

	return tokens, errs
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.startLine = l.line

		switch r := l.peek(); {
		case r == EOF:
			return l.emitEOF()
		case r == '\n':
			l.next()
			l.line++
		case unicode.IsSpace(r):
			l.next()
		case isDigit(r):
			return numberState
		case r == '"':
			return stringState
		case isAlpha(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r); r = l.peek() {
		num.WriteRune(l.next())
	}

	// A fractional part needs at least one digit after the dot
	if l.peek() == '.' && l.peekSecondIsDigit() {
		num.WriteRune(l.next())
		for r := l.peek(); isDigit(r); r = l.peek() {
			num.WriteRune(l.next())
		}
	}

	lexeme := num.String()
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return l.errorf("Invalid number '%s'.", lexeme)
	}

	return l.emitLiteral(TokenNumber, lexeme, NumberValue(n))
}

func stringState(l *Lexer) stateFunc {
	l.next() // Skip the leading double-quote

	var str strings.Builder
	for r := l.next(); r != '"'; r = l.next() {
		if r == EOF {
			return l.errorAt(l.line, "Unterminated string.")
		}

		if r == '\n' {
			l.line++
		}

		str.WriteRune(r)
	}

	value := str.String()
	return l.emitLiteral(TokenString, `"`+value+`"`, StringValue(value))
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); isAlpha(r) || isDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emit(t, id.String())
	}

	return l.emit(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()
	switch r {
	case '!', '=', '<', '>': // Some operators can be two runes
		if l.peek() == '=' {
			l.next()
			op := string(r) + "="
			return l.emit(operatorTable[op], op)
		}
	case '/':
		if l.peek() == '/' {
			return lineCommentState
		}
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emit(tok, string(r))
	}

	return l.errorf("Unexpected character.")
}

func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	return l.errorAt(l.startLine, format, args...)
}

func (l *Lexer) errorAt(line int, format string, args ...interface{}) stateFunc {
	l.done <- Token{
		Typ:    TokenError,
		Lexeme: fmt.Sprintf(format, args...),
		Line:   line,
	}

	return defaultState
}

func (l *Lexer) emitEOF() stateFunc {
	l.done <- Token{
		Typ:  TokenEOF,
		Line: l.line,
	}

	return nil
}

func (l *Lexer) emit(t TokenType, lexeme string) stateFunc {
	return l.emitLiteral(t, lexeme, nil)
}

func (l *Lexer) emitLiteral(t TokenType, lexeme string, literal Value) stateFunc {
	l.done <- Token{
		Typ:     t,
		Lexeme:  lexeme,
		Literal: literal,
		Line:    l.startLine,
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r := l.next()
	if r != EOF {
		_ = l.reader.UnreadRune()
	}

	return r
}

// peekSecondIsDigit looks one byte past the next rune. Only used after a '.',
// which is a single byte.
func (l *Lexer) peekSecondIsDigit() bool {
	b, _ := l.reader.Peek(2)
	return len(b) == 2 && isDigit(rune(b[1]))
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = err
		}

		return EOF
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
