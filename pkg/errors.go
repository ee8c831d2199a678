package lox

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrSyntax marks a run that stopped because of lexical or syntax errors.
	ErrSyntax = errors.New("syntax error")
	// ErrRuntime marks a run that was aborted by a runtime error.
	ErrRuntime = errors.New("runtime error")
)

// SyntaxError is a diagnostic reported while scanning or parsing. Where is
// empty for lexical errors, " at end" at end of input and " at '<lexeme>'"
// otherwise.
type SyntaxError struct {
	Line    int
	Where   string
	Message string
}

func newSyntaxError(tok Token, message string) *SyntaxError {
	where := " at '" + tok.Lexeme + "'"
	if tok.Typ == TokenEOF {
		where = " at end"
	}

	return &SyntaxError{
		Line:    tok.Line,
		Where:   where,
		Message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line[%d] Error%s: %s", e.Line, e.Where, e.Message)
}

func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", e.Line),
		slog.String("where", e.Where),
		slog.String("message", e.Message),
	)
}

// RuntimeError aborts interpretation. Token is the operator or name that
// triggered it.
type RuntimeError struct {
	Token   Token
	Message string
}

func newRuntimeError(tok Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Report renders the error the way it is written to the diagnostic channel.
func (e *RuntimeError) Report() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func (e *RuntimeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", e.Token.Line),
		slog.String("token", e.Token.Lexeme),
		slog.String("message", e.Message),
	)
}

// CompileError is reported by the LLVM backend for programs it cannot lower.
type CompileError interface {
	error
	GetLine() int
}

type UndefinedError struct {
	Line int
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("line %d: undefined variable '%s'", e.Line, e.Name)
}

func (e *UndefinedError) GetLine() int { return e.Line }

type IncompatibleTypesError struct {
	Line  int
	Type1 Type
	Type2 Type
}

func (e *IncompatibleTypesError) Error() string {
	return fmt.Sprintf("line %d: incompatible types: '%s' and '%s'", e.Line, e.Type1, e.Type2)
}

func (e *IncompatibleTypesError) GetLine() int { return e.Line }

type UndefinedOperationError struct {
	Line int
	Op   string
	Type Type
}

func (e *UndefinedOperationError) Error() string {
	return fmt.Sprintf("line %d: undefined operation '%s' for type '%s'", e.Line, e.Op, e.Type)
}

func (e *UndefinedOperationError) GetLine() int { return e.Line }

type UndefinedUnitaryError struct {
	Line int
	Op   string
	Type Type
}

func (e *UndefinedUnitaryError) Error() string {
	return fmt.Sprintf("line %d: undefined unitary '%s' for type '%s'", e.Line, e.Op, e.Type)
}

func (e *UndefinedUnitaryError) GetLine() int { return e.Line }

type UnsupportedError struct {
	Line    int
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("line %d: %s is not supported by the LLVM backend", e.Line, e.Feature)
}

func (e *UnsupportedError) GetLine() int { return e.Line }
