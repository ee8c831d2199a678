package lox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Runner drives source text through the lexer, parser and interpreter and
// writes every diagnostic to stderr exactly once. Successive runs share one
// interpreter, and with it the global scope.
type Runner struct {
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
	interpreter *Interpreter
}

type RunnerOption func(*Runner)

func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRunner(stdout, stderr io.Writer, opts ...RunnerOption) *Runner {
	r := &Runner{
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.interpreter = NewInterpreter(stdout, WithInterpreterLogger(r.logger))
	return r
}

func (r *Runner) Interpreter() *Interpreter {
	return r.interpreter
}

func (r *Runner) RunFile(ctx context.Context, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return r.RunReader(ctx, f)
}

func (r *Runner) Run(ctx context.Context, source string) error {
	return r.RunReader(ctx, strings.NewReader(source))
}

// RunReader returns an error wrapping ErrSyntax when any lexical or syntax
// error was reported, in which case nothing is executed, and an error
// wrapping ErrRuntime when execution was aborted. A read error is returned
// wrapped and nothing is executed, not even the statements read before it.
func (r *Runner) RunReader(ctx context.Context, reader io.Reader) error {
	ast, err := r.parse(ctx, reader)
	if err != nil {
		return err
	}

	if ast.HasErrors() {
		for _, e := range ast.Errors {
			fmt.Fprintln(r.stderr, e.Error())
		}

		return fmt.Errorf("%w: %d error(s)", ErrSyntax, len(ast.Errors))
	}

	if err := r.interpreter.Interpret(ast.Statements); err != nil {
		if rerr, ok := err.(*RuntimeError); ok {
			fmt.Fprintln(r.stderr, rerr.Report())
			return fmt.Errorf("%w: %w", ErrRuntime, rerr)
		}

		return err
	}

	return nil
}

// ParseReader scans and parses reader. Lexical and syntax diagnostics are
// merged by line; on the same line lexical ones come first. A read error is
// returned as is, with no AST: a partial program must not run.
func ParseReader(reader io.Reader) (*AST, error) {
	lexer := NewLexer(reader)
	tokens, lexErrs := lexer.RunBlocking()
	if err := lexer.Err(); err != nil {
		return nil, err
	}

	return parseTokens(tokens, lexErrs), nil
}

// ParseString parses source held in memory, which cannot fail to read.
func ParseString(source string) *AST {
	tokens, lexErrs := NewLexer(strings.NewReader(source)).RunBlocking()
	return parseTokens(tokens, lexErrs)
}

func parseTokens(tokens []Token, lexErrs []*SyntaxError) *AST {
	ast := Parse(tokens)
	if len(lexErrs) != 0 {
		ast.Errors = append(lexErrs, ast.Errors...)
		sort.SliceStable(ast.Errors, func(i, j int) bool {
			return ast.Errors[i].Line < ast.Errors[j].Line
		})
	}

	return ast
}

func (r *Runner) parse(ctx context.Context, reader io.Reader) (*AST, error) {
	ast, err := ParseReader(reader)
	if err != nil {
		r.logger.DebugContext(ctx, "reading source failed", slog.Any("error", err))
		return nil, fmt.Errorf("reading source: %w", err)
	}

	r.logger.DebugContext(ctx, "parsed program",
		slog.Int("statements", len(ast.Statements)),
		slog.Int("errors", len(ast.Errors)),
	)

	return ast, nil
}
