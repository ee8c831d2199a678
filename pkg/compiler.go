package lox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/llir/llvm/ir"
)

// ErrCompile marks a program the LLVM backend could not lower.
var ErrCompile = errors.New("compile error")

// Compiler lowers Lox programs to LLVM IR.
type Compiler struct {
	logger *slog.Logger
}

func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type CompilerOption func(*Compiler)

func WithCompilerLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func (c *Compiler) Compile(filename string) (*ir.Module, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return c.CompileFromReader(f)
}

func (c *Compiler) CompileFromReader(reader io.Reader) (*ir.Module, error) {
	ast, err := ParseReader(reader)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	return c.compile(ast)
}

// compile returns an error joining ErrSyntax or ErrCompile with every
// individual diagnostic.
func (c *Compiler) compile(ast *AST) (*ir.Module, error) {
	if ast.HasErrors() {
		errs := []error{ErrSyntax}
		for _, e := range ast.Errors {
			errs = append(errs, e)
		}

		return nil, errors.Join(errs...)
	}

	mod, compileErrs := NewLLVMGenerator(ast).Do()
	c.logger.Debug("lowered program",
		slog.Int("statements", len(ast.Statements)),
		slog.Int("errors", len(compileErrs)),
	)

	if len(compileErrs) != 0 {
		errs := []error{ErrCompile}
		for _, e := range compileErrs {
			errs = append(errs, e)
		}

		return nil, errors.Join(errs...)
	}

	return mod, nil
}
