package lox

import (
	"fmt"
	"io"
	"log/slog"
)

// Interpreter evaluates statements against a global environment that lives
// as long as the interpreter, so successive Interpret calls share globals.
type Interpreter struct {
	globals *Environment
	stdout  io.Writer
	logger  *slog.Logger
}

type InterpreterOption func(*Interpreter)

func WithInterpreterLogger(logger *slog.Logger) InterpreterOption {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewInterpreter(stdout io.Writer, opts ...InterpreterOption) *Interpreter {
	i := &Interpreter{
		globals: NewEnvironment(nil),
		stdout:  stdout,
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Globals exposes the outermost scope.
func (i *Interpreter) Globals() *Environment {
	return i.globals
}

// Interpret executes stmts in order and stops at the first runtime error,
// which is returned as a *RuntimeError.
func (i *Interpreter) Interpret(stmts []Stmt) error {
	for _, stmt := range stmts {
		if err := i.execute(stmt, i.globals); err != nil {
			i.logger.Debug("execution aborted", slog.Any("error", err))
			return err
		}
	}

	return nil
}

// Evaluate evaluates a single expression in the global scope.
func (i *Interpreter) Evaluate(expr Expr) (Value, error) {
	return i.evaluate(expr, i.globals)
}

func (i *Interpreter) execute(stmt Stmt, env *Environment) error {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := i.evaluate(s.Expression, env)
		return err
	case *PrintStmt:
		v, err := i.evaluate(s.Expression, env)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(i.stdout, Stringify(v))
		return err
	case *VarStmt:
		var v Value = Nil
		if s.Initializer != nil {
			var err error
			if v, err = i.evaluate(s.Initializer, env); err != nil {
				return err
			}
		}

		env.Define(s.Name.Lexeme, v)
		return nil
	case *BlockStmt:
		return i.executeBlock(s.Statements, NewEnvironment(env))
	case *IfStmt:
		cond, err := i.evaluate(s.Condition, env)
		if err != nil {
			return err
		}

		if IsTruthy(cond) {
			return i.execute(s.Then, env)
		}
		if s.Else != nil {
			return i.execute(s.Else, env)
		}

		return nil
	case *WhileStmt:
		for {
			cond, err := i.evaluate(s.Condition, env)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}

			if err := i.execute(s.Body, env); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unexpected statement %T", stmt)
	}
}

// executeBlock runs stmts with scope as the current environment. The scope
// is only reachable from this frame, so it is dropped on every return path.
func (i *Interpreter) executeBlock(stmts []Stmt, scope *Environment) error {
	for _, stmt := range stmts {
		if err := i.execute(stmt, scope); err != nil {
			return err
		}
	}

	return nil
}

func (i *Interpreter) evaluate(expr Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		if e.Value == nil {
			return Nil, nil
		}

		return e.Value, nil
	case *GroupingExpr:
		return i.evaluate(e.Expression, env)
	case *UnaryExpr:
		return i.unary(e, env)
	case *BinaryExpr:
		return i.binary(e, env)
	case *LogicalExpr:
		return i.logical(e, env)
	case *VariableExpr:
		return env.Get(e.Name)
	case *AssignExpr:
		v, err := i.evaluate(e.Value, env)
		if err != nil {
			return nil, err
		}

		if err := env.Assign(e.Name, v); err != nil {
			return nil, err
		}

		return v, nil
	default:
		return nil, fmt.Errorf("unexpected expression %T", expr)
	}
}

func (i *Interpreter) unary(e *UnaryExpr, env *Environment) (Value, error) {
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Typ {
	case TokenBang:
		return BoolValue(!IsTruthy(right)), nil
	case TokenMinus:
		n, ok := right.(NumberValue)
		if !ok {
			return nil, newRuntimeError(e.Operator, "Operand must be a number.")
		}

		return -n, nil
	default:
		return nil, newRuntimeError(e.Operator, "Unknown unary operator '%s'.", e.Operator.Lexeme)
	}
}

func (i *Interpreter) binary(e *BinaryExpr, env *Environment) (Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Typ {
	case TokenEqualEqual:
		return BoolValue(IsEqual(left, right)), nil
	case TokenBangEqual:
		return BoolValue(!IsEqual(left, right)), nil
	case TokenPlus:
		switch l := left.(type) {
		case NumberValue:
			if r, ok := right.(NumberValue); ok {
				return l + r, nil
			}
		case StringValue:
			if r, ok := right.(StringValue); ok {
				return l + r, nil
			}
		}

		return nil, newRuntimeError(e.Operator, "Operands must be two numbers or two strings.")
	}

	l, lok := left.(NumberValue)
	r, rok := right.(NumberValue)
	if !lok || !rok {
		return nil, newRuntimeError(e.Operator, "Operands must be numbers.")
	}

	switch e.Operator.Typ {
	case TokenMinus:
		return l - r, nil
	case TokenStar:
		return l * r, nil
	case TokenSlash:
		// IEEE semantics: division by zero yields an infinity or NaN
		return l / r, nil
	case TokenGreater:
		return BoolValue(l > r), nil
	case TokenGreaterEqual:
		return BoolValue(l >= r), nil
	case TokenLess:
		return BoolValue(l < r), nil
	case TokenLessEqual:
		return BoolValue(l <= r), nil
	default:
		return nil, newRuntimeError(e.Operator, "Unknown binary operator '%s'.", e.Operator.Lexeme)
	}
}

// logical returns the operand that decided the result, not a boolean.
func (i *Interpreter) logical(e *LogicalExpr, env *Environment) (Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}

	if e.Operator.Typ == TokenOr {
		if IsTruthy(left) {
			return left, nil
		}
	} else if !IsTruthy(left) {
		return left, nil
	}

	return i.evaluate(e.Right, env)
}
