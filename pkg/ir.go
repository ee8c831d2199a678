package lox

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Type is the static type the LLVM backend infers for an expression while
// lowering it.
type Type int

const (
	TypeNumber Type = iota
	TypeBool
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

func (t Type) llvm() types.Type {
	switch t {
	case TypeBool:
		return types.I1
	case TypeString:
		return types.I8Ptr
	default:
		return types.Double
	}
}

type typedValue struct {
	v   value.Value
	typ Type
}

type slot struct {
	ptr *ir.InstAlloca
	typ Type
}

// ValueLookup maps variable names to stack slots for one lexical scope.
type ValueLookup struct {
	vals   map[string]slot
	parent *ValueLookup
}

func NewValueLookup(parent *ValueLookup) *ValueLookup {
	return &ValueLookup{
		vals:   make(map[string]slot),
		parent: parent,
	}
}

func (l *ValueLookup) Get(id string) (slot, bool) {
	for s := l; s != nil; s = s.parent {
		if val, ok := s.vals[id]; ok {
			return val, true
		}
	}

	return slot{}, false
}

func (l *ValueLookup) Set(id string, val slot) {
	l.vals[id] = val
}

// LLVMIRBuilder lowers statements into the body of a single main function.
// Stack slots are allocated in the entry block so loops do not grow the
// stack.
type LLVMIRBuilder struct {
	mod      *ir.Module
	main     *ir.Func
	entry    *ir.Block
	body     *ir.Block
	block    *ir.Block
	values   *ValueLookup
	builtins builtins

	strs   map[string]value.Value
	blocks int
	line   int
	errs   []CompileError
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	mod := ir.NewModule()

	b := &LLVMIRBuilder{
		mod:      mod,
		values:   NewValueLookup(nil),
		builtins: defineBuiltins(mod),
		strs:     make(map[string]value.Value),
		line:     1,
	}

	b.main = mod.NewFunc("main", types.I32)
	b.entry = b.main.NewBlock("entry")
	b.body = b.newBlock("body")
	b.block = b.body

	return b
}

func (b *LLVMIRBuilder) newBlock(prefix string) *ir.Block {
	b.blocks++
	return b.main.NewBlock(fmt.Sprintf("%s.%d", prefix, b.blocks))
}

func (b *LLVMIRBuilder) finish() *ir.Module {
	if b.block.Term == nil {
		b.block.NewRet(constant.NewInt(types.I32, 0))
	}
	b.entry.NewBr(b.body)

	return b.mod
}

func (b *LLVMIRBuilder) fail(err CompileError) error {
	b.errs = append(b.errs, err)
	return err
}

func (b *LLVMIRBuilder) statement(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := b.expression(s.Expression)
		return err
	case *PrintStmt:
		return b.print(s)
	case *VarStmt:
		return b.variableDecl(s)
	case *BlockStmt:
		prevVals := b.values
		b.values = NewValueLookup(prevVals)
		defer func() {
			b.values = prevVals
		}()

		for _, child := range s.Statements {
			if err := b.statement(child); err != nil {
				return err
			}
		}

		return nil
	case *IfStmt:
		return b.ifStatement(s)
	case *WhileStmt:
		return b.whileStatement(s)
	default:
		return b.fail(&UnsupportedError{Line: b.line, Feature: fmt.Sprintf("statement %T", stmt)})
	}
}

func (b *LLVMIRBuilder) print(s *PrintStmt) error {
	v, err := b.expression(s.Expression)
	if err != nil {
		return err
	}

	switch v.typ {
	case TypeNumber:
		b.block.NewCall(b.builtins.printf, b.builtins.fmtNumber, v.v)
	case TypeString:
		b.block.NewCall(b.builtins.printf, b.builtins.fmtString, v.v)
	case TypeBool:
		str := b.block.NewSelect(v.v, b.builtins.trueStr, b.builtins.falseStr)
		b.block.NewCall(b.builtins.printf, b.builtins.fmtString, str)
	}

	return nil
}

func (b *LLVMIRBuilder) variableDecl(s *VarStmt) error {
	b.line = s.Name.Line
	if s.Initializer == nil {
		return b.fail(&UnsupportedError{Line: s.Name.Line, Feature: "nil"})
	}

	v, err := b.expression(s.Initializer)
	if err != nil {
		return err
	}

	ptr := b.entry.NewAlloca(v.typ.llvm())
	b.block.NewStore(v.v, ptr)
	b.values.Set(s.Name.Lexeme, slot{ptr: ptr, typ: v.typ})

	return nil
}

func (b *LLVMIRBuilder) ifStatement(s *IfStmt) error {
	cond, err := b.expression(s.Condition)
	if err != nil {
		return err
	}

	then := b.newBlock("if.then")
	end := b.newBlock("if.end")
	otherwise := end
	if s.Else != nil {
		otherwise = b.newBlock("if.else")
	}
	b.block.NewCondBr(b.truthy(cond), then, otherwise)

	b.block = then
	if err := b.statement(s.Then); err != nil {
		return err
	}
	b.branchTo(end)

	if s.Else != nil {
		b.block = otherwise
		if err := b.statement(s.Else); err != nil {
			return err
		}
		b.branchTo(end)
	}

	b.block = end
	return nil
}

func (b *LLVMIRBuilder) whileStatement(s *WhileStmt) error {
	head := b.newBlock("while.cond")
	b.branchTo(head)
	b.block = head

	cond, err := b.expression(s.Condition)
	if err != nil {
		return err
	}

	body := b.newBlock("while.body")
	end := b.newBlock("while.end")
	b.block.NewCondBr(b.truthy(cond), body, end)

	b.block = body
	if err := b.statement(s.Body); err != nil {
		return err
	}
	b.branchTo(head)

	b.block = end
	return nil
}

func (b *LLVMIRBuilder) branchTo(target *ir.Block) {
	if b.block.Term == nil {
		b.block.NewBr(target)
	}
}

// truthy converts a lowered value to an i1. Only booleans can be false.
func (b *LLVMIRBuilder) truthy(v typedValue) value.Value {
	if v.typ == TypeBool {
		return v.v
	}

	return constant.True
}

func (b *LLVMIRBuilder) expression(expr Expr) (typedValue, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return b.literal(e)
	case *GroupingExpr:
		return b.expression(e.Expression)
	case *UnaryExpr:
		return b.unaryExpression(e)
	case *BinaryExpr:
		return b.binaryExpression(e)
	case *LogicalExpr:
		return b.logicalExpression(e)
	case *VariableExpr:
		b.line = e.Name.Line
		s, ok := b.values.Get(e.Name.Lexeme)
		if !ok {
			return typedValue{}, b.fail(&UndefinedError{Line: e.Name.Line, Name: e.Name.Lexeme})
		}

		return typedValue{b.block.NewLoad(s.typ.llvm(), s.ptr), s.typ}, nil
	case *AssignExpr:
		v, err := b.expression(e.Value)
		if err != nil {
			return typedValue{}, err
		}

		b.line = e.Name.Line
		s, ok := b.values.Get(e.Name.Lexeme)
		if !ok {
			return typedValue{}, b.fail(&UndefinedError{Line: e.Name.Line, Name: e.Name.Lexeme})
		}
		if s.typ != v.typ {
			return typedValue{}, b.fail(&IncompatibleTypesError{Line: e.Name.Line, Type1: s.typ, Type2: v.typ})
		}

		b.block.NewStore(v.v, s.ptr)
		return v, nil
	default:
		return typedValue{}, b.fail(&UnsupportedError{Line: b.line, Feature: fmt.Sprintf("expression %T", expr)})
	}
}

func (b *LLVMIRBuilder) literal(e *LiteralExpr) (typedValue, error) {
	switch v := e.Value.(type) {
	case NumberValue:
		return typedValue{constant.NewFloat(types.Double, float64(v)), TypeNumber}, nil
	case BoolValue:
		return typedValue{constant.NewBool(bool(v)), TypeBool}, nil
	case StringValue:
		return typedValue{b.stringConstant(string(v)), TypeString}, nil
	default:
		return typedValue{}, b.fail(&UnsupportedError{Line: b.line, Feature: "nil"})
	}
}

// stringConstant interns string literals as private globals.
func (b *LLVMIRBuilder) stringConstant(s string) value.Value {
	if v, ok := b.strs[s]; ok {
		return v
	}

	v := defineCString(b.mod, fmt.Sprintf(".str.%d", len(b.strs)), s)
	b.strs[s] = v
	return v
}

func (b *LLVMIRBuilder) unaryExpression(e *UnaryExpr) (typedValue, error) {
	v, err := b.expression(e.Right)
	if err != nil {
		return typedValue{}, err
	}

	b.line = e.Operator.Line
	switch e.Operator.Typ {
	case TokenMinus:
		if v.typ != TypeNumber {
			return typedValue{}, b.fail(&UndefinedUnitaryError{Line: e.Operator.Line, Op: e.Operator.Lexeme, Type: v.typ})
		}

		return typedValue{b.block.NewFNeg(v.v), TypeNumber}, nil
	case TokenBang:
		if v.typ != TypeBool {
			return typedValue{constant.False, TypeBool}, nil
		}

		return typedValue{b.block.NewXor(v.v, constant.True), TypeBool}, nil
	default:
		return typedValue{}, b.fail(&UndefinedUnitaryError{Line: e.Operator.Line, Op: e.Operator.Lexeme, Type: v.typ})
	}
}

var fcmpPredicates = map[TokenType]enum.FPred{
	TokenEqualEqual:   enum.FPredOEQ,
	TokenBangEqual:    enum.FPredUNE,
	TokenGreater:      enum.FPredOGT,
	TokenGreaterEqual: enum.FPredOGE,
	TokenLess:         enum.FPredOLT,
	TokenLessEqual:    enum.FPredOLE,
}

func (b *LLVMIRBuilder) binaryExpression(e *BinaryExpr) (typedValue, error) {
	lhs, err := b.expression(e.Left)
	if err != nil {
		return typedValue{}, err
	}

	rhs, err := b.expression(e.Right)
	if err != nil {
		return typedValue{}, err
	}

	op := e.Operator
	b.line = op.Line
	if op.Typ == TokenEqualEqual || op.Typ == TokenBangEqual {
		return b.equality(op, lhs, rhs), nil
	}

	if lhs.typ != rhs.typ {
		return typedValue{}, b.fail(&IncompatibleTypesError{Line: op.Line, Type1: lhs.typ, Type2: rhs.typ})
	}
	if lhs.typ != TypeNumber {
		return typedValue{}, b.fail(&UndefinedOperationError{Line: op.Line, Op: op.Lexeme, Type: lhs.typ})
	}

	switch op.Typ {
	case TokenPlus:
		return typedValue{b.block.NewFAdd(lhs.v, rhs.v), TypeNumber}, nil
	case TokenMinus:
		return typedValue{b.block.NewFSub(lhs.v, rhs.v), TypeNumber}, nil
	case TokenStar:
		return typedValue{b.block.NewFMul(lhs.v, rhs.v), TypeNumber}, nil
	case TokenSlash:
		return typedValue{b.block.NewFDiv(lhs.v, rhs.v), TypeNumber}, nil
	}

	if pred, ok := fcmpPredicates[op.Typ]; ok {
		return typedValue{b.block.NewFCmp(pred, lhs.v, rhs.v), TypeBool}, nil
	}

	return typedValue{}, b.fail(&UndefinedOperationError{Line: op.Line, Op: op.Lexeme, Type: lhs.typ})
}

// equality mirrors the interpreter: values of different types are unequal.
func (b *LLVMIRBuilder) equality(op Token, lhs, rhs typedValue) typedValue {
	equal := op.Typ == TokenEqualEqual
	if lhs.typ != rhs.typ {
		return typedValue{constant.NewBool(!equal), TypeBool}
	}

	ipred := enum.IPredEQ
	if !equal {
		ipred = enum.IPredNE
	}

	switch lhs.typ {
	case TypeNumber:
		return typedValue{b.block.NewFCmp(fcmpPredicates[op.Typ], lhs.v, rhs.v), TypeBool}
	case TypeString:
		cmp := b.block.NewCall(b.builtins.strcmp, lhs.v, rhs.v)
		return typedValue{b.block.NewICmp(ipred, cmp, constant.NewInt(types.I32, 0)), TypeBool}
	default:
		return typedValue{b.block.NewICmp(ipred, lhs.v, rhs.v), TypeBool}
	}
}

// logicalExpression short-circuits with a branch and merges both outcomes
// with a phi, so the result is the deciding operand.
func (b *LLVMIRBuilder) logicalExpression(e *LogicalExpr) (typedValue, error) {
	lhs, err := b.expression(e.Left)
	if err != nil {
		return typedValue{}, err
	}

	lhsBlock := b.block
	rhsBlock := b.newBlock("logic.rhs")
	end := b.newBlock("logic.end")

	if e.Operator.Typ == TokenOr {
		lhsBlock.NewCondBr(b.truthy(lhs), end, rhsBlock)
	} else {
		lhsBlock.NewCondBr(b.truthy(lhs), rhsBlock, end)
	}

	b.block = rhsBlock
	rhs, err := b.expression(e.Right)
	if err != nil {
		return typedValue{}, err
	}

	b.line = e.Operator.Line
	if lhs.typ != rhs.typ {
		return typedValue{}, b.fail(&IncompatibleTypesError{Line: e.Operator.Line, Type1: lhs.typ, Type2: rhs.typ})
	}

	rhsEnd := b.block
	rhsEnd.NewBr(end)

	b.block = end
	phi := end.NewPhi(ir.NewIncoming(lhs.v, lhsBlock), ir.NewIncoming(rhs.v, rhsEnd))
	return typedValue{phi, lhs.typ}, nil
}

type LLVMGenerator struct {
	ast *AST
}

func NewLLVMGenerator(ast *AST) *LLVMGenerator {
	return &LLVMGenerator{
		ast: ast,
	}
}

// Do lowers every statement. A statement that fails to lower is skipped and
// lowering continues so all errors are reported; the module is only usable
// when no errors were returned.
func (g LLVMGenerator) Do() (*ir.Module, []CompileError) {
	builder := NewLLVMIRBuilder()
	for _, stmt := range g.ast.Statements {
		_ = builder.statement(stmt)
	}

	return builder.finish(), builder.errs
}
