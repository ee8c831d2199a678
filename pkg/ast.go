package lox

// AST is the result of a parse. Statements may be partial when Errors is not
// empty, in which case it must not be executed.
type AST struct {
	Statements []Stmt
	Errors     []*SyntaxError
}

// HasErrors reports whether any diagnostic was collected.
func (a *AST) HasErrors() bool {
	return len(a.Errors) != 0
}

// Expr is one of the expression node types below.
type Expr interface {
	expr()
}

type LiteralExpr struct {
	Value Value
}

type GroupingExpr struct {
	Expression Expr
}

type UnaryExpr struct {
	Operator Token
	Right    Expr
}

type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

// LogicalExpr is an "and"/"or" expression. It is kept apart from BinaryExpr
// because its right operand is evaluated lazily.
type LogicalExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

type VariableExpr struct {
	Name Token
}

type AssignExpr struct {
	Name  Token
	Value Expr
}

func (*LiteralExpr) expr()  {}
func (*GroupingExpr) expr() {}
func (*UnaryExpr) expr()    {}
func (*BinaryExpr) expr()   {}
func (*LogicalExpr) expr()  {}
func (*VariableExpr) expr() {}
func (*AssignExpr) expr()   {}

// Stmt is one of the statement node types below.
type Stmt interface {
	stmt()
}

type ExpressionStmt struct {
	Expression Expr
}

type PrintStmt struct {
	Expression Expr
}

// VarStmt declares Name in the current scope. Initializer may be nil.
type VarStmt struct {
	Name        Token
	Initializer Expr
}

type BlockStmt struct {
	Statements []Stmt
}

// IfStmt's Else may be nil.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (*ExpressionStmt) stmt() {}
func (*PrintStmt) stmt()      {}
func (*VarStmt) stmt()        {}
func (*BlockStmt) stmt()      {}
func (*IfStmt) stmt()         {}
func (*WhileStmt) stmt()      {}
