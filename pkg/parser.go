package lox

// Parser is a recursive descent parser over a finite token slice. Syntax
// errors unwind as *SyntaxError results to the nearest declaration, which
// records them and skips ahead to the next statement boundary.
type Parser struct {
	tokens  []Token
	current int
	errors  []*SyntaxError
}

func NewParser(tokens []Token) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Typ != TokenEOF {
		line := 1
		if n != 0 {
			line = tokens[n-1].Line
		}

		tokens = append(tokens[:n:n], Token{Typ: TokenEOF, Line: line})
	}

	return &Parser{
		tokens: tokens,
	}
}

// Parse is a shorthand for NewParser(tokens).Run().
func Parse(tokens []Token) *AST {
	return NewParser(tokens).Run()
}

func (p *Parser) Run() *AST {
	ast := &AST{}

	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			ast.Statements = append(ast.Statements, stmt)
		}
	}

	ast.Errors = p.errors
	return ast
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Typ == TokenEOF
}

func (p *Parser) next() Token {
	if !p.isAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

// match consumes the next token if it has any of the given types.
func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.next()
			return true
		}
	}

	return false
}

func (p *Parser) expect(typ TokenType, message string) (Token, error) {
	if p.check(typ) {
		return p.next(), nil
	}

	return Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) errorAt(tok Token, message string) *SyntaxError {
	return newSyntaxError(tok, message)
}

func (p *Parser) report(err *SyntaxError) {
	p.errors = append(p.errors, err)
}

// synchronize discards tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	p.next()

	for !p.isAtEnd() {
		if p.previous().Typ == TokenSemicolon {
			return
		}

		switch p.peek().Typ {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf, TokenWhile, TokenPrint, TokenReturn:
			return
		}

		p.next()
	}
}

func (p *Parser) declaration() Stmt {
	var stmt Stmt
	var err error
	if p.match(TokenVar) {
		stmt, err = p.varDeclaration()
	} else {
		stmt, err = p.statement()
	}

	if err != nil {
		p.report(err.(*SyntaxError))
		p.synchronize()
		return nil
	}

	return stmt
}

func (p *Parser) varDeclaration() (Stmt, error) {
	name, err := p.expect(TokenIdentifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer Expr
	if p.match(TokenEqual) {
		if initializer, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(TokenSemicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}

	return &VarStmt{Name: name, Initializer: initializer}, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(TokenPrint):
		return p.printStatement()
	case p.match(TokenIf):
		return p.ifStatement()
	case p.match(TokenWhile):
		return p.whileStatement()
	case p.match(TokenFor):
		return p.forStatement()
	case p.match(TokenLeftBrace):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}

		return &BlockStmt{Statements: stmts}, nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}

	return &PrintStmt{Expression: value}, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenSemicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}

	return &ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	condition, err := p.parenthesizedCondition("'if'", "if condition")
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var otherwise Stmt
	if p.match(TokenElse) {
		if otherwise, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return &IfStmt{Condition: condition, Then: then, Else: otherwise}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	condition, err := p.parenthesizedCondition("'while'", "condition")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Condition: condition, Body: body}, nil
}

func (p *Parser) parenthesizedCondition(after, what string) (Expr, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after "+after+"."); err != nil {
		return nil, err
	}

	condition, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRightParen, "Expect ')' after "+what+"."); err != nil {
		return nil, err
	}

	return condition, nil
}

// forStatement has no node of its own: it is rewritten into
//
//	{ initializer; while (condition) { body; increment; } }
func (p *Parser) forStatement() (Stmt, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer Stmt
	var err error
	switch {
	case p.match(TokenSemicolon):
	case p.match(TokenVar):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition Expr
	if !p.check(TokenSemicolon) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment Expr
	if !p.check(TokenRightParen) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expression: increment}}}
	}

	if condition == nil {
		condition = &LiteralExpr{Value: BoolValue(true)}
	}
	body = &WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}}
	}

	return body, nil
}

func (p *Parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	if _, err := p.expect(TokenRightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(TokenEqual) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		if v, ok := expr.(*VariableExpr); ok {
			return &AssignExpr{Name: v.Name, Value: value}, nil
		}

		// Reported but not unwound: the parser is not confused, only the
		// target is wrong.
		p.report(p.errorAt(equals, "Invalid assignment target."))
	}

	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	return p.logical(p.and, TokenOr)
}

func (p *Parser) and() (Expr, error) {
	return p.logical(p.equality, TokenAnd)
}

func (p *Parser) logical(operand func() (Expr, error), op TokenType) (Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(op) {
		operator := p.previous()
		rhs, err := operand()
		if err != nil {
			return nil, err
		}

		lhs = &LogicalExpr{Left: lhs, Operator: operator, Right: rhs}
	}

	return lhs, nil
}

func (p *Parser) equality() (Expr, error) {
	return p.binary(p.comparison, TokenBangEqual, TokenEqualEqual)
}

func (p *Parser) comparison() (Expr, error) {
	return p.binary(p.term, TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *Parser) term() (Expr, error) {
	return p.binary(p.factor, TokenMinus, TokenPlus)
}

func (p *Parser) factor() (Expr, error) {
	return p.binary(p.unary, TokenSlash, TokenStar)
}

// binary parses a left-associative chain such as 1 - 3 + 1, which nests as
// (1 - 3) + 1.
func (p *Parser) binary(operand func() (Expr, error), ops ...TokenType) (Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for p.match(ops...) {
		operator := p.previous()
		rhs, err := operand()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{Left: lhs, Operator: operator, Right: rhs}
	}

	return lhs, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(TokenBang, TokenMinus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Operator: operator, Right: right}, nil
	}

	return p.primary()
}

func (p *Parser) primary() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenFalse:
		p.next()
		return &LiteralExpr{Value: BoolValue(false)}, nil
	case TokenTrue:
		p.next()
		return &LiteralExpr{Value: BoolValue(true)}, nil
	case TokenNil:
		p.next()
		return &LiteralExpr{Value: Nil}, nil
	case TokenNumber, TokenString:
		p.next()
		return &LiteralExpr{Value: tok.Literal}, nil
	case TokenIdentifier:
		p.next()
		return &VariableExpr{Name: tok}, nil
	case TokenLeftParen:
		return p.parenthesisedExpression()
	default:
		return nil, p.errorAt(tok, "Expect expression.")
	}
}

func (p *Parser) parenthesisedExpression() (Expr, error) {
	p.next() // Skip (

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenRightParen, "Expect ')' after expression."); err != nil {
		return nil, err
	}

	return &GroupingExpr{Expression: expr}, nil
}
