package lox

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DumpAST renders statements as YAML. Each node becomes a mapping whose
// "node" key names its type; desugared for loops show up as while loops.
func DumpAST(stmts []Stmt) ([]byte, error) {
	nodes := make([]interface{}, 0, len(stmts))
	for _, stmt := range stmts {
		nodes = append(nodes, stmtNode(stmt))
	}

	return yaml.Marshal(nodes)
}

type node = map[string]interface{}

func stmtNode(stmt Stmt) interface{} {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ExpressionStmt:
		return node{"node": "expression", "expression": exprNode(s.Expression)}
	case *PrintStmt:
		return node{"node": "print", "expression": exprNode(s.Expression)}
	case *VarStmt:
		n := node{"node": "var", "name": s.Name.Lexeme}
		if s.Initializer != nil {
			n["initializer"] = exprNode(s.Initializer)
		}

		return n
	case *BlockStmt:
		children := make([]interface{}, 0, len(s.Statements))
		for _, child := range s.Statements {
			children = append(children, stmtNode(child))
		}

		return node{"node": "block", "statements": children}
	case *IfStmt:
		n := node{"node": "if", "condition": exprNode(s.Condition), "then": stmtNode(s.Then)}
		if s.Else != nil {
			n["else"] = stmtNode(s.Else)
		}

		return n
	case *WhileStmt:
		return node{"node": "while", "condition": exprNode(s.Condition), "body": stmtNode(s.Body)}
	default:
		return node{"node": fmt.Sprintf("%T", stmt)}
	}
}

func exprNode(expr Expr) interface{} {
	switch e := expr.(type) {
	case nil:
		return nil
	case *LiteralExpr:
		return node{"node": "literal", "kind": kindOf(e.Value).String(), "value": Stringify(e.Value)}
	case *GroupingExpr:
		return node{"node": "grouping", "expression": exprNode(e.Expression)}
	case *UnaryExpr:
		return node{"node": "unary", "operator": e.Operator.Lexeme, "right": exprNode(e.Right)}
	case *BinaryExpr:
		return node{"node": "binary", "operator": e.Operator.Lexeme, "left": exprNode(e.Left), "right": exprNode(e.Right)}
	case *LogicalExpr:
		return node{"node": "logical", "operator": e.Operator.Lexeme, "left": exprNode(e.Left), "right": exprNode(e.Right)}
	case *VariableExpr:
		return node{"node": "variable", "name": e.Name.Lexeme}
	case *AssignExpr:
		return node{"node": "assign", "name": e.Name.Lexeme, "value": exprNode(e.Value)}
	default:
		return node{"node": fmt.Sprintf("%T", expr)}
	}
}

func kindOf(v Value) Kind {
	if v == nil {
		return KindNil
	}

	return v.Kind()
}
