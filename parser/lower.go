package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/derivo/derivo-go/ast"
	"github.com/derivo/derivo-go/value"
)

// Lowering converts the raw grammar tree into the clean ast.Expr form:
// precedence tiers collapse into ast.Binary nodes, literal tokens become
// value.Value literals, and CAST call syntax becomes an ast.Cast node.

func lowerStatement(s *statement) (ast.Expr, error) {
	if s.Assign != nil {
		x, err := lowerOr(s.Assign.X)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: s.Assign.Target, X: x}, nil
	}
	return lowerOr(s.Expr)
}

func lowerOr(e *orExpr) (ast.Expr, error) {
	left, err := lowerAnd(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range e.Rest {
		right, err := lowerAnd(rhs)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func lowerAnd(e *andExpr) (ast.Expr, error) {
	left, err := lowerNot(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range e.Rest {
		right, err := lowerNot(rhs)
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func lowerNot(e *notExpr) (ast.Expr, error) {
	x, err := lowerComparison(e.X)
	if err != nil {
		return nil, err
	}
	for range e.Nots {
		x = &ast.Unary{Op: ast.OpNot, Operand: x}
	}
	return x, nil
}

func lowerComparison(e *comparison) (ast.Expr, error) {
	left, err := lowerMatch(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == "" {
		return left, nil
	}
	right, err := lowerMatch(e.Right)
	if err != nil {
		return nil, err
	}
	var op ast.BinaryOp
	switch e.Op {
	case "==":
		op = ast.OpEqual
	case "!=":
		op = ast.OpNotEqual
	case "<":
		op = ast.OpLess
	case "<=":
		op = ast.OpLessOrEqual
	case ">":
		op = ast.OpGreater
	case ">=":
		op = ast.OpGreaterOrEqual
	}
	return &ast.Binary{Op: op, Left: left, Right: right}, nil
}

func lowerMatch(e *matchExpr) (ast.Expr, error) {
	left, err := lowerColl(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op == "" {
		return left, nil
	}
	op := ast.OpMatches
	if normalizeWordOp(e.Op) == "NOT MATCHES" {
		op = ast.OpNotMatches
	}
	var right ast.Expr
	switch {
	case e.Right.Regex != nil:
		pattern := strings.TrimSuffix(strings.TrimPrefix(*e.Right.Regex, "/"), "/")
		right = &ast.Literal{Value: value.NewRegex(pattern)}
	case e.Right.Str != nil:
		right = &ast.Literal{Value: value.NewString(unquote(*e.Right.Str))}
	default:
		right = &ast.Identifier{Name: *e.Right.Ident}
	}
	return &ast.Binary{Op: op, Left: left, Right: right}, nil
}

func lowerColl(e *collExpr) (ast.Expr, error) {
	left, err := lowerAdditive(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range e.Rest {
		right, err := lowerAdditive(rhs.Right)
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOp
		switch normalizeWordOp(rhs.Op) {
		case "&":
			op = ast.OpConcat
		case "CONTAINS":
			op = ast.OpContains
		case "STARTSWITH":
			op = ast.OpStartsWith
		case "ENDSWITH":
			op = ast.OpEndsWith
		case "IN":
			op = ast.OpIn
		case "NOT IN":
			op = ast.OpNotIn
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func lowerAdditive(e *additive) (ast.Expr, error) {
	left, err := lowerMultiplicative(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range e.Rest {
		right, err := lowerMultiplicative(rhs.Right)
		if err != nil {
			return nil, err
		}
		op := ast.OpAdd
		if rhs.Op == "-" {
			op = ast.OpSubtract
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func lowerMultiplicative(e *multiplicative) (ast.Expr, error) {
	left, err := lowerPower(e.Left)
	if err != nil {
		return nil, err
	}
	for _, rhs := range e.Rest {
		right, err := lowerPower(rhs.Right)
		if err != nil {
			return nil, err
		}
		var op ast.BinaryOp
		switch rhs.Op {
		case "*":
			op = ast.OpMultiply
		case "/":
			op = ast.OpDivide
		case "%":
			op = ast.OpModulo
		}
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func lowerPower(e *power) (ast.Expr, error) {
	left, err := lowerUnary(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Right == nil {
		return left, nil
	}
	right, err := lowerPower(e.Right)
	if err != nil {
		return nil, err
	}
	return &ast.Binary{Op: ast.OpPower, Left: left, Right: right}, nil
}

func lowerUnary(e *unaryExpr) (ast.Expr, error) {
	x, err := lowerPrimary(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "-":
		return &ast.Unary{Op: ast.OpNegate, Operand: x}, nil
	case "+":
		return &ast.Unary{Op: ast.OpPositive, Operand: x}, nil
	default:
		return x, nil
	}
}

func lowerPrimary(e *primary) (ast.Expr, error) {
	switch {
	case e.If != nil:
		return lowerIf(e.If)
	case e.Call != nil:
		return lowerCall(e.Call)
	case e.Lit != nil:
		return lowerLiteral(e.Lit), nil
	case e.List != nil:
		elems := make([]ast.Expr, len(e.List.Elems))
		for i, el := range e.List.Elems {
			x, err := lowerOr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = x
		}
		return &ast.ListExpr{Elems: elems}, nil
	case e.Ident != nil:
		return &ast.Identifier{Name: *e.Ident}, nil
	default:
		return lowerOr(e.Sub)
	}
}

func lowerIf(e *ifExpr) (ast.Expr, error) {
	cond, err := lowerOr(e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := lowerOr(e.Then)
	if err != nil {
		return nil, err
	}
	var els ast.Expr
	if e.Else != nil {
		els, err = lowerOr(e.Else)
		if err != nil {
			return nil, err
		}
	}
	return &ast.Conditional{Cond: cond, Then: then, Else: els}, nil
}

func lowerCall(e *callExpr) (ast.Expr, error) {
	args := make([]ast.Expr, len(e.Args))
	for i, a := range e.Args {
		x, err := lowerOr(a)
		if err != nil {
			return nil, err
		}
		args[i] = x
	}
	name := strings.ToUpper(e.Name)
	if name == "CAST" {
		return lowerCast(e.Pos, args)
	}
	fn, _ := ast.FuncByName(name)
	return &ast.Call{Fn: fn, Name: name, Args: args}, nil
}

// lowerCast turns CAST(expr, "type") call syntax into an ast.Cast node.
// The target type must be a string literal naming a castable kind.
func lowerCast(pos lexer.Position, args []ast.Expr) (ast.Expr, error) {
	if len(args) != 2 {
		return nil, &Error{Pos: pos, Msg: fmt.Sprintf("CAST takes 2 arguments, got %d", len(args))}
	}
	lit, ok := args[1].(*ast.Literal)
	if !ok || lit.Value.Kind() != value.KindString {
		return nil, &Error{Pos: pos, Msg: "CAST target type must be a string literal"}
	}
	var kind value.Kind
	switch strings.ToLower(lit.Value.Str()) {
	case "string":
		kind = value.KindString
	case "integer", "int":
		kind = value.KindInteger
	case "float":
		kind = value.KindFloat
	case "number":
		kind = value.KindNumber
	case "boolean", "bool":
		kind = value.KindBoolean
	default:
		return nil, &Error{Pos: pos, Msg: fmt.Sprintf("unknown cast target type %q", lit.Value.Str())}
	}
	return &ast.Cast{X: args[0], Type: kind}, nil
}

func lowerLiteral(l *literal) ast.Expr {
	switch {
	case l.Str != nil:
		return &ast.Literal{Value: value.NewString(unquote(*l.Str))}
	case l.Float != nil:
		return &ast.Literal{Value: value.NewFloat(*l.Float)}
	case l.Int != nil:
		return &ast.Literal{Value: value.NewInt(*l.Int)}
	case l.Bool != nil:
		return &ast.Literal{Value: value.NewBool(strings.EqualFold(*l.Bool, "true"))}
	default:
		return &ast.Literal{Value: value.NewNull()}
	}
}

// unquote strips the surrounding quote pair from a string token.
func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// normalizeWordOp upper-cases a word operator and collapses internal
// whitespace, so "not   matches" and "NOT MATCHES" compare equal.
func normalizeWordOp(op string) string {
	return strings.Join(strings.Fields(strings.ToUpper(op)), " ")
}
