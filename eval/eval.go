// Package eval reduces an expression tree plus a fact context to a value.
//
// Evaluation is a pure, synchronous computation: the only state it reads is
// the supplied fact context, and it never writes it; even an assignment is
// reported back to the caller rather than applied.
package eval

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/derivo/derivo-go/ast"
	"github.com/derivo/derivo-go/facts"
	"github.com/derivo/derivo-go/value"
)

// Evaluate reduces e against f. For an assignment it computes and returns
// the right-hand value without touching f; use EvaluateAssignment when the
// binding target is needed.
func Evaluate(e ast.Expr, f *facts.Facts) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value, nil

	case *ast.Identifier:
		v, ok := f.Get(n.Name)
		if !ok {
			return value.Value{}, &UnknownAttributeError{Name: n.Name}
		}
		return v, nil

	case *ast.ListExpr:
		items := make([]value.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := Evaluate(el, f)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.NewList(items...), nil

	case *ast.Unary:
		return evalUnary(n, f)

	case *ast.Binary:
		return evalBinary(n, f)

	case *ast.Call:
		return evalCall(n, f)

	case *ast.Conditional:
		return evalConditional(n, f)

	case *ast.Assign:
		return Evaluate(n.X, f)

	case *ast.Cast:
		return evalCast(n, f)

	default:
		return value.Value{}, &InvalidCallError{Func: "evaluate", Reason: "unsupported expression node"}
	}
}

// EvaluateAssignment evaluates an assignment statement and reports the
// binding as a (target, value) pair. The caller decides whether and where
// to persist it.
func EvaluateAssignment(a *ast.Assign, f *facts.Facts) (string, value.Value, error) {
	v, err := Evaluate(a.X, f)
	if err != nil {
		return "", value.Value{}, err
	}
	return a.Target, v, nil
}

func evalUnary(n *ast.Unary, f *facts.Facts) (value.Value, error) {
	v, err := Evaluate(n.Operand, f)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case ast.OpNot:
		if v.Kind() != value.KindBoolean {
			return value.Value{}, &TypeMismatchError{Op: "not", Kinds: []value.Kind{v.Kind()}}
		}
		return value.NewBool(!v.Bool()), nil
	case ast.OpNegate:
		switch v.Kind() {
		case value.KindInteger:
			return value.NewInt(-v.Int()), nil
		case value.KindNumber, value.KindFloat:
			fv, _ := v.AsFloat()
			return value.NewNumber(-fv), nil
		}
		return value.Value{}, &TypeMismatchError{Op: "-", Kinds: []value.Kind{v.Kind()}}
	default: // ast.OpPositive
		if !v.IsNumeric() {
			return value.Value{}, &TypeMismatchError{Op: "+", Kinds: []value.Kind{v.Kind()}}
		}
		return v, nil
	}
}

func evalBinary(n *ast.Binary, f *facts.Facts) (value.Value, error) {
	// And/Or short-circuit: the right operand is only evaluated when the
	// left does not already determine the result.
	if n.Op == ast.OpAnd || n.Op == ast.OpOr {
		return evalLogical(n, f)
	}

	l, err := Evaluate(n.Left, f)
	if err != nil {
		return value.Value{}, err
	}
	r, err := Evaluate(n.Right, f)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case ast.OpEqual, ast.OpNotEqual:
		if !l.ComparableWith(r) {
			return value.Value{}, typeErr(n.Op, l, r)
		}
		eq := l.Equal(r)
		if n.Op == ast.OpNotEqual {
			eq = !eq
		}
		return value.NewBool(eq), nil

	case ast.OpLess, ast.OpLessOrEqual, ast.OpGreater, ast.OpGreaterOrEqual:
		if !l.Ordered(r) {
			return value.Value{}, typeErr(n.Op, l, r)
		}
		var res bool
		switch n.Op {
		case ast.OpLess:
			res = l.Less(r)
		case ast.OpLessOrEqual:
			res = l.Less(r) || l.Equal(r)
		case ast.OpGreater:
			res = r.Less(l)
		default:
			res = r.Less(l) || l.Equal(r)
		}
		return value.NewBool(res), nil

	case ast.OpMatches, ast.OpNotMatches:
		return evalMatch(n.Op, l, r)

	case ast.OpConcat:
		if l.Kind() != value.KindString || r.Kind() != value.KindString {
			return value.Value{}, typeErr(n.Op, l, r)
		}
		return value.NewString(l.Str() + r.Str()), nil

	case ast.OpContains:
		return evalContains(n.Op, l, r)

	case ast.OpStartsWith:
		if l.Kind() != value.KindString || r.Kind() != value.KindString {
			return value.Value{}, typeErr(n.Op, l, r)
		}
		return value.NewBool(strings.HasPrefix(l.Str(), r.Str())), nil

	case ast.OpEndsWith:
		if l.Kind() != value.KindString || r.Kind() != value.KindString {
			return value.Value{}, typeErr(n.Op, l, r)
		}
		return value.NewBool(strings.HasSuffix(l.Str(), r.Str())), nil

	case ast.OpIn, ast.OpNotIn:
		member, err := evalMembership(n.Op, l, r)
		if err != nil {
			return value.Value{}, err
		}
		if n.Op == ast.OpNotIn {
			member = !member
		}
		return value.NewBool(member), nil

	default:
		return evalArithmetic(n.Op, l, r)
	}
}

func evalLogical(n *ast.Binary, f *facts.Facts) (value.Value, error) {
	l, err := Evaluate(n.Left, f)
	if err != nil {
		return value.Value{}, err
	}
	if l.Kind() != value.KindBoolean {
		return value.Value{}, &TypeMismatchError{Op: n.Op.String(), Kinds: []value.Kind{l.Kind()}}
	}
	if n.Op == ast.OpAnd && !l.Bool() {
		return value.NewBool(false), nil
	}
	if n.Op == ast.OpOr && l.Bool() {
		return value.NewBool(true), nil
	}
	r, err := Evaluate(n.Right, f)
	if err != nil {
		return value.Value{}, err
	}
	if r.Kind() != value.KindBoolean {
		return value.Value{}, &TypeMismatchError{Op: n.Op.String(), Kinds: []value.Kind{r.Kind()}}
	}
	return value.NewBool(r.Bool()), nil
}

func evalMatch(op ast.BinaryOp, l, r value.Value) (value.Value, error) {
	if l.Kind() != value.KindString {
		return value.Value{}, typeErr(op, l, r)
	}
	pattern, ok := patternText(r)
	if !ok {
		return value.Value{}, typeErr(op, l, r)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return value.Value{}, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	matched := re.MatchString(l.Str())
	if op == ast.OpNotMatches {
		matched = !matched
	}
	return value.NewBool(matched), nil
}

func evalContains(op ast.BinaryOp, l, r value.Value) (value.Value, error) {
	switch {
	case l.Kind() == value.KindString && r.Kind() == value.KindString:
		return value.NewBool(strings.Contains(l.Str(), r.Str())), nil
	case l.Kind() == value.KindList:
		return value.NewBool(listHas(l, r)), nil
	default:
		return value.Value{}, typeErr(op, l, r)
	}
}

func evalMembership(op ast.BinaryOp, l, r value.Value) (bool, error) {
	switch {
	case r.Kind() == value.KindList:
		return listHas(r, l), nil
	case l.Kind() == value.KindString && r.Kind() == value.KindString:
		return strings.Contains(r.Str(), l.Str()), nil
	default:
		return false, typeErr(op, l, r)
	}
}

func listHas(list, item value.Value) bool {
	for _, el := range list.Items() {
		if el.ComparableWith(item) && el.Equal(item) {
			return true
		}
	}
	return false
}

func evalArithmetic(op ast.BinaryOp, l, r value.Value) (value.Value, error) {
	// String + String concatenates.
	if op == ast.OpAdd && l.Kind() == value.KindString && r.Kind() == value.KindString {
		return value.NewString(l.Str() + r.Str()), nil
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.Value{}, typeErr(op, l, r)
	}

	// Pure integer arithmetic stays integral; everything else is computed
	// over float64. Divide and Power always produce a general number.
	if l.Kind() == value.KindInteger && r.Kind() == value.KindInteger {
		a, b := l.Int(), r.Int()
		switch op {
		case ast.OpAdd:
			return value.NewInt(a + b), nil
		case ast.OpSubtract:
			return value.NewInt(a - b), nil
		case ast.OpMultiply:
			return value.NewInt(a * b), nil
		case ast.OpModulo:
			if b == 0 {
				return value.Value{}, ErrDivisionByZero
			}
			return value.NewInt(a % b), nil
		}
	}

	a, _ := l.AsFloat()
	b, _ := r.AsFloat()
	switch op {
	case ast.OpAdd:
		return value.NewNumber(a + b), nil
	case ast.OpSubtract:
		return value.NewNumber(a - b), nil
	case ast.OpMultiply:
		return value.NewNumber(a * b), nil
	case ast.OpDivide:
		if b == 0 {
			return value.Value{}, ErrDivisionByZero
		}
		return value.NewNumber(a / b), nil
	case ast.OpModulo:
		if b == 0 {
			return value.Value{}, ErrDivisionByZero
		}
		return value.NewNumber(math.Mod(a, b)), nil
	case ast.OpPower:
		return value.NewNumber(math.Pow(a, b)), nil
	default:
		return value.Value{}, typeErr(op, l, r)
	}
}

func evalConditional(n *ast.Conditional, f *facts.Facts) (value.Value, error) {
	cond, err := Evaluate(n.Cond, f)
	if err != nil {
		return value.Value{}, err
	}
	if cond.Kind() != value.KindBoolean {
		return value.Value{}, &TypeMismatchError{Op: "if", Kinds: []value.Kind{cond.Kind()}}
	}
	if cond.Bool() {
		return Evaluate(n.Then, f)
	}
	if n.Else == nil {
		return value.NewNull(), nil
	}
	return Evaluate(n.Else, f)
}

func evalCast(n *ast.Cast, f *facts.Facts) (value.Value, error) {
	v, err := Evaluate(n.X, f)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Type {
	case value.KindString:
		switch v.Kind() {
		case value.KindString:
			return v, nil
		case value.KindInteger, value.KindFloat, value.KindNumber, value.KindBoolean:
			return value.NewString(v.String()), nil
		}

	case value.KindInteger:
		switch v.Kind() {
		case value.KindInteger:
			return v, nil
		case value.KindFloat, value.KindNumber:
			fv, _ := v.AsFloat()
			return value.NewInt(int64(fv)), nil
		case value.KindString:
			s := strings.TrimSpace(v.Str())
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return value.NewInt(i), nil
			}
			if fv, err := strconv.ParseFloat(s, 64); err == nil {
				return value.NewInt(int64(fv)), nil
			}
			return value.Value{}, &CastError{From: v.Kind(), To: n.Type, Text: v.Str()}
		}

	case value.KindFloat, value.KindNumber:
		switch v.Kind() {
		case value.KindInteger, value.KindFloat, value.KindNumber:
			fv, _ := v.AsFloat()
			if n.Type == value.KindFloat {
				return value.NewFloat(fv), nil
			}
			return value.NewNumber(fv), nil
		case value.KindString:
			fv, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
			if err != nil {
				return value.Value{}, &CastError{From: v.Kind(), To: n.Type, Text: v.Str()}
			}
			if n.Type == value.KindFloat {
				return value.NewFloat(fv), nil
			}
			return value.NewNumber(fv), nil
		}

	case value.KindBoolean:
		switch v.Kind() {
		case value.KindBoolean:
			return v, nil
		case value.KindString:
			switch strings.ToLower(strings.TrimSpace(v.Str())) {
			case "true":
				return value.NewBool(true), nil
			case "false":
				return value.NewBool(false), nil
			}
			return value.Value{}, &CastError{From: v.Kind(), To: n.Type, Text: v.Str()}
		}
	}

	return value.Value{}, &CastError{From: v.Kind(), To: n.Type}
}

// patternText extracts the regex source from a pattern operand, which may
// be a regex literal or a string holding a pattern.
func patternText(v value.Value) (string, bool) {
	switch v.Kind() {
	case value.KindRegex:
		return v.Pattern(), true
	case value.KindString:
		return v.Str(), true
	default:
		return "", false
	}
}

func typeErr(op ast.BinaryOp, l, r value.Value) error {
	return &TypeMismatchError{Op: op.String(), Kinds: []value.Kind{l.Kind(), r.Kind()}}
}
