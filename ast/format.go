package ast

import (
	"strconv"
	"strings"

	"github.com/derivo/derivo-go/value"
)

// Format serializes an expression back to parseable rule-language source.
// For any tree the parser produced, parsing the formatted text yields a
// structurally equal tree. Operands are parenthesized conservatively rather
// than by precedence, so the output is unambiguous but not minimal.
func Format(e Expr) string {
	switch n := e.(type) {
	case *Literal:
		return formatValue(n.Value)
	case *Identifier:
		return n.Name
	case *Unary:
		if n.Op == OpNot {
			return "not " + operand(n.Operand)
		}
		return n.Op.String() + operand(n.Operand)
	case *Binary:
		if n.Op == OpMatches || n.Op == OpNotMatches {
			// A match right-hand side is a regex, string or identifier and
			// is never parenthesized.
			return operand(n.Left) + " " + n.Op.String() + " " + Format(n.Right)
		}
		return operand(n.Left) + " " + n.Op.String() + " " + operand(n.Right)
	case *Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = Format(a)
		}
		return n.Name + "(" + strings.Join(args, ", ") + ")"
	case *Conditional:
		s := "if " + operand(n.Cond) + " then " + operand(n.Then)
		if n.Else != nil {
			s += " else " + operand(n.Else)
		}
		return s
	case *Assign:
		return n.Target + " = " + Format(n.X)
	case *ListExpr:
		elems := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = Format(el)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *Cast:
		return "CAST(" + Format(n.X) + ", " + strconv.Quote(n.Type.String()) + ")"
	default:
		return ""
	}
}

// operand formats a sub-expression, wrapping anything that is not a plain
// primary in parentheses.
func operand(e Expr) string {
	switch e.(type) {
	case *Binary, *Unary, *Conditional, *Assign:
		return "(" + Format(e) + ")"
	default:
		return Format(e)
	}
}

func formatValue(v value.Value) string {
	switch v.Kind() {
	case value.KindString:
		return quote(v.Str())
	case value.KindRegex:
		return "/" + v.Pattern() + "/"
	case value.KindFloat, value.KindNumber:
		s := strconv.FormatFloat(mustFloat(v), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	default:
		return v.String()
	}
}

// quote renders a string literal, choosing single quotes when the text
// itself contains a double quote. The lexer has no escape sequences, so a
// string containing both quote characters is not representable as source.
func quote(s string) string {
	if strings.Contains(s, `"`) {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}

func mustFloat(v value.Value) float64 {
	f, _ := v.AsFloat()
	return f
}
