package ast

import "strings"

// BinaryOp is a binary operator of the rule language, grouped by precedence
// tier from lowest (logical) to highest (power).
type BinaryOp int

const (
	// Logical.
	OpOr BinaryOp = iota
	OpAnd

	// Equality and comparison.
	OpEqual
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual

	// Pattern.
	OpMatches
	OpNotMatches

	// String and collection.
	OpConcat
	OpContains
	OpStartsWith
	OpEndsWith
	OpIn
	OpNotIn

	// Additive.
	OpAdd
	OpSubtract

	// Multiplicative.
	OpMultiply
	OpDivide
	OpModulo

	// Power.
	OpPower
)

// String returns the source form of the operator.
func (op BinaryOp) String() string {
	switch op {
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpMatches:
		return "MATCHES"
	case OpNotMatches:
		return "NOT MATCHES"
	case OpConcat:
		return "&"
	case OpContains:
		return "CONTAINS"
	case OpStartsWith:
		return "STARTSWITH"
	case OpEndsWith:
		return "ENDSWITH"
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpModulo:
		return "%"
	case OpPower:
		return "^"
	default:
		return "?"
	}
}

// UnaryOp is a unary operator of the rule language.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNegate
	OpPositive
)

// String returns the source form of the operator.
func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "not"
	case OpNegate:
		return "-"
	case OpPositive:
		return "+"
	default:
		return "?"
	}
}

// Func identifies a builtin function. Function names are resolved once at
// parse time; FuncUnknown survives to evaluation so the unknown name can be
// reported there.
type Func int

const (
	FuncUnknown Func = iota
	FuncUpper
	FuncLower
	FuncConcat
	FuncIsEmail
	FuncIsLEI
	FuncIsSwift
	FuncExtract
	FuncValidate
	FuncLen
)

// FuncByName resolves a builtin function by its source name,
// case-insensitively. The second return is false for unknown names.
func FuncByName(name string) (Func, bool) {
	switch strings.ToUpper(name) {
	case "UPPER":
		return FuncUpper, true
	case "LOWER":
		return FuncLower, true
	case "CONCAT":
		return FuncConcat, true
	case "IS_EMAIL":
		return FuncIsEmail, true
	case "IS_LEI":
		return FuncIsLEI, true
	case "IS_SWIFT":
		return FuncIsSwift, true
	case "EXTRACT":
		return FuncExtract, true
	case "VALIDATE":
		return FuncValidate, true
	case "LEN":
		return FuncLen, true
	default:
		return FuncUnknown, false
	}
}
