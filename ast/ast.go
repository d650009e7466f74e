// Package ast defines the expression tree produced by the parser and
// consumed by the evaluator. Trees are immutable and side-effect-free to
// construct; only evaluation has effects.
package ast

import (
	"github.com/derivo/derivo-go/value"
)

// Expr is one node of an expression tree. The implementations in this
// package are the only ones; the marker method seals the set.
type Expr interface {
	expr()
}

// Literal is a constant value.
type Literal struct {
	Value value.Value
}

// Identifier is a (possibly dotted) reference into the fact context,
// such as "age" or "customer.email". The full dotted name is the fact key.
type Identifier struct {
	Name string
}

// Binary applies a binary operator to two operands.
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Unary applies a unary operator to one operand.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

// Call invokes a builtin function. Fn is resolved at parse time; FuncUnknown
// is preserved so the evaluator can report the unknown name.
type Call struct {
	Fn   Func
	Name string
	Args []Expr
}

// Conditional is an if/then/else expression. Else may be nil, in which case
// a false condition yields null.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Assign names a fact and the expression computing its value. Evaluation
// reports the binding back to the caller; it does not write facts itself.
type Assign struct {
	Target string
	X      Expr
}

// ListExpr is a list literal of arbitrary element expressions.
type ListExpr struct {
	Elems []Expr
}

// Cast converts the result of X to the given target kind.
type Cast struct {
	X    Expr
	Type value.Kind
}

func (*Literal) expr()     {}
func (*Identifier) expr()  {}
func (*Binary) expr()      {}
func (*Unary) expr()       {}
func (*Call) expr()        {}
func (*Conditional) expr() {}
func (*Assign) expr()      {}
func (*ListExpr) expr()    {}
func (*Cast) expr()        {}
