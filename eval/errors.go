package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/derivo/derivo-go/value"
)

// ErrDivisionByZero is returned when a divisor or modulus evaluates to zero.
var ErrDivisionByZero = errors.New("division by zero")

// UnknownAttributeError is returned when an identifier is absent from the
// fact context.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Name)
}

// TypeMismatchError is returned when an operator is applied to incompatible
// value kinds.
type TypeMismatchError struct {
	Op    string
	Kinds []value.Kind
}

func (e *TypeMismatchError) Error() string {
	names := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		names[i] = k.String()
	}
	return fmt.Sprintf("type mismatch: %s is not defined for %s", e.Op, strings.Join(names, ", "))
}

// InvalidPatternError is returned when a regex operand fails to compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern /%s/: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// InvalidCallError is returned for an unknown function name or a known
// function called with the wrong arity or argument kinds.
type InvalidCallError struct {
	Func   string
	Reason string
}

func (e *InvalidCallError) Error() string {
	return fmt.Sprintf("invalid call to %s: %s", e.Func, e.Reason)
}

// CastError is returned when a CAST cannot produce the target kind.
type CastError struct {
	From value.Kind
	To   value.Kind
	Text string
}

func (e *CastError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("cannot cast %q to %s", e.Text, e.To)
	}
	return fmt.Sprintf("cannot cast %s to %s", e.From, e.To)
}
