package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derivo/derivo-go/ast"
	"github.com/derivo/derivo-go/facts"
	"github.com/derivo/derivo-go/parser"
	"github.com/derivo/derivo-go/value"
)

// evalString parses and evaluates in one step; most tests go through the
// parser so operator coverage tracks the real grammar.
func evalString(t *testing.T, source string, f *facts.Facts) (value.Value, error) {
	t.Helper()
	expr, err := parser.Parse(source)
	require.NoError(t, err)
	return Evaluate(expr, f)
}

func mustEval(t *testing.T, source string, f *facts.Facts) value.Value {
	t.Helper()
	v, err := evalString(t, source, f)
	require.NoError(t, err)
	return v
}

func sampleFacts() *facts.Facts {
	f := facts.New()
	f.Set("age", value.NewInt(25))
	f.Set("name", value.NewString("Ada"))
	f.Set("scores", value.NewList(value.NewInt(1), value.NewInt(2), value.NewInt(3)))
	f.Set("active", value.NewBool(true))
	return f
}

func TestArithmetic(t *testing.T) {
	f := facts.New()
	tests := []struct {
		source string
		want   value.Value
	}{
		{"2 + 3 * 4", value.NewInt(14)},
		{"(2 + 3) * 4", value.NewInt(20)},
		{"10 - 3 - 2", value.NewInt(5)},
		{"7 % 3", value.NewInt(1)},
		{"1 / 2", value.NewNumber(0.5)},
		{"2 ^ 10", value.NewNumber(1024)},
		{"2.5 + 1", value.NewNumber(3.5)},
		{"-3 + 10", value.NewInt(7)},
		{`"foo" + "bar"`, value.NewString("foobar")},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEval(t, tt.source, f))
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	f := facts.New()
	_, err := evalString(t, "1 / 0", f)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = evalString(t, "1 % 0", f)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = evalString(t, "1 / 0.0", f)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestMixingStringsAndNumbers(t *testing.T) {
	f := facts.New()
	for _, source := range []string{`"a" + 1`, `2 * "b"`, `"a" - "b"`} {
		t.Run(source, func(t *testing.T) {
			_, err := evalString(t, source, f)
			var terr *TypeMismatchError
			assert.ErrorAs(t, err, &terr)
		})
	}
}

func TestComparisons(t *testing.T) {
	f := sampleFacts()
	tests := []struct {
		source string
		want   bool
	}{
		{"age == 25", true},
		{"age != 25", false},
		{"age >= 18", true},
		{"age < 18", false},
		{"2 == 2.0", true},
		{`name == "Ada"`, true},
		{`"apple" < "banana"`, true},
		{"[1, 2] == [1, 2]", true},
		{"[1, 2] == [2, 1]", false},
		{"null == null", true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, value.NewBool(tt.want), mustEval(t, tt.source, f))
		})
	}
}

func TestCrossVariantComparisonFails(t *testing.T) {
	f := sampleFacts()
	for _, source := range []string{`name == 25`, `age == "25"`, `active == 1`, `name < 3`} {
		t.Run(source, func(t *testing.T) {
			_, err := evalString(t, source, f)
			var terr *TypeMismatchError
			assert.ErrorAs(t, err, &terr)
		})
	}
}

func TestLogical(t *testing.T) {
	f := sampleFacts()
	assert.Equal(t, value.NewBool(true), mustEval(t, "age >= 18 and active", f))
	assert.Equal(t, value.NewBool(true), mustEval(t, "age < 18 or active", f))
	assert.Equal(t, value.NewBool(false), mustEval(t, "not active", f))

	_, err := evalString(t, "1 and true", f)
	var terr *TypeMismatchError
	assert.ErrorAs(t, err, &terr)
}

func TestShortCircuit(t *testing.T) {
	f := facts.New()

	// The right operand would fail with division by zero; the left operand
	// already decides, so it must never be evaluated.
	v, err := evalString(t, "false and 1 / 0 == 1", f)
	require.NoError(t, err)
	assert.Equal(t, value.NewBool(false), v)

	v, err = evalString(t, "true or 1 / 0 == 1", f)
	require.NoError(t, err)
	assert.Equal(t, value.NewBool(true), v)

	// Without short-circuiting the error surfaces.
	_, err = evalString(t, "true and 1 / 0 == 1", f)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestPatternMatching(t *testing.T) {
	f := facts.New()
	f.Set("bic", value.NewString("DEUTDEFF"))

	assert.Equal(t, value.NewBool(true), mustEval(t, `bic MATCHES /^[A-Z]{8}$/`, f))
	assert.Equal(t, value.NewBool(false), mustEval(t, `bic MATCHES /\d/`, f))
	assert.Equal(t, value.NewBool(true), mustEval(t, `bic NOT MATCHES "^X"`, f))

	_, err := evalString(t, `bic MATCHES "["`, f)
	var perr *InvalidPatternError
	assert.ErrorAs(t, err, &perr)
}

func TestStringAndCollectionOperators(t *testing.T) {
	f := sampleFacts()
	tests := []struct {
		source string
		want   value.Value
	}{
		{`"Acme " & "GmbH"`, value.NewString("Acme GmbH")},
		{`name CONTAINS "d"`, value.NewBool(true)},
		{`scores CONTAINS 2`, value.NewBool(true)},
		{`scores CONTAINS 9`, value.NewBool(false)},
		{`name STARTSWITH "A"`, value.NewBool(true)},
		{`name ENDSWITH "a"`, value.NewBool(true)},
		{`2 IN scores`, value.NewBool(true)},
		{`9 NOT IN scores`, value.NewBool(true)},
		{`"ad" IN "Ada"`, value.NewBool(false)},
		{`"Ad" IN "Ada"`, value.NewBool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEval(t, tt.source, f))
		})
	}

	_, err := evalString(t, "1 IN 2", f)
	var terr *TypeMismatchError
	assert.ErrorAs(t, err, &terr)
}

func TestUnknownAttribute(t *testing.T) {
	_, err := evalString(t, "missing + 1", facts.New())
	var uerr *UnknownAttributeError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "missing", uerr.Name)
}

func TestConditional(t *testing.T) {
	f := sampleFacts()
	assert.Equal(t, value.NewString("adult"), mustEval(t, `if age >= 18 then "adult" else "minor"`, f))
	assert.Equal(t, value.NewString("minor"), mustEval(t, `if age < 18 then "adult" else "minor"`, f))
	assert.Equal(t, value.NewNull(), mustEval(t, `if age < 18 then "adult"`, f))

	_, err := evalString(t, `if age then "adult"`, f)
	var terr *TypeMismatchError
	assert.ErrorAs(t, err, &terr)
}

func TestAssignment(t *testing.T) {
	f := sampleFacts()
	expr, err := parser.Parse("next_age = age + 1")
	require.NoError(t, err)

	assign, ok := expr.(*ast.Assign)
	require.True(t, ok)
	target, v, err := EvaluateAssignment(assign, f)
	require.NoError(t, err)
	assert.Equal(t, "next_age", target)
	assert.Equal(t, value.NewInt(26), v)

	// The evaluator never writes the fact context itself.
	assert.False(t, f.Has("next_age"))
}

func TestCast(t *testing.T) {
	f := facts.New()
	tests := []struct {
		source string
		want   value.Value
	}{
		{`CAST(42, "string")`, value.NewString("42")},
		{`CAST("42", "integer")`, value.NewInt(42)},
		{`CAST("2.5", "number")`, value.NewNumber(2.5)},
		{`CAST(3.9, "integer")`, value.NewInt(3)},
		{`CAST(7, "float")`, value.NewFloat(7)},
		{`CAST("true", "boolean")`, value.NewBool(true)},
		{`CAST(true, "string")`, value.NewString("true")},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, mustEval(t, tt.source, f))
		})
	}
}

func TestCastFailure(t *testing.T) {
	f := facts.New()
	for _, source := range []string{
		`CAST("abc", "integer")`,
		`CAST("abc", "number")`,
		`CAST("maybe", "boolean")`,
		`CAST(1, "boolean")`,
		`CAST(null, "string")`,
	} {
		t.Run(source, func(t *testing.T) {
			_, err := evalString(t, source, f)
			var cerr *CastError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestListExpression(t *testing.T) {
	f := sampleFacts()
	v := mustEval(t, `[age, name, age > 18]`, f)
	assert.Equal(t, value.NewList(value.NewInt(25), value.NewString("Ada"), value.NewBool(true)), v)
}
