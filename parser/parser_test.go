package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derivo/derivo-go/ast"
	"github.com/derivo/derivo-go/value"
)

func intLit(i int64) ast.Expr      { return &ast.Literal{Value: value.NewInt(i)} }
func floatLit(f float64) ast.Expr  { return &ast.Literal{Value: value.NewFloat(f)} }
func strLit(s string) ast.Expr     { return &ast.Literal{Value: value.NewString(s)} }
func ident(name string) ast.Expr   { return &ast.Identifier{Name: name} }
func bin(op ast.BinaryOp, l, r ast.Expr) ast.Expr {
	return &ast.Binary{Op: op, Left: l, Right: r}
}

func TestPrecedence(t *testing.T) {
	expr, err := Parse("2 + 3 * 4")
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpAdd, intLit(2), bin(ast.OpMultiply, intLit(3), intLit(4))), expr)
}

func TestLeftAssociativity(t *testing.T) {
	expr, err := Parse("10 - 3 - 2")
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpSubtract, bin(ast.OpSubtract, intLit(10), intLit(3)), intLit(2)), expr)
}

func TestPowerRightAssociative(t *testing.T) {
	expr, err := Parse("2 ^ 3 ^ 2")
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpPower, intLit(2), bin(ast.OpPower, intLit(3), intLit(2))), expr)
}

func TestUnaryBindsTighterThanPower(t *testing.T) {
	expr, err := Parse("-2 ^ 2")
	require.NoError(t, err)
	assert.Equal(t,
		bin(ast.OpPower, &ast.Unary{Op: ast.OpNegate, Operand: intLit(2)}, intLit(2)),
		expr)
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	expr, err := Parse("(2 + 3) * 4")
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpMultiply, bin(ast.OpAdd, intLit(2), intLit(3)), intLit(4)), expr)
}

func TestLogicalTiers(t *testing.T) {
	expr, err := Parse("a or b and not c")
	require.NoError(t, err)
	assert.Equal(t,
		bin(ast.OpOr, ident("a"),
			bin(ast.OpAnd, ident("b"), &ast.Unary{Op: ast.OpNot, Operand: ident("c")})),
		expr)
}

func TestComparisonBelowLogical(t *testing.T) {
	expr, err := Parse("age >= 18 and age < 65")
	require.NoError(t, err)
	assert.Equal(t,
		bin(ast.OpAnd,
			bin(ast.OpGreaterOrEqual, ident("age"), intLit(18)),
			bin(ast.OpLess, ident("age"), intLit(65))),
		expr)
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		source string
		want   ast.Expr
	}{
		{"42", intLit(42)},
		{"3.14", floatLit(3.14)},
		{"1e3", floatLit(1000)},
		{`"double"`, strLit("double")},
		{`'single'`, strLit("single")},
		{"true", &ast.Literal{Value: value.NewBool(true)}},
		{"FALSE", &ast.Literal{Value: value.NewBool(false)}},
		{"null", &ast.Literal{Value: value.NewNull()}},
		{"customer.email", ident("customer.email")},
		{"[1, 2, 3]", &ast.ListExpr{Elems: []ast.Expr{intLit(1), intLit(2), intLit(3)}}},
		{"[]", &ast.ListExpr{Elems: []ast.Expr{}}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expr, err := Parse(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr)
		})
	}
}

func TestAssignment(t *testing.T) {
	expr, err := Parse("category = age + 1")
	require.NoError(t, err)
	assert.Equal(t, &ast.Assign{Target: "category", X: bin(ast.OpAdd, ident("age"), intLit(1))}, expr)
}

func TestConditional(t *testing.T) {
	expr, err := Parse(`if age >= 18 then "adult" else "minor"`)
	require.NoError(t, err)
	assert.Equal(t, &ast.Conditional{
		Cond: bin(ast.OpGreaterOrEqual, ident("age"), intLit(18)),
		Then: strLit("adult"),
		Else: strLit("minor"),
	}, expr)
}

func TestConditionalWithoutElse(t *testing.T) {
	expr, err := Parse("if ok then 1")
	require.NoError(t, err)
	cond, ok := expr.(*ast.Conditional)
	require.True(t, ok)
	assert.Nil(t, cond.Else)
}

func TestFunctionCallResolution(t *testing.T) {
	expr, err := Parse("len(name)")
	require.NoError(t, err)
	assert.Equal(t, &ast.Call{Fn: ast.FuncLen, Name: "LEN", Args: []ast.Expr{ident("name")}}, expr)
}

func TestUnknownFunctionSurvivesParsing(t *testing.T) {
	expr, err := Parse("FROBNICATE(1, 2)")
	require.NoError(t, err)
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, ast.FuncUnknown, call.Fn)
	assert.Equal(t, "FROBNICATE", call.Name)
}

func TestCastLowering(t *testing.T) {
	expr, err := Parse(`CAST(age, "string")`)
	require.NoError(t, err)
	assert.Equal(t, &ast.Cast{X: ident("age"), Type: value.KindString}, expr)
}

func TestCastErrors(t *testing.T) {
	_, err := Parse(`CAST(age, "datetime")`)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Msg, "datetime")

	_, err = Parse(`CAST(age)`)
	require.ErrorAs(t, err, &perr)

	_, err = Parse(`CAST(age, type_name)`)
	require.ErrorAs(t, err, &perr)
}

func TestMatches(t *testing.T) {
	expr, err := Parse(`code MATCHES /^[A-Z]{2}\d+$/`)
	require.NoError(t, err)
	assert.Equal(t,
		bin(ast.OpMatches, ident("code"), &ast.Literal{Value: value.NewRegex(`^[A-Z]{2}\d+$`)}),
		expr)
}

func TestNotMatches(t *testing.T) {
	expr, err := Parse(`code not matches "^X"`)
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpNotMatches, ident("code"), strLit("^X")), expr)
}

func TestMatchesAgainstIdentifier(t *testing.T) {
	expr, err := Parse("code MATCHES country_pattern")
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpMatches, ident("code"), ident("country_pattern")), expr)
}

func TestDivisionIsNotARegex(t *testing.T) {
	expr, err := Parse("8 / 2 / 2")
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpDivide, bin(ast.OpDivide, intLit(8), intLit(2)), intLit(2)), expr)
}

func TestCollectionOperators(t *testing.T) {
	tests := []struct {
		source string
		op     ast.BinaryOp
	}{
		{`country IN ["DE", "FR"]`, ast.OpIn},
		{`country not in ["US"]`, ast.OpNotIn},
		{`name CONTAINS "GmbH"`, ast.OpContains},
		{`iban STARTSWITH "DE"`, ast.OpStartsWith},
		{`file ENDSWITH ".pdf"`, ast.OpEndsWith},
		{`first & last`, ast.OpConcat},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expr, err := Parse(tt.source)
			require.NoError(t, err)
			b, ok := expr.(*ast.Binary)
			require.True(t, ok)
			assert.Equal(t, tt.op, b.Op)
		})
	}
}

func TestComments(t *testing.T) {
	expr, err := Parse("age + 1 # next birthday\n# full-line comment\n")
	require.NoError(t, err)
	assert.Equal(t, bin(ast.OpAdd, ident("age"), intLit(1)), expr)
}

func TestHashInsideString(t *testing.T) {
	expr, err := Parse(`"item #1"`)
	require.NoError(t, err)
	assert.Equal(t, strLit("item #1"), expr)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"only comment", "# nothing here"},
		{"unbalanced paren", "(1 + 2"},
		{"unterminated string", `"abc`},
		{"missing operand", "1 +"},
		{"dangling operator", "and age"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Msg)
		})
	}
}

func TestErrorCarriesPosition(t *testing.T) {
	_, err := Parse("1 +\n+ ?")
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Greater(t, perr.Pos.Line, 0)
}

func TestParsingIsDeterministic(t *testing.T) {
	a, err := Parse(`if IS_EMAIL(contact) then UPPER(contact) else "unknown"`)
	require.NoError(t, err)
	b, err := Parse(`if IS_EMAIL(contact) then UPPER(contact) else "unknown"`)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFormatRoundTrip(t *testing.T) {
	sources := []string{
		"2 + 3 * 4",
		"-2 ^ 2",
		"age >= 18 and age < 65 or exempt",
		"not (a and b)",
		`if age >= 18 then "adult" else "minor"`,
		"if ok then 1",
		`country IN ["DE", "FR", "IT"]`,
		`name CONTAINS "GmbH"`,
		`code MATCHES /^[A-Z]{4}\d{2}$/`,
		`code NOT MATCHES "^X"`,
		`CONCAT(first, " ", last)`,
		`CAST(age, "string")`,
		"category = age + 1",
		`first & ", " & last`,
		"[1, 2.5, 'x', true, null]",
		"LEN(items) % 2 == 0",
	}
	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			first, err := Parse(source)
			require.NoError(t, err)
			second, err := Parse(astFormat(first))
			require.NoError(t, err, "formatted source must reparse: %s", astFormat(first))
			assert.Equal(t, first, second)
		})
	}
}

func astFormat(e ast.Expr) string {
	return ast.Format(e)
}
