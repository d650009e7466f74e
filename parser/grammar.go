package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar is stratified by precedence, lowest binding first:
// assignment, or, and, not, comparison, pattern match, string/collection,
// additive, multiplicative, power (right-associative), unary sign, primary.

// statement is the grammar root: a full assignment or a bare expression.
type statement struct {
	Pos    lexer.Position
	Assign *assignStmt `parser:"  @@"`
	Expr   *orExpr     `parser:"| @@"`
}

type assignStmt struct {
	Pos    lexer.Position
	Target string  `parser:"@Ident Assign"`
	X      *orExpr `parser:"@@"`
}

type orExpr struct {
	Left *andExpr   `parser:"@@"`
	Rest []*andExpr `parser:"(Or @@)*"`
}

type andExpr struct {
	Left *notExpr   `parser:"@@"`
	Rest []*notExpr `parser:"(And @@)*"`
}

type notExpr struct {
	Nots []string    `parser:"@Not*"`
	X    *comparison `parser:"@@"`
}

// comparison is non-chaining: at most one comparison operator per tier.
type comparison struct {
	Left  *matchExpr `parser:"@@"`
	Op    string     `parser:"(@CmpOp"`
	Right *matchExpr `parser:"@@)?"`
}

type matchExpr struct {
	Left  *collExpr       `parser:"@@"`
	Op    string          `parser:"(@MatchOp"`
	Right *patternOperand `parser:"@@)?"`
}

// patternOperand is the right-hand side of MATCHES / NOT MATCHES: a regex
// literal, a string literal, or an identifier holding the pattern.
type patternOperand struct {
	Pos   lexer.Position
	Regex *string `parser:"  @Regex"`
	Str   *string `parser:"| @String"`
	Ident *string `parser:"| @Ident"`
}

type collExpr struct {
	Left *additive  `parser:"@@"`
	Rest []*collRHS `parser:"@@*"`
}

type collRHS struct {
	Op    string    `parser:"@(CollOp | InOp | '&')"`
	Right *additive `parser:"@@"`
}

type additive struct {
	Left *multiplicative `parser:"@@"`
	Rest []*additiveRHS  `parser:"@@*"`
}

type additiveRHS struct {
	Op    string          `parser:"@('+' | '-')"`
	Right *multiplicative `parser:"@@"`
}

type multiplicative struct {
	Left *power               `parser:"@@"`
	Rest []*multiplicativeRHS `parser:"@@*"`
}

type multiplicativeRHS struct {
	Op    string `parser:"@('*' | '/' | '%')"`
	Right *power `parser:"@@"`
}

// power is right-associative: 2^3^2 is 2^(3^2).
type power struct {
	Left  *unaryExpr `parser:"@@"`
	Right *power     `parser:"('^' @@)?"`
}

type unaryExpr struct {
	Op string   `parser:"@('-' | '+')?"`
	X  *primary `parser:"@@"`
}

type primary struct {
	Pos   lexer.Position
	If    *ifExpr   `parser:"  @@"`
	Call  *callExpr `parser:"| @@"`
	Lit   *literal  `parser:"| @@"`
	List  *listLit  `parser:"| @@"`
	Ident *string   `parser:"| @Ident"`
	Sub   *orExpr   `parser:"| '(' @@ ')'"`
}

type ifExpr struct {
	Cond *orExpr `parser:"If @@"`
	Then *orExpr `parser:"Then @@"`
	Else *orExpr `parser:"(Else @@)?"`
}

type callExpr struct {
	Pos  lexer.Position
	Name string    `parser:"@Ident '('"`
	Args []*orExpr `parser:"(@@ (',' @@)*)? ')'"`
}

type listLit struct {
	Elems []*orExpr `parser:"'[' (@@ (',' @@)*)? ']'"`
}

type literal struct {
	Str   *string  `parser:"  @String"`
	Float *float64 `parser:"| @Float"`
	Int   *int64   `parser:"| @Int"`
	Bool  *string  `parser:"| @Bool"`
	Null  bool     `parser:"| @Null"`
}
