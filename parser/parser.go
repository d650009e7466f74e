// Package parser turns rule-language source text into an ast.Expr tree.
//
// The grammar is built with participle over a stateful lexer; a cheap
// comment-stripping pre-pass runs before lexing. Parse never panics on
// malformed input: every structural failure is reported as a *Error carrying
// a position.
package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/derivo/derivo-go/ast"
)

var ruleParser = participle.MustBuild[statement](
	participle.Lexer(ruleLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(3),
)

// Error is a parse failure with a human-readable message and, where the
// lexer reached one, a source position.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return "parse error: " + e.Msg
}

// Parse consumes a single expression or rule statement (a condition, a
// then/otherwise clause, or a full assignment) and returns its AST.
func Parse(source string) (ast.Expr, error) {
	src := stripComments(source)
	if strings.TrimSpace(src) == "" {
		return nil, &Error{Msg: "empty expression"}
	}

	st, err := ruleParser.ParseString("", src)
	if err != nil {
		if perr, ok := err.(participle.Error); ok {
			return nil, &Error{Pos: perr.Position(), Msg: perr.Message()}
		}
		return nil, &Error{Msg: err.Error()}
	}

	return lowerStatement(st)
}

// stripComments removes #-to-end-of-line comments and blank lines before
// parsing. It is quote-aware so a # inside a string literal survives.
func stripComments(source string) string {
	var out []string
	for _, line := range strings.Split(source, "\n") {
		var quote rune
		cut := len(line)
		for i, r := range line {
			switch {
			case quote != 0:
				if r == quote {
					quote = 0
				}
			case r == '"' || r == '\'':
				quote = r
			case r == '#':
				cut = i
			}
			if cut < len(line) {
				break
			}
		}
		line = strings.TrimRight(line[:cut], " \t\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
