package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ruleLexer tokenizes rule-language source. Word operators and keywords are
// case-insensitive. The MATCHES / NOT MATCHES operator pushes the Pattern
// state, in which a /regex/ literal is recognized; everywhere else a slash
// is plain division, so the usual regex-versus-division ambiguity never
// arises.
var ruleLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "MatchOp", Pattern: `(?i)\b(?:not\s+)?matches\b`, Action: lexer.Push("Pattern")},
		{Name: "InOp", Pattern: `(?i)\b(?:not\s+)?in\b`},
		{Name: "CollOp", Pattern: `(?i)\b(?:contains|startswith|endswith)\b`},
		{Name: "Or", Pattern: `(?i)\bor\b`},
		{Name: "And", Pattern: `(?i)\band\b`},
		{Name: "Not", Pattern: `(?i)\bnot\b`},
		{Name: "If", Pattern: `(?i)\bif\b`},
		{Name: "Then", Pattern: `(?i)\bthen\b`},
		{Name: "Else", Pattern: `(?i)\belse\b`},
		{Name: "Bool", Pattern: `(?i)\b(?:true|false)\b`},
		{Name: "Null", Pattern: `(?i)\bnull\b`},
		{Name: "Float", Pattern: `\d+\.\d*(?:[eE][-+]?\d+)?|\.\d+(?:[eE][-+]?\d+)?|\d+[eE][-+]?\d+`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
		{Name: "Ident", Pattern: `[a-zA-Z_]\w*(?:\.[a-zA-Z_]\w*)*`},
		{Name: "CmpOp", Pattern: `==|!=|<=|>=|<|>`},
		{Name: "Assign", Pattern: `=`},
		{Name: "Op", Pattern: `[-+*/%^&]`},
		{Name: "Punct", Pattern: `[(),\[\]]`},
	},
	"Pattern": {
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Regex", Pattern: `/(?:\\.|[^/\n])*/`, Action: lexer.Pop()},
		{Name: "String", Pattern: `"[^"]*"|'[^']*'`, Action: lexer.Pop()},
		{Name: "Ident", Pattern: `[a-zA-Z_]\w*(?:\.[a-zA-Z_]\w*)*`, Action: lexer.Pop()},
	},
})
