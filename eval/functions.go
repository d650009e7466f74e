package eval

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/derivo/derivo-go/ast"
	"github.com/derivo/derivo-go/facts"
	"github.com/derivo/derivo-go/value"
)

// Validation formats. IS_LEI checks the ISO 17442 shape (18 alphanumerics
// plus two check digits), IS_SWIFT the ISO 9362 BIC shape with an optional
// branch code.
var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	leiRe   = regexp.MustCompile(`^[A-Z0-9]{18}[0-9]{2}$`)
	swiftRe = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

func evalCall(n *ast.Call, f *facts.Facts) (value.Value, error) {
	if n.Fn == ast.FuncUnknown {
		return value.Value{}, &InvalidCallError{Func: n.Name, Reason: "unknown function"}
	}
	if err := checkArity(n); err != nil {
		return value.Value{}, err
	}

	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Evaluate(a, f)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	switch n.Fn {
	case ast.FuncUpper:
		s, err := stringArg(n.Name, args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.NewString(strings.ToUpper(s)), nil

	case ast.FuncLower:
		s, err := stringArg(n.Name, args[0])
		if err != nil {
			return value.Value{}, err
		}
		return value.NewString(strings.ToLower(s)), nil

	case ast.FuncConcat:
		var b strings.Builder
		for _, a := range args {
			switch a.Kind() {
			case value.KindString, value.KindInteger, value.KindFloat, value.KindNumber, value.KindBoolean:
				b.WriteString(a.String())
			default:
				return value.Value{}, &InvalidCallError{Func: n.Name, Reason: "arguments must be scalar, got " + a.Kind().String()}
			}
		}
		return value.NewString(b.String()), nil

	case ast.FuncIsEmail:
		return validate(n.Name, args[0], emailRe)

	case ast.FuncIsLEI:
		return validate(n.Name, args[0], leiRe)

	case ast.FuncIsSwift:
		return validate(n.Name, args[0], swiftRe)

	case ast.FuncExtract:
		return evalExtract(n.Name, args[0], args[1])

	case ast.FuncValidate:
		return evalValidate(n.Name, args[0], args[1])

	case ast.FuncLen:
		switch args[0].Kind() {
		case value.KindString:
			return value.NewInt(int64(utf8.RuneCountInString(args[0].Str()))), nil
		case value.KindList:
			return value.NewInt(int64(len(args[0].Items()))), nil
		}
		return value.Value{}, &InvalidCallError{Func: n.Name, Reason: "argument must be a string or list, got " + args[0].Kind().String()}

	default:
		return value.Value{}, &InvalidCallError{Func: n.Name, Reason: "unknown function"}
	}
}

// checkArity enforces the fixed argument count of each builtin. CONCAT is
// variadic but needs at least one argument.
func checkArity(n *ast.Call) error {
	want := -1
	switch n.Fn {
	case ast.FuncUpper, ast.FuncLower, ast.FuncIsEmail, ast.FuncIsLEI, ast.FuncIsSwift, ast.FuncLen:
		want = 1
	case ast.FuncExtract, ast.FuncValidate:
		want = 2
	case ast.FuncConcat:
		if len(n.Args) == 0 {
			return &InvalidCallError{Func: n.Name, Reason: "takes at least 1 argument"}
		}
		return nil
	}
	if want >= 0 && len(n.Args) != want {
		return &InvalidCallError{Func: n.Name, Reason: argCount(want, len(n.Args))}
	}
	return nil
}

func argCount(want, got int) string {
	plural := "s"
	if want == 1 {
		plural = ""
	}
	return fmt.Sprintf("takes %d argument%s, got %d", want, plural, got)
}

func validate(fn string, arg value.Value, re *regexp.Regexp) (value.Value, error) {
	s, err := stringArg(fn, arg)
	if err != nil {
		return value.Value{}, err
	}
	return value.NewBool(re.MatchString(s)), nil
}

// evalExtract returns the first substring of text matched by pattern, or
// null when nothing matches.
func evalExtract(fn string, text, pattern value.Value) (value.Value, error) {
	s, err := stringArg(fn, text)
	if err != nil {
		return value.Value{}, err
	}
	p, ok := patternText(pattern)
	if !ok {
		return value.Value{}, &InvalidCallError{Func: fn, Reason: "pattern must be a string or regex, got " + pattern.Kind().String()}
	}
	re, cerr := regexp.Compile(p)
	if cerr != nil {
		return value.Value{}, &InvalidPatternError{Pattern: p, Err: cerr}
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return value.NewNull(), nil
	}
	return value.NewString(s[loc[0]:loc[1]]), nil
}

// evalValidate reports whether pattern matches the whole of text.
func evalValidate(fn string, text, pattern value.Value) (value.Value, error) {
	s, err := stringArg(fn, text)
	if err != nil {
		return value.Value{}, err
	}
	p, ok := patternText(pattern)
	if !ok {
		return value.Value{}, &InvalidCallError{Func: fn, Reason: "pattern must be a string or regex, got " + pattern.Kind().String()}
	}
	re, cerr := regexp.Compile(`^(?:` + p + `)$`)
	if cerr != nil {
		return value.Value{}, &InvalidPatternError{Pattern: p, Err: cerr}
	}
	return value.NewBool(re.MatchString(s)), nil
}

func stringArg(fn string, v value.Value) (string, error) {
	if v.Kind() != value.KindString {
		return "", &InvalidCallError{Func: fn, Reason: "argument must be a string, got " + v.Kind().String()}
	}
	return v.Str(), nil
}
