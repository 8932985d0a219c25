package runtime

import (
	"encoding/base64"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/expr-lang/expr"
)

// Custom expression functions available to every parameter expression
var exprFunctions = []expr.Option{
	expr.Function("base64_encode", func(params ...any) (any, error) {
		s, _ := params[0].(string)
		return base64.StdEncoding.EncodeToString([]byte(s)), nil
	}),
	expr.Function("base64_decode", func(params ...any) (any, error) {
		s, _ := params[0].(string)
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}),
}

// ExpressionPrefix marks a parameter value as an expression rather than a literal.
const ExpressionPrefix = "="

var templatePattern = regexp.MustCompile(`\{\{(.+?)\}\}`)

// Eval evaluates an expr-lang expression against env. The env map is not modified.
func Eval(expression string, env map[string]any) (any, error) {
	scope := make(map[string]any, len(env)+1)
	maps.Copy(scope, env)
	// null is an alias for nil (JSON/YAML compatibility)
	scope["null"] = nil

	// defined("a.b.c") distinguishes a missing path from a path holding null
	definedFn := expr.Function(
		"defined",
		func(params ...any) (any, error) {
			path, ok := params[0].(string)
			if !ok {
				return false, fmt.Errorf("defined() expects string path argument, got %T", params[0])
			}
			return gabs.Wrap(env).ExistsP(path), nil
		},
		new(func(string) bool),
	)

	// NOTE: expr.Env MUST come before AllowUndefinedVariables for it to work
	opts := []expr.Option{
		expr.Env(scope),
		expr.AllowUndefinedVariables(),
		definedFn,
	}
	opts = append(opts, exprFunctions...)

	program, err := expr.Compile(expression, opts...)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, scope)
}

// IsExpression reports whether a parameter value must be evaluated before use.
func IsExpression(value any) bool {
	s, ok := value.(string)
	return ok && strings.HasPrefix(s, ExpressionPrefix)
}

// EvalParameter resolves a parameter value of the form "={{ json.walletId }}".
// A value that is a single {{ }} block keeps the type of its result; mixed text
// such as "=Invoice {{ json.number }}" is rendered to a string. Values without
// the expression prefix are returned unchanged.
func EvalParameter(value string, env map[string]any) (any, error) {
	if !strings.HasPrefix(value, ExpressionPrefix) {
		return value, nil
	}
	body := strings.TrimPrefix(value, ExpressionPrefix)

	matches := templatePattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body, nil
	}

	trimmed := strings.TrimSpace(body)
	if len(matches) == 1 && strings.HasPrefix(trimmed, "{{") && strings.HasSuffix(trimmed, "}}") {
		inner := body[matches[0][2]:matches[0][3]]
		return Eval(strings.TrimSpace(inner), env)
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(body[last:m[0]])
		result, err := Eval(strings.TrimSpace(body[m[2]:m[3]]), env)
		if err != nil {
			return nil, fmt.Errorf("error evaluating %q: %w", body[m[0]:m[1]], err)
		}
		if result != nil {
			sb.WriteString(fmt.Sprint(result))
		}
		last = m[1]
	}
	sb.WriteString(body[last:])
	return sb.String(), nil
}
