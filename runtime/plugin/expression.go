package plugin

import "github.com/sflowg/voltage/runtime"

// IsExpression reports whether a parameter value starts with the "=" expression prefix.
func IsExpression(value any) bool {
	return runtime.IsExpression(value)
}

// EvalParameter resolves "={{ ... }}" parameter values against env.
func EvalParameter(value string, env map[string]any) (any, error) {
	return runtime.EvalParameter(value, env)
}
