package config

import (
	"fmt"
	"regexp"
	"strings"
)

// EnvVarSpec is a parsed credential value: either a literal or a reference
// to an environment variable, optionally with a default.
type EnvVarSpec struct {
	VarName      string
	HasDefault   bool
	DefaultValue string
	IsLiteral    bool
	LiteralValue string
}

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

// envVarPattern matches ${VAR} and ${VAR:default}
var envVarPattern = regexp.MustCompile(`^\$\{([A-Z_][A-Z0-9_]*)(:[^}]*)?\}$`)

// ParseEnvVar parses a credential value.
//
// Supported formats:
//   - ${VOLTAGE_API_KEY}                                  required variable
//   - ${VOLTAGE_BASE_URL:https://voltageapi.com/api/v1}   variable with default
//   - vltg_live_123                                       literal
//
// Anything that does not match the ${...} form exactly is a literal.
func ParseEnvVar(value string) (*EnvVarSpec, error) {
	matches := envVarPattern.FindStringSubmatch(value)
	if matches == nil {
		return &EnvVarSpec{IsLiteral: true, LiteralValue: value}, nil
	}

	varName := matches[1]
	if !isValidEnvVarName(varName) {
		return nil, fmt.Errorf("invalid environment variable name: %s", varName)
	}

	spec := &EnvVarSpec{VarName: varName, HasDefault: matches[2] != ""}
	if spec.HasDefault {
		spec.DefaultValue = strings.TrimPrefix(matches[2], ":")
	}
	return spec, nil
}

func isValidEnvVarName(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !((first >= 'A' && first <= 'Z') || first == '_') {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

// Resolve returns the literal, the variable's value, or the default.
// An unset variable without a default is an error.
func (s *EnvVarSpec) Resolve(lookup LookupFunc) (string, error) {
	if s.IsLiteral {
		return s.LiteralValue, nil
	}
	if v, ok := lookup(s.VarName); ok {
		return v, nil
	}
	if s.HasDefault {
		return s.DefaultValue, nil
	}
	return "", fmt.Errorf("environment variable %s is not set", s.VarName)
}

// ResolveValues substitutes environment references in a credentials map.
// Numbers and booleans pass through unchanged; nested values are rejected.
func ResolveValues(values map[string]any, lookup LookupFunc) (map[string]any, error) {
	resolved := make(map[string]any, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case string:
			spec, err := ParseEnvVar(v)
			if err != nil {
				return nil, fmt.Errorf("credential %q: %w", key, err)
			}
			s, err := spec.Resolve(lookup)
			if err != nil {
				return nil, fmt.Errorf("credential %q: %w", key, err)
			}
			resolved[key] = s
		case int, int64, float64, bool, nil:
			resolved[key] = v
		default:
			return nil, fmt.Errorf("credential %q: unsupported value type %T", key, value)
		}
	}
	return resolved, nil
}

// MustParseEnvVar is ParseEnvVar for static values; it panics on error.
func MustParseEnvVar(value string) *EnvVarSpec {
	spec, err := ParseEnvVar(value)
	if err != nil {
		panic(fmt.Sprintf("MustParseEnvVar failed: %v", err))
	}
	return spec
}
