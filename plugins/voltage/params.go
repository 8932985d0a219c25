package voltage

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ParameterSource reads one node parameter for one input item, returning
// fallback when the parameter is not set.
type ParameterSource interface {
	Parameter(name string, itemIndex int, fallback any) (any, error)
}

// Parameters is the gathered, validated parameter bag of one input item.
// Only fields active under the item's selection are present.
type Parameters struct {
	itemIndex int
	sel       Selection
	props     map[string]Property
	values    map[string]any
}

// GatherParameters resolves the active field set for one item, reads every
// active field and fails fast on the first required field that is empty.
func GatherParameters(props []Property, resource Resource, operation Operation, itemIndex int, src ParameterSource) (*Parameters, error) {
	read := func(p Property) (any, error) {
		v, err := src.Parameter(p.Name, itemIndex, p.Default)
		if err != nil {
			return nil, &ValidationError{Field: p.Name, ItemIndex: itemIndex, Reason: "could not be read: " + err.Error()}
		}
		return v, nil
	}

	sel, err := ResolveSelection(props, resource, operation, read)
	if err != nil {
		return nil, err
	}

	params := &Parameters{
		itemIndex: itemIndex,
		sel:       sel,
		props:     make(map[string]Property),
		values:    make(map[string]any),
	}

	for _, p := range props {
		if p.Name == "resource" || p.Name == "operation" {
			continue
		}
		if _, seen := params.props[p.Name]; seen || !IsActive(p, sel) {
			continue
		}

		v, ok := sel[p.Name]
		if !ok {
			if v, err = read(p); err != nil {
				return nil, err
			}
		}
		if p.Required && isEmpty(v) {
			return nil, &ValidationError{Field: p.Name, ItemIndex: itemIndex}
		}

		params.props[p.Name] = p
		params.values[p.Name] = v
	}

	return params, nil
}

// ItemIndex is the index of the item the parameters were gathered for.
func (p *Parameters) ItemIndex() int { return p.itemIndex }

// Has reports whether name is active and set to a non-empty value.
func (p *Parameters) Has(name string) bool {
	v, ok := p.values[name]
	return ok && !isEmpty(v)
}

// String returns the value as a string, "" when unset.
func (p *Parameters) String(name string) string {
	switch v := p.values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// OptionalString returns nil when the value is unset or empty.
func (p *Parameters) OptionalString(name string) *string {
	s := p.String(name)
	if s == "" {
		return nil
	}
	return &s
}

// Int64 returns nil when the value is unset or empty, and a ValidationError
// when it is not an integer.
func (p *Parameters) Int64(name string) (*int64, error) {
	v := p.values[name]
	if isEmpty(v) {
		return nil, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return nil, &ValidationError{Field: name, ItemIndex: p.itemIndex, Reason: "must be an integer"}
	}
	return &n, nil
}

// NonNegativeInt64 is Int64 for amounts and limits: negative values are rejected.
func (p *Parameters) NonNegativeInt64(name string) (*int64, error) {
	n, err := p.Int64(name)
	if err != nil {
		return nil, err
	}
	if n != nil && *n < 0 {
		return nil, &ValidationError{Field: name, ItemIndex: p.itemIndex, Reason: "must not be negative"}
	}
	return n, nil
}

// Strings returns a multi-option value as a string slice. A comma separated
// string is accepted for values produced by expressions.
func (p *Parameters) Strings(name string) ([]string, error) {
	return toStrings(p.values[name], name, p.itemIndex)
}

// JSONObject returns a free-form JSON parameter as an object. Strings are parsed.
func (p *Parameters) JSONObject(name string) (map[string]any, error) {
	switch v := p.values[name].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, &ValidationError{Field: name, ItemIndex: p.itemIndex, Reason: "must be a JSON object"}
		}
		return obj, nil
	default:
		return nil, &ValidationError{Field: name, ItemIndex: p.itemIndex, Reason: "must be a JSON object"}
	}
}

// Collection returns the set sub-fields of an active collection. Unset and
// inactive sub-fields are dropped; when at least one sub-field was set, the
// remaining sub-fields with a non-empty declared default are filled in.
// An unset or empty collection yields nil.
func (p *Parameters) Collection(name string) (map[string]any, error) {
	prop, ok := p.props[name]
	if !ok {
		return nil, nil
	}
	raw, ok := p.values[name].(map[string]any)
	if !ok {
		if isEmpty(p.values[name]) {
			return nil, nil
		}
		return nil, &ValidationError{Field: name, ItemIndex: p.itemIndex, Reason: "must be a collection"}
	}

	out := make(map[string]any)
	active := ActiveSubFields(prop, p.sel)
	for _, f := range active {
		if v, set := raw[f.Name]; set && !isEmpty(v) {
			out[f.Name] = v
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	for _, f := range active {
		if _, set := out[f.Name]; !set && !isEmpty(f.Default) {
			out[f.Name] = f.Default
		}
	}
	return out, nil
}

// Filters decodes the filters collection, nil when the caller set none.
func (p *Parameters) Filters() (*ListFilters, error) {
	raw, err := p.Collection("filters")
	if err != nil || raw == nil {
		return nil, err
	}
	var f ListFilters
	if err := mapstructure.WeakDecode(raw, &f); err != nil {
		return nil, &ValidationError{Field: "filters", ItemIndex: p.itemIndex, Reason: "is invalid: " + err.Error()}
	}
	return &f, nil
}

// Polling decodes the additional options into a polling config. It is nil
// unless at least one of maxAttempts, intervalMs or timeoutMs was set.
func (p *Parameters) Polling() (*PollingConfig, error) {
	raw, err := p.Collection("additionalOptions")
	if err != nil || raw == nil {
		return nil, err
	}
	var cfg PollingConfig
	if err := mapstructure.WeakDecode(raw, &cfg); err != nil {
		return nil, &ValidationError{Field: "additionalOptions", ItemIndex: p.itemIndex, Reason: "is invalid: " + err.Error()}
	}
	return &cfg, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr:
		return rv.IsNil()
	}
	return false
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}

// toString accepts strings and scalars. Scalars are formatted, so a number
// produced by an expression is kept as its decimal text.
func toString(v any, field string, itemIndex int) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool, int, int32, int64, float32, float64:
		return fmt.Sprint(t), nil
	default:
		return "", &ValidationError{Field: field, ItemIndex: itemIndex, Reason: "must be a string"}
	}
}

func toStrings(v any, field string, itemIndex int) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, &ValidationError{Field: field, ItemIndex: itemIndex, Reason: "must be a list of strings"}
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil, nil
		}
		parts := strings.Split(t, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return nil, &ValidationError{Field: field, ItemIndex: itemIndex, Reason: "must be a list of strings"}
	}
}
