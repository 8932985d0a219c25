package voltage

import (
	"context"
	"fmt"

	"github.com/sflowg/voltage/runtime/plugin"
)

// Item is one opaque JSON input item.
type Item = map[string]any

// Host is what the node consumes from the platform running it.
type Host interface {
	ParameterSource
	InputItems() []Item
	Credentials(ctx context.Context) (Credentials, error)
	ContinueOnFail() bool
}

// StaticHost serves a fixed parameter map for every item. String values
// starting with "=" are expressions evaluated per item, with the item bound
// to "json", its position to "itemIndex" and the whole batch to "items".
type StaticHost struct {
	Items             []Item
	Params            map[string]any
	Creds             Credentials
	ContinueOnFailure bool
}

var _ Host = (*StaticHost)(nil)

func (h *StaticHost) InputItems() []Item { return h.Items }

func (h *StaticHost) Credentials(context.Context) (Credentials, error) { return h.Creds, nil }

func (h *StaticHost) ContinueOnFail() bool { return h.ContinueOnFailure }

func (h *StaticHost) Parameter(name string, itemIndex int, fallback any) (any, error) {
	v, ok := h.Params[name]
	if !ok || v == nil {
		return fallback, nil
	}
	resolved, err := h.resolve(v, h.env(itemIndex))
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", name, err)
	}
	return resolved, nil
}

func (h *StaticHost) env(itemIndex int) map[string]any {
	var item Item
	if itemIndex >= 0 && itemIndex < len(h.Items) {
		item = h.Items[itemIndex]
	}
	items := make([]any, len(h.Items))
	for i, it := range h.Items {
		items[i] = it
	}
	return map[string]any{
		"json":      item,
		"itemIndex": itemIndex,
		"items":     items,
	}
}

// resolve evaluates expressions, descending into collections.
func (h *StaticHost) resolve(v any, env map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		if !plugin.IsExpression(t) {
			return t, nil
		}
		return plugin.EvalParameter(t, env)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			r, err := h.resolve(e, env)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			r, err := h.resolve(e, env)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}
