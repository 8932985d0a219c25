package voltage

import (
	"fmt"
	"slices"
)

// Selection holds the current values of the controls that display predicates
// refer to: resource, operation and sibling fields such as sendPaymentType.
type Selection map[string]any

// Matches reports whether every predicate key holds one of its allowed values.
// A key missing from the selection never matches.
func (d *DisplayOptions) Matches(sel Selection) bool {
	if d == nil {
		return true
	}
	for key, allowed := range d.Show {
		v, ok := sel[key]
		if !ok || v == nil {
			return false
		}
		if !slices.Contains(allowed, fmt.Sprint(v)) {
			return false
		}
	}
	return true
}

// IsActive reports whether a property is visible under sel.
func IsActive(p Property, sel Selection) bool {
	return p.DisplayOptions.Matches(sel)
}

// ActiveFields returns the names of the properties visible under sel,
// in declaration order and without duplicates.
func ActiveFields(props []Property, sel Selection) []string {
	seen := make(map[string]bool, len(props))
	var names []string
	for _, p := range props {
		if seen[p.Name] || !IsActive(p, sel) {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	return names
}

// ActiveSubFields returns the sub-fields of an active collection that are
// visible under sel. Sub-field predicates are evaluated on their own.
func ActiveSubFields(collection Property, sel Selection) []Property {
	var active []Property
	for _, f := range collection.Fields {
		if IsActive(f, sel) {
			active = append(active, f)
		}
	}
	return active
}

// controlKeys lists the sibling fields referenced by display predicates,
// excluding the batch-level resource and operation.
func controlKeys(props []Property) map[string]bool {
	keys := make(map[string]bool)
	for _, p := range props {
		if p.DisplayOptions == nil {
			continue
		}
		for key := range p.DisplayOptions.Show {
			if key != "resource" && key != "operation" {
				keys[key] = true
			}
		}
	}
	return keys
}

// ResolveSelection starts from resource and operation and reads every control
// field that becomes visible, repeating until no new control appears.
func ResolveSelection(props []Property, resource Resource, operation Operation, read func(Property) (any, error)) (Selection, error) {
	sel := Selection{
		"resource":  string(resource),
		"operation": string(operation),
	}
	controls := controlKeys(props)

	for changed := true; changed; {
		changed = false
		for _, p := range props {
			if !controls[p.Name] {
				continue
			}
			if _, done := sel[p.Name]; done || !IsActive(p, sel) {
				continue
			}
			v, err := read(p)
			if err != nil {
				return nil, err
			}
			sel[p.Name] = v
			changed = true
		}
	}
	return sel, nil
}
