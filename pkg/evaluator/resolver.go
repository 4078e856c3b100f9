package evaluator

import "strings"

// contextRowKey is the context entry that, when present, becomes the
// field-resolution root instead of the context itself.
const contextRowKey = "row"

// ResolveField resolves a dot-separated field path against a root
// value. Each segment is a map lookup on the running value; if at any
// point the running value is nil or not a map, resolution
// short-circuits to nil without error. Field paths never mutate the
// data they traverse.
func ResolveField(path string, root interface{}) interface{} {
	current := root
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = m[segment]
	}
	return current
}

// contextRow returns the resolution root for a context map: the "row"
// entry when present and non-nil, otherwise the context itself.
func contextRow(data map[string]interface{}) interface{} {
	if v, ok := data[contextRowKey]; ok && v != nil {
		return v
	}
	if data == nil {
		return nil
	}
	return data
}
