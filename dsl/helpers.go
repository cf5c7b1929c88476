package dsl

import (
	"math"
	"sort"

	ns "github.com/reoring/nodeskema"
)

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

// isEmptyValue is the auto-compaction test: nil, an empty list, or an
// object without keys other than metadata.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case []any:
		return len(t) == 0
	case map[string]any:
		for k := range t {
			if k != ns.MetaKey {
				return false
			}
		}
		return true
	}
	return false
}

// isForced reports whether an object field is validated even when absent.
func isForced(n ns.Node) bool { return n.Force() || !n.Optional() }

type floater interface{ Float64() (float64, error) }

// toFloat accepts every Go numeric kind plus json.Number-like values.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case floater:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// jsonType names the JSON kind of v: object, list, string, number, boolean
// or "" for nil and unsupported values.
func jsonType(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}
