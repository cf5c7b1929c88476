package nodeskema

import (
	"strings"

	"github.com/google/uuid"
)

// MetaKey holds auxiliary metadata on an object value. Nodes never validate
// it or treat it as a field; it is copied to outputs untouched.
const MetaKey = "@meta"

// Meta returns the metadata attached to an object value.
func Meta(v any) (any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	meta, ok := m[MetaKey]
	return meta, ok
}

// WithMeta attaches meta to an object value in place and returns it.
// Non-object values are returned unchanged.
func WithMeta(v any, meta any) any {
	if m, ok := v.(map[string]any); ok {
		m[MetaKey] = meta
	}
	return v
}

// CopyMeta copies metadata from src onto dst when both are objects.
func CopyMeta(src, dst any) {
	if meta, ok := Meta(src); ok {
		WithMeta(dst, meta)
	}
}

// StripMeta returns a deep copy of v without metadata entries.
func StripMeta(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if k == MetaKey {
				continue
			}
			out[k] = StripMeta(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = StripMeta(t[i])
		}
		return out
	default:
		return v
	}
}

// Keys of a wrapped list element.
const (
	WrapNodeKey = "node"
	WrapIDKey   = "id"
)

// NewWrapID returns a random hex identifier for a wrapped list element.
func NewWrapID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

// Wrap boxes a single list element.
func Wrap(v any) map[string]any { return map[string]any{WrapNodeKey: v, WrapIDKey: NewWrapID()} }

// IsWrapped reports whether v is a wrapped list element.
func IsWrapped(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 2 {
		return false
	}
	_, hasNode := m[WrapNodeKey]
	id, hasID := m[WrapIDKey].(string)
	return hasNode && hasID && id != ""
}

// WrapLists boxes every array element in v (recursively) as
// {node: value, id: <random hex>} so consumers keep a stable identity
// across reorders. Metadata is carried over untouched.
func WrapLists(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Wrap(WrapLists(t[i]))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if k == MetaKey {
				out[k] = vv
				continue
			}
			out[k] = WrapLists(vv)
		}
		return out
	default:
		return v
	}
}

// EnsureWrapped wraps every list element of v that is not wrapped yet,
// keeping existing ids. It is idempotent.
func EnsureWrapped(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			if IsWrapped(t[i]) {
				box := t[i].(map[string]any)
				out[i] = map[string]any{WrapNodeKey: EnsureWrapped(box[WrapNodeKey]), WrapIDKey: box[WrapIDKey]}
				continue
			}
			out[i] = Wrap(EnsureWrapped(t[i]))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if k == MetaKey {
				out[k] = vv
				continue
			}
			out[k] = EnsureWrapped(vv)
		}
		return out
	default:
		return v
	}
}

// UnwrapLists is the inverse of WrapLists. Array elements that are not
// wrapped are unwrapped recursively as they are.
func UnwrapLists(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			el := t[i]
			if IsWrapped(el) {
				el = el.(map[string]any)[WrapNodeKey]
			}
			out[i] = UnwrapLists(el)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			if k == MetaKey {
				out[k] = vv
				continue
			}
			out[k] = UnwrapLists(vv)
		}
		return out
	default:
		return v
	}
}
