package nodeskema

// ValidateOptions controls a validation pass.
type ValidateOptions struct {
	// Loose permits nodes to repair invalid values instead of only reporting them.
	Loose bool
	// WrapLists tells list nodes that elements are boxed as {node, id}.
	WrapLists bool
}

// ValidationOption is an opaque descriptor handed to an external semantic
// validator (resource ids, NBT paths, regex, entity selectors, ...). The
// engine never interprets it.
type ValidationOption struct {
	Kind   string
	Params map[string]any
}

// Param returns a parameter by name.
func (o *ValidationOption) Param(name string) (any, bool) {
	if o == nil || o.Params == nil {
		return nil, false
	}
	v, ok := o.Params[name]
	return v, ok
}
