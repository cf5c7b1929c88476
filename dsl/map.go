package dsl

import (
	ns "github.com/reoring/nodeskema"
)

// MapNode validates an object with arbitrary keys. Keys are checked by a
// key node (usually a string or enum), values by a single child node.
type MapNode struct {
	ns.Base
	keys       ns.Node
	children   ns.Node
	validation *ns.ValidationOption
}

// Map returns a map node. keys may be nil to accept any key.
func Map(keys, children ns.Node) *MapNode { return &MapNode{keys: keys, children: children} }

// Validation attaches an external validation descriptor. Without one the
// key node's descriptor applies.
func (n *MapNode) Validation(kind string, params map[string]any) *MapNode {
	c := *n
	c.validation = &ns.ValidationOption{Kind: kind, Params: params}
	return &c
}

// Keys returns the key node.
func (n *MapNode) Keys() ns.Node { return n.keys }

// Children returns the value node.
func (n *MapNode) Children() ns.Node { return n.children }

func (n *MapNode) Default() any { return map[string]any{} }

func (n *MapNode) ValidationOption(path ns.ModelPath) *ns.ValidationOption {
	if n.validation != nil || n.keys == nil {
		return n.validation
	}
	return n.keys.ValidationOption(path)
}

func (n *MapNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	obj, ok := value.(map[string]any)
	if !ok {
		if opt.Loose {
			return n.Default()
		}
		errs.Add(path.Path, ns.CodeExpectedObject)
		return value
	}
	out := make(map[string]any, len(obj))
	for _, k := range sortedKeys(obj) {
		v := obj[k]
		if k == ns.MetaKey {
			out[k] = v
			continue
		}
		child := path.Push(k)
		if code, bad := n.checkKey(child, k); bad {
			errs.Add(child.Path, ns.CodeInvalidKey, k, code)
		}
		if nv := n.children.Validate(child, v, errs, opt); nv != nil {
			out[k] = nv
		}
	}
	return out
}

// checkKey validates k strictly in isolation and returns the first code the
// key node reported.
func (n *MapNode) checkKey(path ns.ModelPath, k string) (string, bool) {
	if n.keys == nil {
		return "", false
	}
	scratch := ns.NewErrors()
	n.keys.Validate(path, k, scratch, ns.ValidateOptions{})
	if scratch.Len() == 0 {
		return "", false
	}
	return scratch.All()[0].Code, true
}

func (n *MapNode) Navigate(path ns.ModelPath, index int) ns.Node {
	e, ok := ns.NextElement(path, index)
	if !ok {
		return n
	}
	if e.IsIndex() {
		return nil
	}
	return n.children.Navigate(path, index+1)
}

func (n *MapNode) Transform(path ns.ModelPath, value any, view any) any {
	obj, ok := value.(map[string]any)
	if !ok {
		return value
	}
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if k == ns.MetaKey {
			out[k] = v
			continue
		}
		out[k] = n.children.Transform(path.Push(k), v, view)
	}
	return out
}

// Suggest lists key candidates not yet present.
func (n *MapNode) Suggest(path ns.ModelPath, value any) []string {
	if n.keys == nil {
		return nil
	}
	obj, _ := value.(map[string]any)
	var out []string
	for _, s := range n.keys.Suggest(path, nil) {
		if _, present := obj[s]; !present {
			out = append(out, s)
		}
	}
	return out
}
