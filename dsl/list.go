package dsl

import (
	ns "github.com/reoring/nodeskema"
)

// ListNode validates a homogeneous list with optional length bounds.
type ListNode struct {
	ns.Base
	child    ns.Node
	min, max *int
}

// List returns a list of child values.
func List(child ns.Node) *ListNode { return &ListNode{child: child} }

// MinLength sets the inclusive lower length bound. The default list holds
// this many child defaults.
func (n *ListNode) MinLength(v int) *ListNode {
	c := *n
	c.min = &v
	return &c
}

// MaxLength sets the inclusive upper length bound.
func (n *ListNode) MaxLength(v int) *ListNode {
	c := *n
	c.max = &v
	return &c
}

// Child returns the element node.
func (n *ListNode) Child() ns.Node { return n.child }

// Bounds returns the configured length bounds; nil means unbounded.
func (n *ListNode) Bounds() (min, max *int) { return n.min, n.max }

func (n *ListNode) Default() any {
	out := []any{}
	if n.min != nil {
		for i := 0; i < *n.min; i++ {
			out = append(out, n.child.Default())
		}
	}
	return out
}

func (n *ListNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	list, ok := value.([]any)
	if !ok {
		if !opt.Loose {
			errs.Add(path.Path, ns.CodeExpectedList)
			return value
		}
		def := n.Default()
		if opt.WrapLists {
			def = ns.EnsureWrapped(def)
		}
		list = def.([]any)
		if len(list) == 0 {
			return list
		}
	}
	out := make([]any, 0, len(list))
	for i, el := range list {
		child := path.PushIndex(i)
		if opt.WrapLists {
			if ns.IsWrapped(el) {
				box := el.(map[string]any)
				v := n.child.Validate(child, box[ns.WrapNodeKey], errs, opt)
				out = append(out, map[string]any{ns.WrapNodeKey: v, ns.WrapIDKey: box[ns.WrapIDKey]})
				continue
			}
			if opt.Loose {
				out = append(out, ns.Wrap(n.child.Validate(child, el, errs, opt)))
				continue
			}
		}
		out = append(out, n.child.Validate(child, el, errs, opt))
	}
	n.checkLength(path, len(out), errs)
	return out
}

func (n *ListNode) checkLength(path ns.ModelPath, l int, errs *ns.Errors) {
	switch {
	case n.min != nil && l < *n.min:
		switch {
		case n.max != nil && *n.max == *n.min:
			errs.Add(path.Path, ns.CodeListRangeExact, l, *n.min)
		case n.max != nil:
			errs.Add(path.Path, ns.CodeListRangeBetween, l, *n.min, *n.max)
		default:
			errs.Add(path.Path, ns.CodeListRangeSmaller, l, *n.min)
		}
	case n.max != nil && l > *n.max:
		errs.Add(path.Path, ns.CodeListRangeLarger, l, *n.max)
	}
}

func (n *ListNode) Navigate(path ns.ModelPath, index int) ns.Node {
	e, ok := ns.NextElement(path, index)
	if !ok {
		return n
	}
	if !e.IsIndex() {
		return nil
	}
	return n.child.Navigate(path, index+1)
}

func (n *ListNode) Transform(path ns.ModelPath, value any, view any) any {
	list, ok := value.([]any)
	if !ok {
		return value
	}
	out := make([]any, len(list))
	for i, el := range list {
		out[i] = n.child.Transform(path.PushIndex(i), el, view)
	}
	return out
}
