package dsl

import (
	ns "github.com/reoring/nodeskema"
)

// Mods overrides parts of a node's behaviour. Nil hooks leave the wrapped
// node's behaviour in place.
type Mods struct {
	Enabled          func(path ns.ModelPath) bool
	Default          func() any
	ValidationOption func(path ns.ModelPath) *ns.ValidationOption
}

// ModNode wraps a node with presence flags and overrides.
type ModNode struct {
	inner    ns.Node
	optional bool
	force    bool
	keep     bool
	mods     Mods
}

func modOf(n ns.Node) *ModNode {
	if m, ok := n.(*ModNode); ok {
		c := *m
		return &c
	}
	return &ModNode{inner: n}
}

// Opt marks n optional: an absent value is not validated and an empty value
// is dropped from its object.
func Opt(n ns.Node) *ModNode {
	m := modOf(n)
	m.optional = true
	return m
}

// Keep marks n so an optional, empty value is kept in its object.
func Keep(n ns.Node) *ModNode {
	m := modOf(n)
	m.keep = true
	return m
}

// Force makes an optional n validate even when absent.
func Force(n ns.Node) *ModNode {
	m := modOf(n)
	m.force = true
	return m
}

// Mod applies overrides to n. Later calls replace the hooks they set.
func Mod(n ns.Node, mods Mods) *ModNode {
	m := modOf(n)
	if mods.Enabled != nil {
		m.mods.Enabled = mods.Enabled
	}
	if mods.Default != nil {
		m.mods.Default = mods.Default
	}
	if mods.ValidationOption != nil {
		m.mods.ValidationOption = mods.ValidationOption
	}
	return m
}

// Unwrap returns the wrapped node.
func (m *ModNode) Unwrap() ns.Node { return m.inner }

func (m *ModNode) Optional() bool { return m.optional || m.inner.Optional() }
func (m *ModNode) Force() bool    { return m.force || m.inner.Force() }
func (m *ModNode) Keep() bool     { return m.keep || m.inner.Keep() }

func (m *ModNode) Enabled(path ns.ModelPath) bool {
	if m.mods.Enabled != nil {
		return m.mods.Enabled(path)
	}
	return m.inner.Enabled(path)
}

func (m *ModNode) Default() any {
	if m.mods.Default != nil {
		return m.mods.Default()
	}
	return m.inner.Default()
}

func (m *ModNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	if value == nil && opt.Loose && m.mods.Default != nil {
		value = m.mods.Default()
	}
	return m.inner.Validate(path, value, errs, opt)
}

func (m *ModNode) Navigate(path ns.ModelPath, index int) ns.Node {
	if _, ok := ns.NextElement(path, index); !ok {
		return m
	}
	return m.inner.Navigate(path, index)
}

func (m *ModNode) Transform(path ns.ModelPath, value any, view any) any {
	return m.inner.Transform(path, value, view)
}

func (m *ModNode) Suggest(path ns.ModelPath, value any) []string {
	return m.inner.Suggest(path, value)
}

func (m *ModNode) ValidationOption(path ns.ModelPath) *ns.ValidationOption {
	if m.mods.ValidationOption != nil {
		return m.mods.ValidationOption(path)
	}
	return m.inner.ValidationOption(path)
}
