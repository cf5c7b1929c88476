package dsl

import (
	ns "github.com/reoring/nodeskema"
)

// SwitchCase pairs a path predicate with the node used when it holds.
// A nil Match always holds.
type SwitchCase struct {
	Match func(path ns.ModelPath) bool
	Node  ns.Node
}

// Always is a Match that holds for every path.
func Always() func(ns.ModelPath) bool { return func(ns.ModelPath) bool { return true } }

// SwitchNode picks a node by inspecting the model around the value, for
// example a sibling field. The first matching case wins.
type SwitchNode struct {
	ns.Base
	cases []SwitchCase
}

// Switch builds a path-dependent node. The last case supplies the default.
func Switch(cases ...SwitchCase) *SwitchNode {
	return &SwitchNode{cases: append([]SwitchCase(nil), cases...)}
}

func (n *SwitchNode) active(path ns.ModelPath) (ns.Node, bool) {
	for _, c := range n.cases {
		if c.Match == nil || c.Match(path) {
			return c.Node, true
		}
	}
	return nil, false
}

// Cases returns the cases in match order.
func (n *SwitchNode) Cases() []SwitchCase { return append([]SwitchCase(nil), n.cases...) }

// Active returns the node selected for path.
func (n *SwitchNode) Active(path ns.ModelPath) (ns.Node, bool) { return n.active(path) }

func (n *SwitchNode) Default() any {
	if len(n.cases) == 0 {
		return nil
	}
	return n.cases[len(n.cases)-1].Node.Default()
}

func (n *SwitchNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	if c, ok := n.active(path); ok {
		return c.Validate(path, value, errs, opt)
	}
	return value
}

func (n *SwitchNode) Navigate(path ns.ModelPath, index int) ns.Node {
	if _, ok := ns.NextElement(path, index); !ok {
		return n
	}
	if c, ok := n.active(path.Slice(0, index+1)); ok {
		return c.Navigate(path, index)
	}
	return nil
}

func (n *SwitchNode) Transform(path ns.ModelPath, value any, view any) any {
	if c, ok := n.active(path); ok {
		return c.Transform(path, value, view)
	}
	return value
}

func (n *SwitchNode) Suggest(path ns.ModelPath, value any) []string {
	if c, ok := n.active(path); ok {
		return c.Suggest(path, value)
	}
	return nil
}

func (n *SwitchNode) Enabled(path ns.ModelPath) bool {
	if c, ok := n.active(path); ok {
		return c.Enabled(path)
	}
	return true
}

func (n *SwitchNode) ValidationOption(path ns.ModelPath) *ns.ValidationOption {
	if c, ok := n.active(path); ok {
		return c.ValidationOption(path)
	}
	return nil
}
