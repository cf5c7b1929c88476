package dsl

import (
	"sort"

	ns "github.com/reoring/nodeskema"
)

// ChoiceCase is one variant of a Choice.
type ChoiceCase struct {
	// Type tags the variant: "object", "list", "string", "number", "boolean"
	// or any custom name when Match is set.
	Type string
	Node ns.Node
	// Match overrides the default JSON type test.
	Match func(value any) bool
	// Change converts a value of another variant into this one. When nil,
	// switching to the variant yields its default.
	Change func(old any) any
	// Priority orders matching; higher is tried first.
	Priority int
}

func (c ChoiceCase) matches(v any) bool {
	if c.Match != nil {
		return c.Match(v)
	}
	return jsonType(v) == c.Type
}

// ChoiceNode is a tagged union resolved by the first matching variant.
type ChoiceNode struct {
	ns.Base
	declared []ChoiceCase
	ordered  []ChoiceCase
}

// Choice builds a union. Variants are matched by descending Priority, ties
// broken by declaration order. The first declared variant supplies the
// default and, in loose mode, absorbs values no variant matches.
func Choice(cases ...ChoiceCase) *ChoiceNode {
	n := &ChoiceNode{declared: append([]ChoiceCase(nil), cases...)}
	n.ordered = append([]ChoiceCase(nil), cases...)
	sort.SliceStable(n.ordered, func(i, j int) bool { return n.ordered[i].Priority > n.ordered[j].Priority })
	return n
}

// Cases returns the variants in matching order.
func (n *ChoiceNode) Cases() []ChoiceCase { return append([]ChoiceCase(nil), n.ordered...) }

// Types returns the variant tags in declaration order.
func (n *ChoiceNode) Types() []string {
	out := make([]string, len(n.declared))
	for i, c := range n.declared {
		out[i] = c.Type
	}
	return out
}

// ActiveChoice returns the variant value belongs to.
func (n *ChoiceNode) ActiveChoice(value any) (ChoiceCase, bool) {
	for _, c := range n.ordered {
		if c.matches(value) {
			return c, true
		}
	}
	return ChoiceCase{}, false
}

// ChangeTo converts value to the variant tagged tag. Unknown tags return
// value unchanged.
func (n *ChoiceNode) ChangeTo(value any, tag string) any {
	for _, c := range n.declared {
		if c.Type != tag {
			continue
		}
		if c.Change != nil {
			return c.Change(value)
		}
		return c.Node.Default()
	}
	return value
}

func (n *ChoiceNode) Default() any {
	if len(n.declared) == 0 {
		return nil
	}
	return n.declared[0].Node.Default()
}

func (n *ChoiceNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	if c, ok := n.ActiveChoice(value); ok {
		return c.Node.Validate(path, value, errs, opt)
	}
	if opt.Loose && len(n.declared) > 0 {
		return n.declared[0].Node.Validate(path, value, errs, opt)
	}
	return value
}

func (n *ChoiceNode) Navigate(path ns.ModelPath, index int) ns.Node {
	if _, ok := ns.NextElement(path, index); !ok {
		return n
	}
	c, ok := n.ActiveChoice(path.Slice(0, index+1).Get())
	if !ok {
		if len(n.declared) == 0 {
			return nil
		}
		c = n.declared[0]
	}
	return c.Node.Navigate(path, index)
}

func (n *ChoiceNode) Transform(path ns.ModelPath, value any, view any) any {
	if c, ok := n.ActiveChoice(value); ok {
		return c.Node.Transform(path, value, view)
	}
	return value
}

// Suggest asks the active variant, or every variant when none matches.
func (n *ChoiceNode) Suggest(path ns.ModelPath, value any) []string {
	if c, ok := n.ActiveChoice(value); ok {
		return c.Node.Suggest(path, value)
	}
	var out []string
	for _, c := range n.declared {
		for _, s := range c.Node.Suggest(path, value) {
			if !contains(out, s) {
				out = append(out, s)
			}
		}
	}
	return out
}

func (n *ChoiceNode) ValidationOption(path ns.ModelPath) *ns.ValidationOption {
	if c, ok := n.ActiveChoice(path.Get()); ok {
		return c.Node.ValidationOption(path)
	}
	return nil
}
