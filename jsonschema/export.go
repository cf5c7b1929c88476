package jsonschema

import (
	"sort"

	ns "github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/dsl"
)

// Export describes a node tree as JSON Schema. Referenced schemas are
// emitted once under $defs, so recursive references terminate. Path-based
// constructs (Switch, object cases) become anyOf alternatives.
func Export(n ns.Node) *Schema {
	e := &exporter{defs: map[string]*Schema{}}
	s := e.convert(n, ns.NewPath())
	if len(e.defs) > 0 {
		s.Defs = e.defs
	}
	return s
}

type exporter struct {
	out  *Schema
	defs map[string]*Schema
}

func (e *exporter) convert(n ns.Node, p ns.Path) *Schema {
	prev := e.out
	e.out = nil
	if n == nil || !dsl.Accept(n, e, p) || e.out == nil {
		e.out = &Schema{}
	}
	s := e.out
	e.out = prev
	return s
}

func (e *exporter) Any(*dsl.AnyNode, ns.Path) { e.out = &Schema{} }

func (e *exporter) Boolean(n *dsl.BooleanNode, _ ns.Path) {
	e.out = &Schema{Type: "boolean", Default: n.Default()}
}

func (e *exporter) Number(n *dsl.NumberNode, _ ns.Path) {
	s := &Schema{Type: "number", Default: n.Default()}
	if n.IsInteger() {
		s.Type = "integer"
	}
	s.Minimum, s.Maximum = n.Bounds()
	e.out = s
}

func (e *exporter) String(n *dsl.StringNode, _ ns.Path) {
	s := &Schema{Type: "string"}
	if d, _ := n.Default().(string); d != "" {
		s.Default = d
	}
	for _, o := range n.Options() {
		s.Enum = append(s.Enum, o)
	}
	if n.IsNonEmpty() {
		one := 1
		s.MinLength = &one
	}
	e.out = s
}

func (e *exporter) List(n *dsl.ListNode, p ns.Path) {
	s := &Schema{Type: "array", Items: e.convert(n.Child(), p.PushIndex(0))}
	s.MinItems, s.MaxItems = n.Bounds()
	e.out = s
}

func (e *exporter) Map(n *dsl.MapNode, p ns.Path) {
	s := &Schema{Type: "object", AdditionalProperties: e.convert(n.Children(), p.Push("*"))}
	if n.Keys() != nil {
		s.PropertyNames = e.convert(n.Keys(), p)
	}
	e.out = s
}

func (e *exporter) Object(n *dsl.ObjectNode, p ns.Path) {
	s := e.properties(n.Fields(), p)
	for _, tag := range n.Cases() {
		s.AnyOf = append(s.AnyOf, e.properties(n.CaseFields(tag), p))
	}
	e.out = s
}

func (e *exporter) properties(fields []dsl.Field, p ns.Path) *Schema {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for _, f := range fields {
		s.Properties[f.Key] = e.convert(f.Node, p.Push(f.Key))
		if !f.Node.Optional() {
			s.Required = append(s.Required, f.Key)
		}
	}
	sort.Strings(s.Required)
	return s
}

func (e *exporter) Choice(n *dsl.ChoiceNode, p ns.Path) {
	s := &Schema{}
	for _, c := range n.Cases() {
		s.AnyOf = append(s.AnyOf, e.convert(c.Node, p))
	}
	e.out = s
}

func (e *exporter) Switch(n *dsl.SwitchNode, p ns.Path) {
	s := &Schema{}
	for _, c := range n.Cases() {
		s.AnyOf = append(s.AnyOf, e.convert(c.Node, p))
	}
	e.out = s
}

func (e *exporter) Reference(n *dsl.ReferenceNode, p ns.Path) {
	id := n.ID()
	if _, done := e.defs[id]; !done {
		// placeholder first so self references stop here
		e.defs[id] = &Schema{}
		if target, ok := n.Resolve(); ok {
			e.defs[id] = e.convert(target, p)
		}
	}
	e.out = &Schema{Ref: "#/$defs/" + id}
}
