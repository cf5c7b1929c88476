package dsl

import (
	ns "github.com/reoring/nodeskema"
)

// ReferenceNode defers to a schema registered under an id. The id is
// resolved on every call, which allows recursive and late-registered
// schemas. A missing id behaves as Any and is logged by the registry.
type ReferenceNode struct {
	schemas *ns.Registry[ns.Node]
	id      string
}

// Reference returns a node resolving id in schemas.
func Reference(schemas *ns.Registry[ns.Node], id string) *ReferenceNode {
	return &ReferenceNode{schemas: schemas, id: id}
}

// ID returns the referenced schema id.
func (n *ReferenceNode) ID() string { return n.id }

// Resolve returns the referenced node and whether it was found.
func (n *ReferenceNode) Resolve() (ns.Node, bool) {
	if n.schemas == nil {
		ns.DefaultLogger().Error("registry lookup failed", "registry", "schema", "id", n.id)
		return Any(), false
	}
	if node := n.schemas.Get(n.id); node != nil {
		return node, true
	}
	return Any(), false
}

func (n *ReferenceNode) node() ns.Node {
	node, _ := n.Resolve()
	return node
}

func (n *ReferenceNode) Default() any { return n.node().Default() }

func (n *ReferenceNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	return n.node().Validate(path, value, errs, opt)
}

func (n *ReferenceNode) Navigate(path ns.ModelPath, index int) ns.Node {
	return n.node().Navigate(path, index)
}

func (n *ReferenceNode) Transform(path ns.ModelPath, value any, view any) any {
	return n.node().Transform(path, value, view)
}

func (n *ReferenceNode) Suggest(path ns.ModelPath, value any) []string {
	return n.node().Suggest(path, value)
}

func (n *ReferenceNode) Optional() bool                 { return n.node().Optional() }
func (n *ReferenceNode) Enabled(path ns.ModelPath) bool { return n.node().Enabled(path) }
func (n *ReferenceNode) Force() bool                    { return n.node().Force() }
func (n *ReferenceNode) Keep() bool                     { return n.node().Keep() }

func (n *ReferenceNode) ValidationOption(path ns.ModelPath) *ns.ValidationOption {
	return n.node().ValidationOption(path)
}
