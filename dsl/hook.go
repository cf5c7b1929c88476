package dsl

import (
	ns "github.com/reoring/nodeskema"
)

// Hook visits node kinds. Tools that walk a schema (documentation,
// completion tables, exporters) implement it instead of type-switching.
type Hook interface {
	Any(n *AnyNode, path ns.Path)
	Boolean(n *BooleanNode, path ns.Path)
	Choice(n *ChoiceNode, path ns.Path)
	List(n *ListNode, path ns.Path)
	Map(n *MapNode, path ns.Path)
	Number(n *NumberNode, path ns.Path)
	Object(n *ObjectNode, path ns.Path)
	Reference(n *ReferenceNode, path ns.Path)
	String(n *StringNode, path ns.Path)
	Switch(n *SwitchNode, path ns.Path)
}

// Hookable lets nodes defined outside this package take part in Accept.
type Hookable interface {
	Accept(h Hook, path ns.Path)
}

// Accept dispatches n to the matching Hook method. Modifier wrappers are
// looked through. It reports false for node kinds the hook cannot see.
func Accept(n ns.Node, h Hook, path ns.Path) bool {
	for {
		m, ok := n.(*ModNode)
		if !ok {
			break
		}
		n = m.Unwrap()
	}
	switch t := n.(type) {
	case *AnyNode:
		h.Any(t, path)
	case *BooleanNode:
		h.Boolean(t, path)
	case *ChoiceNode:
		h.Choice(t, path)
	case *ListNode:
		h.List(t, path)
	case *MapNode:
		h.Map(t, path)
	case *NumberNode:
		h.Number(t, path)
	case *ObjectNode:
		h.Object(t, path)
	case *ReferenceNode:
		h.Reference(t, path)
	case *StringNode:
		h.String(t, path)
	case *SwitchNode:
		h.Switch(t, path)
	case Hookable:
		t.Accept(h, path)
	default:
		return false
	}
	return true
}
