// Package dsl provides the node kinds of a nodeskema schema.
//
// Overview
//   - Leaves: String()/Enum()/EnumFrom()/Number()/Int()/Boolean()/Any().
//   - Containers: Object() builder with Field/Switch/Case, List(child), Map(keys, children).
//   - Unions: Choice(cases...) by value shape, Switch(cases...) by model position.
//   - Reference(schemas, id): late-bound, recursion-safe indirection through a registry.
//   - Modifiers: Opt/Keep/Force/Mod wrap any node with presence flags and overrides.
//   - Hook/Accept: visitor over node kinds for exporters and tooling.
//
// Nodes are immutable. Chain methods on leaves, lists and maps return
// modified copies; the object builder is mutable until Build.
//
// File layout (roles)
//   - primitives.go: string, number, boolean and any leaves.
//   - object.go: objectBuilder and ObjectNode (active fields, auto-compaction).
//   - list.go, map.go: homogeneous containers (list bounds, key validation, wrapped lists).
//   - choice.go, switch.go, reference.go: unions and indirection.
//   - modifiers.go: ModNode.
//   - hook.go: Hook visitor and Accept.
//
// Quickstart
//
//	schemas := ns.Default().Schemas
//	item := dsl.Object().
//		Field("type", dsl.Enum("a", "b")).
//		Field("name", dsl.Opt(dsl.String())).
//		Switch(ns.Rel(ns.Down("type"))).
//		Case("a", dsl.F("size", dsl.Int().Min(1).WithDefault(1))).
//		MustBuild()
//	schemas.Register("item", item)
//	m := ns.NewDataModel(dsl.List(dsl.Reference(schemas, "item")).MinLength(1))
//	m.Set(ns.NewPath(ns.Index(0), ns.Key("size")), 0.0)
//	fmt.Println(m.Errors().All())
package dsl
