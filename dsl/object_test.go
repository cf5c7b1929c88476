package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ns "github.com/reoring/nodeskema"
	g "github.com/reoring/nodeskema/dsl"
)

func discriminated() *g.ObjectNode {
	return g.Object().
		Field("type", g.Enum("a", "b")).
		Field("name", g.Opt(g.String())).
		Switch(ns.Rel(ns.Down("type"))).
		Case("a", g.F("x", g.Number().Min(0))).
		Case("b", g.F("y", g.Boolean())).
		MustBuild()
}

func TestObject_Build_Errors(t *testing.T) {
	_, err := g.Object().Field("", g.String()).Build()
	require.Error(t, err)

	_, err = g.Object().Case("a", g.F("x", g.String())).Build()
	require.Error(t, err)

	assert.Panics(t, func() { g.Object().Field("k", nil).MustBuild() })
}

func TestObject_FieldOrderAndReplace(t *testing.T) {
	o := g.Object().
		Field("a", g.String()).
		Field("b", g.Number()).
		Field("a", g.Boolean()).
		MustBuild()
	fields := o.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	_, isBool := fields[0].Node.(*g.BooleanNode)
	assert.True(t, isBool)
}

func TestObject_DefaultIncludesForcedFieldsAndDefaultCase(t *testing.T) {
	o := discriminated()
	assert.Equal(t, map[string]any{"type": "a", "x": 0.0}, o.Default())

	out, errs := run(o, o.Default(), false)
	assert.Equal(t, o.Default(), out)
	assert.Zero(t, errs.Len())
}

func TestObject_SwitchCaseSelectsActiveFields(t *testing.T) {
	o := discriminated()

	// x is only active under "a": with type "b" it passes through untouched
	out, errs := run(o, map[string]any{"type": "b", "x": "not a number", "y": true}, false)
	assert.Zero(t, errs.Len())
	assert.Equal(t, "not a number", out.(map[string]any)["x"])

	_, errs = run(o, map[string]any{"type": "a", "x": "not a number"}, false)
	assert.Equal(t, []string{ns.CodeExpectedNumber}, codes(errs))
	assert.Equal(t, "/x", errs.All()[0].Path.String())

	// unknown discriminant value: default fields only
	_, errs = run(o, map[string]any{"type": "c"}, false)
	assert.Equal(t, []string{ns.CodeInvalidEnumOption}, codes(errs))
}

func TestObject_LooseRepairUsesRepairedDiscriminant(t *testing.T) {
	o := g.Object().
		Field("kind", g.Number().WithDefault(1)).
		Switch(ns.Rel(ns.Down("kind"))).
		Case("1", g.F("one", g.String().WithDefault("uno"))).
		Case("2", g.F("two", g.String())).
		MustBuild()

	// "kind" is repaired to 1 before the case is chosen
	out, errs := run(o, map[string]any{"kind": "garbage"}, true)
	assert.Equal(t, map[string]any{"kind": 1.0, "one": "uno"}, out)
	assert.Zero(t, errs.Len())

	out, _ = run(o, map[string]any{"kind": 2.0}, true)
	assert.Equal(t, map[string]any{"kind": 2.0, "two": ""}, out)
}

func TestObject_AutoCompaction(t *testing.T) {
	o := g.Object().
		Field("list", g.Opt(g.List(g.String()))).
		Field("obj", g.Opt(g.Object().Field("x", g.Opt(g.String())).MustBuild())).
		Field("kept", g.Keep(g.Opt(g.List(g.String())))).
		Field("forced", g.Force(g.Opt(g.Number()))).
		MustBuild()

	in := map[string]any{
		"list":  []any{},
		"obj":   map[string]any{ns.MetaKey: "only meta"},
		"kept":  []any{},
		"extra": "unknown keys pass through",
	}
	out, errs := run(o, in, true)
	assert.Zero(t, errs.Len())
	assert.Equal(t, map[string]any{
		"kept":   []any{},
		"forced": 0.0,
		"extra":  "unknown keys pass through",
	}, out)

	// forced fields report when absent in strict passes
	_, errs = run(o, map[string]any{}, false)
	assert.Equal(t, []string{ns.CodeExpectedNumber}, codes(errs))
}

func TestObject_DisabledFieldsAreDropped(t *testing.T) {
	o := g.Object().
		Field("mode", g.Enum("simple", "advanced")).
		Field("tuning", g.Mod(g.Number(), g.Mods{Enabled: func(p ns.ModelPath) bool {
			return p.Pop().Push("mode").Get() == "advanced"
		}})).
		MustBuild()

	m := ns.NewDataModel(o, ns.WithInitialData(map[string]any{"mode": "simple", "tuning": 3.0}))
	assert.Nil(t, m.Get(ns.ParsePointer("/tuning")))

	m.Set(ns.ParsePointer("/mode"), "advanced")
	assert.Equal(t, 0.0, m.Get(ns.ParsePointer("/tuning")))
	assert.Equal(t, []string{"tuning"}, o.Suggest(m.Root(), map[string]any{"mode": "advanced"}))
}

func TestObject_NonObjectInput(t *testing.T) {
	o := discriminated()
	_, errs := run(o, "str", false)
	assert.Equal(t, []string{ns.CodeExpectedObject}, codes(errs))

	out, _ := run(o, []any{}, true)
	assert.Equal(t, o.Default(), out)
}

func TestObject_NavigateFollowsActiveCase(t *testing.T) {
	o := discriminated()
	m := ns.NewDataModel(o, ns.WithInitialData(map[string]any{"type": "b", "y": true}))

	_, isBool := m.NodeAt(ns.ParsePointer("/y")).(*g.BooleanNode)
	assert.True(t, isBool)
	assert.Nil(t, m.NodeAt(ns.ParsePointer("/x")))
	assert.Nil(t, m.NodeAt(ns.ParsePointer("/0")))
	assert.Same(t, o, m.NodeAt(ns.NewPath()))

	names := func(fs []g.Field) []string {
		var out []string
		for _, f := range fs {
			out = append(out, f.Key)
		}
		return out
	}
	assert.Equal(t, []string{"type", "name", "y"}, names(o.ActiveFields(m.Root())))
	assert.Equal(t, []string{"a", "b"}, o.Cases())
	assert.Equal(t, []string{"name"}, o.Suggest(m.Root(), m.Data()))
}

func TestObject_DiscriminantOutsideObject(t *testing.T) {
	inner := g.Object().
		Switch(ns.Rel(ns.Up(), ns.Down("kind"))).
		Case("num", g.F("value", g.Number())).
		Case("str", g.F("value", g.String())).
		MustBuild()
	outer := g.Object().
		Field("kind", g.Enum("num", "str")).
		Field("body", inner).
		MustBuild()

	m := ns.NewDataModel(outer, ns.WithInitialData(map[string]any{
		"kind": "str",
		"body": map[string]any{"value": 1.0},
	}))
	assert.Equal(t, "1", m.Get(ns.ParsePointer("/body/value")))
}

func TestObject_AbsentUnionFieldIsMissing(t *testing.T) {
	o := g.Object().
		Field("amount", g.Choice(
			g.ChoiceCase{Type: "number", Node: g.Number().WithDefault(1)},
			g.ChoiceCase{Type: "object", Node: g.Object().Field("min", g.Number()).MustBuild()},
		)).
		Field("extra", g.Any()).
		Field("note", g.Opt(g.Choice(g.ChoiceCase{Type: "string", Node: g.String()}))).
		MustBuild()

	_, errs := run(o, map[string]any{}, false)
	assert.Equal(t, []string{ns.CodeMissingField}, codes(errs))
	assert.Equal(t, "/amount", errs.All()[0].Path.String())

	// a present value is judged by the union itself
	_, errs = run(o, map[string]any{"amount": 2.0}, false)
	assert.Zero(t, errs.Len())

	out, errs := run(o, map[string]any{}, true)
	assert.Zero(t, errs.Len())
	assert.Equal(t, map[string]any{"amount": 1.0}, out)
}

func TestObject_LooseNonObjectDefaultIsValidated(t *testing.T) {
	o := g.Object().
		Field("l", g.List(g.Number()).MinLength(1)).
		MustBuild()
	out, errs := run(o, 5.0, true)
	assert.Zero(t, errs.Len())
	assert.Equal(t, map[string]any{"l": []any{0.0}}, out)
}

func TestObject_ActiveFieldsReturnsCopy(t *testing.T) {
	for _, o := range []*g.ObjectNode{
		g.Object().Field("a", g.String()).MustBuild(),
		discriminated(),
	} {
		root := ns.Root(nil)
		fs := o.ActiveFields(root)
		require.NotEmpty(t, fs)
		fs[0].Key = "mutated"
		fs[0].Node = nil
		assert.NotEqual(t, "mutated", o.Fields()[0].Key)
		assert.NotNil(t, o.ActiveFields(root)[0].Node)
	}
}
