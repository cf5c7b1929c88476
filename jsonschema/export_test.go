package jsonschema_test

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ns "github.com/reoring/nodeskema"
	g "github.com/reoring/nodeskema/dsl"
	"github.com/reoring/nodeskema/jsonschema"
)

// normalize marshals v to JSON and unmarshals back into interface{} to remove ordering effects.
func normalize(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestExport_Primitives(t *testing.T) {
	assert.Equal(t, normalize(t, map[string]any{"type": "string"}), normalize(t, jsonschema.Export(g.String())))
	assert.Equal(t, normalize(t, map[string]any{"type": "boolean", "default": false}), normalize(t, jsonschema.Export(g.Boolean())))
	assert.Equal(t,
		normalize(t, map[string]any{"type": "integer", "minimum": 1, "maximum": 5, "default": 1}),
		normalize(t, jsonschema.Export(g.Int().Min(1).Max(5))))
	assert.Equal(t,
		normalize(t, map[string]any{"type": "string", "enum": []any{"a", "b"}, "default": "a"}),
		normalize(t, jsonschema.Export(g.Enum("a", "b"))))
}

func TestExport_ObjectListMap(t *testing.T) {
	o := g.Object().
		Field("id", g.String().NonEmpty().WithDefault("x")).
		Field("tags", g.Opt(g.List(g.String()).MaxLength(2))).
		Field("attrs", g.Map(g.Enum("k"), g.Number())).
		Switch(ns.Rel(ns.Down("id"))).
		Case("x", g.F("extra", g.Boolean())).
		MustBuild()

	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":   map[string]any{"type": "string", "default": "x", "minLength": 1},
			"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "maxItems": 2},
			"attrs": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "number", "default": 0},
				"propertyNames":        map[string]any{"type": "string", "enum": []any{"k"}, "default": "k"},
			},
		},
		"required": []any{"attrs", "id"},
		"anyOf": []any{map[string]any{
			"type":       "object",
			"properties": map[string]any{"extra": map[string]any{"type": "boolean", "default": false}},
			"required":   []any{"extra"},
		}},
	}
	assert.Equal(t, normalize(t, want), normalize(t, jsonschema.Export(o)))
}

func TestExport_RecursiveReference(t *testing.T) {
	reg := ns.NewRegistries()
	node := g.Object().Field("next", g.Opt(g.Reference(reg.Schemas, "node"))).MustBuild()
	reg.Schemas.Register("node", node)

	s := jsonschema.Export(g.Reference(reg.Schemas, "node"))
	assert.Equal(t, "#/$defs/node", s.Ref)
	require.Contains(t, s.Defs, "node")
	assert.Equal(t, "#/$defs/node", s.Defs["node"].Properties["next"].Ref)
}

func TestExport_Unions(t *testing.T) {
	c := g.Choice(
		g.ChoiceCase{Type: "number", Node: g.Number()},
		g.ChoiceCase{Type: "list", Node: g.List(g.Any())},
	)
	s := jsonschema.Export(c)
	require.Len(t, s.AnyOf, 2)
	assert.Equal(t, "number", s.AnyOf[0].Type)
	assert.Equal(t, "array", s.AnyOf[1].Type)

	sw := jsonschema.Export(g.Switch(g.SwitchCase{Node: g.Boolean()}))
	require.Len(t, sw.AnyOf, 1)
	assert.Equal(t, "boolean", sw.AnyOf[0].Type)
}
