// Package catalog registers a small set of loot-table schemas used by the
// CLI and by integration tests. It exercises every node kind: a
// self-recursive predicate, discriminated objects, unions and
// collection-backed enums.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	ns "github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/dsl"
)

// Schema ids.
const (
	Predicate = "predicate"
	LootTable = "loot_table"
	LootPool  = "loot_pool"
	LootEntry = "loot_entry"
	Range     = "number_provider"
)

var (
	//go:embed collections.yaml
	collectionsYAML []byte
	//go:embed en.yaml
	localeEN []byte
	//go:embed ja.yaml
	localeJA []byte
)

// Register loads the collections and locales and registers every schema in r.
func Register(r *ns.Registries) error {
	if err := r.LoadCollectionsYAML(bytes.NewReader(collectionsYAML)); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := r.Locales.LoadYAML("en", bytes.NewReader(localeEN)); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := r.Locales.LoadYAML("ja", bytes.NewReader(localeJA)); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	schemas, colls := r.Schemas, r.Collections

	predicate, err := dsl.Object().
		Field("condition", dsl.EnumFrom(colls, "loot_condition_type")).
		Switch(ns.Rel(ns.Down("condition"))).
		Case("alternative", dsl.F("terms", dsl.List(dsl.Reference(schemas, Predicate)).MinLength(1))).
		Case("inverted", dsl.F("term", dsl.Reference(schemas, Predicate))).
		Case("random_chance", dsl.F("chance", dsl.Number().Min(0).Max(1).WithDefault(0.5))).
		Case("weather_check",
			dsl.F("raining", dsl.Opt(dsl.Boolean())),
			dsl.F("thundering", dsl.Opt(dsl.Boolean())),
		).
		Case("entity_properties",
			dsl.F("entity", dsl.EnumFrom(colls, "entity_target")),
			dsl.F("properties", dsl.Opt(dsl.Map(dsl.EnumFrom(colls, "entity_property"), dsl.Boolean()))),
		).
		Build()
	if err != nil {
		return fmt.Errorf("catalog: predicate: %w", err)
	}
	schemas.Register(Predicate, predicate)

	rangeObj, err := dsl.Object().
		Field("min", dsl.Number()).
		Field("max", dsl.Number()).
		Build()
	if err != nil {
		return fmt.Errorf("catalog: range: %w", err)
	}
	schemas.Register(Range, dsl.Choice(
		dsl.ChoiceCase{Type: "number", Node: dsl.Number().WithDefault(1), Change: rangeToNumber},
		dsl.ChoiceCase{Type: "object", Node: rangeObj, Change: numberToRange},
	))

	entry, err := dsl.Object().
		Field("type", dsl.EnumFrom(colls, "loot_entry_type")).
		Field("weight", dsl.Opt(dsl.Int().Min(1))).
		Field("conditions", dsl.Opt(dsl.List(dsl.Reference(schemas, Predicate)))).
		Switch(ns.Rel(ns.Down("type"))).
		Case("item", dsl.F("name", dsl.EnumFrom(colls, "item").Validation("resource", map[string]any{"pool": "item"}))).
		Case("tag", dsl.F("name", dsl.String().NonEmpty().WithDefault("minecraft:logs")), dsl.F("expand", dsl.Keep(dsl.Opt(dsl.Boolean())))).
		Build()
	if err != nil {
		return fmt.Errorf("catalog: entry: %w", err)
	}
	schemas.Register(LootEntry, entry)

	pool, err := dsl.Object().
		Field("rolls", dsl.Reference(schemas, Range)).
		Field("bonus_rolls", dsl.Opt(dsl.Reference(schemas, Range))).
		Field("entries", dsl.List(dsl.Reference(schemas, LootEntry)).MinLength(1)).
		Field("conditions", dsl.Opt(dsl.List(dsl.Reference(schemas, Predicate)))).
		Build()
	if err != nil {
		return fmt.Errorf("catalog: pool: %w", err)
	}
	schemas.Register(LootPool, pool)

	table, err := dsl.Object().
		Field("type", dsl.Opt(dsl.EnumFrom(colls, "loot_context_type"))).
		Field("pools", dsl.Opt(dsl.List(dsl.Reference(schemas, LootPool)))).
		Build()
	if err != nil {
		return fmt.Errorf("catalog: table: %w", err)
	}
	schemas.Register(LootTable, table)
	return nil
}

func rangeToNumber(old any) any {
	if m, ok := old.(map[string]any); ok {
		if v, ok := m["min"].(float64); ok {
			return v
		}
	}
	return 1.0
}

func numberToRange(old any) any {
	if v, ok := old.(float64); ok {
		return map[string]any{"min": v, "max": v}
	}
	return map[string]any{"min": 1.0, "max": 1.0}
}
