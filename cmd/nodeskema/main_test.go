package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestRun_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "Usage:")
	assert.Equal(t, 2, run([]string{"bogus"}, &out, &errOut))
	assert.Equal(t, 2, run([]string{"validate", "x.json"}, &out, &errOut))
}

func TestRun_Validate(t *testing.T) {
	ok := writeTemp(t, "pool.yaml", "rolls: 2\nentries:\n  - type: item\n    name: minecraft:stick\n")
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, run([]string{"validate", "-schema", "loot_pool", ok}, &out, &errOut))
	assert.Equal(t, "ok\n", out.String())

	bad := writeTemp(t, "pool.json", `{"rolls":1,"entries":[{"type":"item","name":"minecraft:bogus"}]}`)
	out.Reset()
	assert.Equal(t, 1, run([]string{"validate", "-schema", "loot_pool", bad}, &out, &errOut))
	assert.Equal(t, "/entries/0/name: Invalid option \"minecraft:bogus\"\n", out.String())

	// loose passes repair type mismatches but still report constraint violations
	out.Reset()
	assert.Equal(t, 1, run([]string{"validate", "-loose", "-schema", "loot_pool", bad}, &out, &errOut))
	assert.Contains(t, out.String(), "/entries/0/name")

	out.Reset()
	assert.Equal(t, 1, run([]string{"validate", "-schema", "nope", bad}, &out, &errOut))
}

func TestRun_ValidateLocalized(t *testing.T) {
	bad := writeTemp(t, "pool.json", `{"rolls":"x","entries":[{"type":"tag"}]}`)
	locale := writeTemp(t, "fr.yaml", "error:\n  expected_number: Nombre attendu\n  expected_string: Texte attendu\n")
	var out, errOut bytes.Buffer
	code := run([]string{"validate", "-schema", "loot_pool", "-lang", "fr", "-locale", locale, bad}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "/entries/0/name: Texte attendu")
}

func TestRun_Repair(t *testing.T) {
	in := writeTemp(t, "pool.json", `{"rolls":"2","entries":[{"type":"tag"}]}`)
	dst := filepath.Join(t.TempDir(), "fixed.json")
	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"repair", "-schema", "loot_pool", "-o", dst, in}, &out, &errOut))

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	var got any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]any{
		"rolls":   2.0,
		"entries": []any{map[string]any{"type": "tag", "name": "minecraft:logs"}},
	}, got)

	out.Reset()
	require.Equal(t, 0, run([]string{"repair", "-schema", "loot_pool", in}, &out, &errOut))
	assert.True(t, strings.HasPrefix(out.String(), "{\n"))
}

func TestRun_SchemasAndExport(t *testing.T) {
	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"schemas"}, &out, &errOut))
	assert.Equal(t, "loot_entry\nloot_pool\nloot_table\nnumber_provider\npredicate\n", out.String())

	out.Reset()
	require.Equal(t, 0, run([]string{"export", "-schema", "loot_pool"}, &out, &errOut))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "object", doc["type"])
	props := doc["properties"].(map[string]any)
	assert.Equal(t, "#/$defs/number_provider", props["rolls"].(map[string]any)["$ref"])

	assert.Equal(t, 2, run([]string{"export"}, &out, &errOut))
}

func TestRun_ValidateWithSchemaFile(t *testing.T) {
	schema := writeTemp(t, "schema.yaml", "type: object\nproperties:\n  port:\n    type: integer\n    minimum: 1\n    maximum: 65535\nrequired: [port]\n")
	doc := writeTemp(t, "doc.json", `{"port":70000}`)
	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run([]string{"validate", "-schema-file", schema, doc}, &out, &errOut))
	assert.Equal(t, "/port: Value 70000 is outside the range 1 to 65535\n", out.String())

	missing := filepath.Join(t.TempDir(), "none.json")
	assert.Equal(t, 1, run([]string{"validate", "-schema-file", missing, doc}, &out, &errOut))
}
