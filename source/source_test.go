package source_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/nodeskema/source"
)

func TestFormatOf(t *testing.T) {
	assert.Equal(t, source.YAML, source.FormatOf("a/b.YML"))
	assert.Equal(t, source.YAML, source.FormatOf("x.yaml"))
	assert.Equal(t, source.JSON, source.FormatOf("x.json"))
	assert.Equal(t, source.JSON, source.FormatOf("noext"))
	assert.Equal(t, "yaml", source.YAML.String())
}

func TestDecode_JSONAndYAMLAgree(t *testing.T) {
	js := `{"pools":[{"rolls":2,"entries":[{"type":"item"}]}],"note":null}`
	ym := "pools:\n  - rolls: 2\n    entries:\n      - type: item\nnote: null\n"

	a, err := source.Decode(strings.NewReader(js), source.JSON)
	require.NoError(t, err)
	b, err := source.Decode(strings.NewReader(ym), source.YAML)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 2.0, a.(map[string]any)["pools"].([]any)[0].(map[string]any)["rolls"])

	empty, err := source.Decode(strings.NewReader(""), source.YAML)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = source.Decode(strings.NewReader("{"), source.JSON)
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	v := map[string]any{"a": []any{1.0, "x", true}}
	for _, f := range []source.Format{source.JSON, source.YAML} {
		var buf bytes.Buffer
		require.NoError(t, source.Encode(&buf, v, f))
		back, err := source.Decode(&buf, f)
		require.NoError(t, err)
		assert.Equal(t, v, back, f.String())
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	v := map[string]any{"k": "v"}
	for _, name := range []string{"doc.json", "doc.yaml"} {
		p := filepath.Join(dir, name)
		require.NoError(t, source.WriteFile(p, v))
		back, err := source.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "doc.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"k\": \"v\"\n}\n", string(raw))

	_, err = source.ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestDuplicateKeys(t *testing.T) {
	dups, err := source.DuplicateKeys([]byte(`{"a":1,"b":[{"c":1,"c":2},{"c":3}],"a":{"x":[1,2]}}`))
	require.NoError(t, err)
	var got []string
	for _, p := range dups {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"/b/0/c", "/a"}, got)

	dups, err = source.DuplicateKeys([]byte(`[{"x":1},{"x":2}]`))
	require.NoError(t, err)
	assert.Empty(t, dups)
}
