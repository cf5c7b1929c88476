package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("error.expected_list"); msg == "error.expected_list" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("error.expected_list"); msg == "Expected a list" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
	// ja has no list-range message for "larger", so it falls back to en
	if msg := T("error.invalid_list_range.larger", "3", "2"); msg != "List has 3 elements, expected at most 2" {
		t.Fatalf("expected en fallback, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestCatalog_FallbackChain(t *testing.T) {
	c := NewCatalog()
	c.Register("en", map[string]string{"greeting": "Hello %0%", "only.en": "en"})
	c.Register("de", map[string]string{"greeting": "Hallo %0%"})

	c.SetLanguage("de")
	assert.Equal(t, "Hallo Steve", c.T("greeting", "Steve"))
	assert.Equal(t, "en", c.T("only.en"))
	assert.Equal(t, "missing.key", c.T("missing.key"))
	assert.Equal(t, []string{"de", "en"}, c.SearchOrder())
	assert.Empty(t, c.Messages("fr"))
}

func TestSubstitute(t *testing.T) {
	assert.Equal(t, "a 1 b 2", Substitute("a %0% b %1%", []string{"1", "2"}))
	assert.Equal(t, "100% sure %3%", Substitute("100% sure %3%", []string{"x"}))
	assert.Equal(t, "%0%", Substitute("%0%", nil))
}

func TestCatalog_LoadYAMLFlattens(t *testing.T) {
	c := NewCatalog()
	src := "pools:\n  rolls: Rolls\nerror:\n  expected_list: Not a list\n"
	require.NoError(t, c.LoadYAML("en", strings.NewReader(src)))
	assert.Equal(t, "Rolls", c.T("pools.rolls"))
	assert.Equal(t, "Not a list", c.T("error.expected_list"))
}

func TestCatalog_LoadJSON(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.LoadJSON("fr", strings.NewReader(`{"entries":{"weight":"Poids"}}`)))
	c.SetLanguage("fr")
	assert.Equal(t, "Poids", c.T("entries.weight"))
	assert.Error(t, c.LoadJSON("fr", strings.NewReader(`{`)))
}
