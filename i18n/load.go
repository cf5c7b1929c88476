package i18n

import (
	"fmt"
	"io"
	"sort"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadYAML merges a YAML locale document into lang. Nested mappings are
// flattened with "." separators, so {error: {expected_list: ...}} becomes
// "error.expected_list".
func (c *Catalog) LoadYAML(lang string, r io.Reader) error {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("i18n: decode yaml locale %q: %w", lang, err)
	}
	c.Merge(lang, Flatten(doc))
	return nil
}

// LoadJSON merges a JSON locale document into lang.
func (c *Catalog) LoadJSON(lang string, r io.Reader) error {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("i18n: decode json locale %q: %w", lang, err)
	}
	c.Merge(lang, Flatten(doc))
	return nil
}

// Flatten turns a nested locale document into dotted keys. Scalar leaves are
// rendered with fmt.Sprint.
func Flatten(doc map[string]any) map[string]string {
	out := map[string]string{}
	flattenInto(out, "", doc)
	return out
}

func flattenInto(out map[string]string, prefix string, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenInto(out, next, t[k])
		}
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(t)
		}
	}
}
