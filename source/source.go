// Package source reads and writes model documents as JSON or YAML.
//
// Decoded documents use the shapes a DataModel works with: map[string]any,
// []any, string, float64, bool and nil. JSON uses goccy/go-json; YAML uses
// gopkg.in/yaml.v3 and is normalized to the same shapes.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatOf picks the format from a file extension. Unknown extensions are JSON.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Decode reads one document from r.
func Decode(r io.Reader, f Format) (any, error) {
	switch f {
	case YAML:
		var v any
		if err := yaml.NewDecoder(r).Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("source: decode yaml: %w", err)
		}
		return normalize(v), nil
	default:
		var v any
		if err := j.NewDecoder(r).Decode(&v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("source: decode json: %w", err)
		}
		return v, nil
	}
}

// Encode writes v to w. JSON output is indented with two spaces.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("source: encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := j.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("source: encode json: %w", err)
		}
		return nil
	}
}

// ReadFile decodes the file at name using the format of its extension.
// The name "-" reads JSON from stdin.
func ReadFile(name string) (any, error) {
	if name == "-" {
		return Decode(os.Stdin, JSON)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b), FormatOf(name))
}

// WriteFile encodes v into the file at name using the format of its
// extension. The name "-" or "" writes JSON to stdout.
func WriteFile(name string, v any) error {
	if name == "" || name == "-" {
		return Encode(os.Stdout, v, JSON)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, v, FormatOf(name)); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0o644)
}

// normalize converts yaml.v3 output (which may hold map[any]any and Go
// integer kinds) into JSON-like values.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalize(t[i])
		}
		return arr
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}
