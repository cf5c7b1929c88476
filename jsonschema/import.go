package jsonschema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	j "github.com/goccy/go-json"

	ns "github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/dsl"
	"github.com/reoring/nodeskema/source"
)

// Diag carries non-fatal findings of an Import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }

// maxRefDepth bounds $ref chains followed when a union variant's shape is
// inferred.
const maxRefDepth = 16

// Import compiles a subset of JSON Schema into a node tree.
//
// The input is raw JSON bytes, a decoded map[string]any or a *Schema. A
// document wrapped as {"openAPIV3Schema": ...} or a Kubernetes CRD
// (spec.versions[].schema.openAPIV3Schema) is unwrapped first.
//
// Every entry of $defs (or definitions) is registered into schemas under its
// name and "#/$defs/<name>" references become Reference nodes, so recursive
// definitions compile to finite trees. A nil schemas gets a private registry.
//
// Supported keywords: type (single or list), enum (strings), default,
// minimum, maximum, minLength (>= 1 means non-empty), pattern and format (as
// validation options), items, minItems, maxItems, properties, required,
// additionalProperties (schema, without properties), propertyNames, anyOf,
// oneOf. Anything else is reported through Diag.
func Import(doc any, schemas *ns.Registry[ns.Node]) (ns.Node, Diag, error) {
	d := &simpleDiag{}
	if doc == nil {
		return nil, d, errors.New("jsonschema: nil schema")
	}
	var root map[string]any
	switch t := doc.(type) {
	case []byte:
		if err := j.Unmarshal(t, &root); err != nil {
			return nil, d, fmt.Errorf("jsonschema: invalid JSON: %w", err)
		}
	case map[string]any:
		root = t
	default:
		b, err := j.Marshal(t)
		if err != nil {
			return nil, d, fmt.Errorf("jsonschema: cannot marshal input: %w", err)
		}
		if err := j.Unmarshal(b, &root); err != nil {
			return nil, d, fmt.Errorf("jsonschema: invalid marshaled JSON: %w", err)
		}
	}
	if root == nil {
		return nil, d, errors.New("jsonschema: schema is not an object")
	}
	if spec, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = spec
	} else if unwrapped := unwrapCRDSchema(root); unwrapped != nil {
		root = unwrapped
	}
	if schemas == nil {
		schemas = ns.NewRegistry[ns.Node]("schema", nil, ns.DefaultLogger())
	}

	c := &compiler{schemas: schemas, defs: extractDefs(root), d: d}
	ids := make([]string, 0, len(c.defs))
	for id := range c.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		schemas.Register(id, c.compile(c.defs[id], "#/$defs/"+id))
	}
	return c.compile(root, "#"), d, nil
}

// ImportFile reads a JSON or YAML schema document and imports it.
func ImportFile(name string, schemas *ns.Registry[ns.Node]) (ns.Node, Diag, error) {
	doc, err := source.ReadFile(name)
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	return Import(doc, schemas)
}

// unwrapCRDSchema extracts openAPIV3Schema from a CRD document, preferring a
// served version, then the legacy spec.validation location.
func unwrapCRDSchema(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	var first map[string]any
	vers, _ := spec["versions"].([]any)
	for _, v := range vers {
		vm, _ := v.(map[string]any)
		sch, _ := vm["schema"].(map[string]any)
		oas, _ := sch["openAPIV3Schema"].(map[string]any)
		if oas == nil {
			continue
		}
		if served, ok := vm["served"].(bool); !ok || served {
			return oas
		}
		if first == nil {
			first = oas
		}
	}
	if first != nil {
		return first
	}
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}

func extractDefs(root map[string]any) map[string]map[string]any {
	out := map[string]map[string]any{}
	for _, key := range []string{"definitions", "$defs"} {
		defs, _ := root[key].(map[string]any)
		for id, raw := range defs {
			if m, ok := raw.(map[string]any); ok {
				out[id] = m
			}
		}
	}
	return out
}

func refID(ref string) (string, bool) {
	for _, prefix := range []string{"#/$defs/", "#/definitions/"} {
		if id, ok := strings.CutPrefix(ref, prefix); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

type compiler struct {
	schemas *ns.Registry[ns.Node]
	defs    map[string]map[string]any
	d       *simpleDiag
}

func (c *compiler) compile(doc map[string]any, at string) ns.Node {
	if doc == nil {
		return dsl.Any()
	}
	if ref, ok := doc["$ref"].(string); ok {
		id, local := refID(ref)
		if !local {
			c.d.warnf("%s: unsupported $ref %q treated as any", at, ref)
			return dsl.Any()
		}
		if _, known := c.defs[id]; !known {
			c.d.warnf("%s: $ref %q has no definition", at, ref)
		}
		return dsl.Reference(c.schemas, id)
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		if vs, ok := doc[key].([]any); ok && len(vs) > 0 {
			if typeName(doc) == "object" || doc["properties"] != nil {
				// case branches of an object; handled by compileObject
				break
			}
			return c.withDefault(c.compileUnion(vs, at+"/"+key), doc)
		}
	}
	if ts, ok := doc["type"].([]any); ok {
		var vs []any
		for _, t := range ts {
			if s, _ := t.(string); s == "null" {
				c.d.warnf("%s: type null ignored", at)
				continue
			}
			branch := map[string]any{}
			for k, v := range doc {
				branch[k] = v
			}
			branch["type"] = t
			vs = append(vs, branch)
		}
		if len(vs) == 1 {
			return c.compile(vs[0].(map[string]any), at)
		}
		return c.compileUnion(vs, at+"/type")
	}

	var n ns.Node
	switch t := typeName(doc); {
	case t == "string" || (t == "" && doc["enum"] != nil):
		n = c.compileString(doc, at)
	case t == "number" || t == "integer":
		n = c.compileNumber(doc, t == "integer", at)
	case t == "boolean":
		b := dsl.Boolean()
		if v, ok := doc["default"].(bool); ok {
			b = b.WithDefault(v)
		}
		return b
	case t == "array" || (t == "" && doc["items"] != nil):
		n = c.compileList(doc, at)
	case t == "object" || (t == "" && (doc["properties"] != nil || doc["additionalProperties"] != nil)):
		n = c.compileObject(doc, at)
	case t == "null":
		c.d.warnf("%s: type null treated as any", at)
		return dsl.Any()
	case t == "":
		return dsl.Any()
	default:
		c.d.warnf("%s: unknown type %q treated as any", at, t)
		return dsl.Any()
	}
	return n
}

func typeName(doc map[string]any) string {
	t, _ := doc["type"].(string)
	return t
}

func (c *compiler) compileString(doc map[string]any, at string) ns.Node {
	var n *dsl.StringNode
	if raw, ok := doc["enum"].([]any); ok {
		var values []string
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				c.d.warnf("%s: non-string enum value %v ignored", at, v)
				continue
			}
			values = append(values, s)
		}
		n = dsl.Enum(values...)
	} else {
		n = dsl.String()
	}
	if f, ok := number(doc["minLength"]); ok && f >= 1 {
		if f > 1 {
			c.d.warnf("%s: minLength %v enforced as non-empty", at, f)
		}
		n = n.NonEmpty()
	}
	pattern, _ := doc["pattern"].(string)
	format, _ := doc["format"].(string)
	switch {
	case pattern != "":
		n = n.Validation("pattern", map[string]any{"pattern": pattern})
		if format != "" {
			c.d.warnf("%s: format %q dropped in favor of pattern", at, format)
		}
	case format != "":
		n = n.Validation("format", map[string]any{"format": format})
	}
	if s, ok := doc["default"].(string); ok {
		n = n.WithDefault(s)
	}
	return n
}

func (c *compiler) compileNumber(doc map[string]any, integer bool, at string) ns.Node {
	n := dsl.Number()
	if integer {
		n = dsl.Int()
	}
	if f, ok := number(doc["minimum"]); ok {
		n = n.Min(f)
	}
	if f, ok := number(doc["maximum"]); ok {
		n = n.Max(f)
	}
	for _, key := range []string{"exclusiveMinimum", "exclusiveMaximum", "multipleOf"} {
		if _, ok := doc[key]; ok {
			c.d.warnf("%s: %s not supported", at, key)
		}
	}
	if f, ok := number(doc["default"]); ok {
		n = n.WithDefault(f)
	}
	return n
}

func (c *compiler) compileList(doc map[string]any, at string) ns.Node {
	items, _ := doc["items"].(map[string]any)
	n := dsl.List(c.compile(items, at+"/items"))
	if f, ok := number(doc["minItems"]); ok {
		n = n.MinLength(int(f))
	}
	if f, ok := number(doc["maxItems"]); ok {
		n = n.MaxLength(int(f))
	}
	if _, ok := doc["uniqueItems"]; ok {
		c.d.warnf("%s: uniqueItems not supported", at)
	}
	return c.withDefault(n, doc)
}

func (c *compiler) compileObject(doc map[string]any, at string) ns.Node {
	props, _ := doc["properties"].(map[string]any)
	if len(props) == 0 {
		if ap, ok := doc["additionalProperties"].(map[string]any); ok {
			var keys ns.Node
			if pn, ok := doc["propertyNames"].(map[string]any); ok {
				keys = c.compile(pn, at+"/propertyNames")
			}
			return c.withDefault(dsl.Map(keys, c.compile(ap, at+"/additionalProperties")), doc)
		}
		if _, hasBranches := doc["anyOf"]; !hasBranches {
			return c.withDefault(dsl.Map(nil, dsl.Any()), doc)
		}
	} else if _, ok := doc["additionalProperties"].(map[string]any); ok {
		c.d.warnf("%s: additionalProperties schema ignored next to properties", at)
	}

	required := map[string]bool{}
	if req, ok := doc["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}
	b := dsl.Object()
	for _, name := range sortedKeys(props) {
		ps, _ := props[name].(map[string]any)
		n := c.compile(ps, at+"/properties/"+name)
		if !required[name] {
			n = dsl.Opt(n)
		}
		b.Field(name, n)
	}
	// Branch fields cannot be tied back to a discriminant; they become
	// optional fields of the object.
	declared := map[string]bool{}
	for name := range props {
		declared[name] = true
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		vs, _ := doc[key].([]any)
		for i, v := range vs {
			branch, _ := v.(map[string]any)
			bp, _ := branch["properties"].(map[string]any)
			for _, name := range sortedKeys(bp) {
				if declared[name] {
					continue
				}
				declared[name] = true
				ps, _ := bp[name].(map[string]any)
				b.Field(name, dsl.Opt(c.compile(ps, fmt.Sprintf("%s/%s/%d/properties/%s", at, key, i, name))))
			}
		}
		if len(vs) > 0 {
			c.d.warnf("%s: %s branches merged as optional fields", at, key)
		}
	}
	o, err := b.Build()
	if err != nil {
		c.d.warnf("%s: %v", at, err)
		return dsl.Any()
	}
	return c.withDefault(o, doc)
}

func (c *compiler) compileUnion(vs []any, at string) ns.Node {
	var cases []dsl.ChoiceCase
	seen := map[string]bool{}
	for i, v := range vs {
		branch, _ := v.(map[string]any)
		tag := c.tagOf(branch, 0)
		switch {
		case tag == "":
			c.d.warnf("%s/%d: variant without a determinable type skipped", at, i)
			continue
		case seen[tag]:
			c.d.warnf("%s/%d: second %s variant skipped", at, i, tag)
			continue
		}
		seen[tag] = true
		cases = append(cases, dsl.ChoiceCase{Type: tag, Node: c.compile(branch, fmt.Sprintf("%s/%d", at, i))})
	}
	switch len(cases) {
	case 0:
		return dsl.Any()
	case 1:
		return cases[0].Node
	}
	return dsl.Choice(cases...)
}

// tagOf names the shape a schema accepts, as used by Choice matching.
func (c *compiler) tagOf(doc map[string]any, depth int) string {
	if doc == nil {
		return ""
	}
	if ref, ok := doc["$ref"].(string); ok {
		id, local := refID(ref)
		if !local || depth >= maxRefDepth {
			return ""
		}
		return c.tagOf(c.defs[id], depth+1)
	}
	switch typeName(doc) {
	case "string":
		return "string"
	case "number", "integer":
		return "number"
	case "boolean":
		return "boolean"
	case "array":
		return "list"
	case "object":
		return "object"
	}
	switch {
	case doc["properties"] != nil || doc["additionalProperties"] != nil:
		return "object"
	case doc["items"] != nil:
		return "list"
	case doc["enum"] != nil:
		return "string"
	}
	return ""
}

// withDefault attaches a container default; leaves take theirs directly.
func (c *compiler) withDefault(n ns.Node, doc map[string]any) ns.Node {
	def, ok := doc["default"]
	if !ok || def == nil {
		return n
	}
	b, err := j.Marshal(def)
	if err != nil {
		return n
	}
	return dsl.Mod(n, dsl.Mods{Default: func() any {
		// fresh copy per call
		var v any
		if err := j.Unmarshal(b, &v); err != nil {
			return nil
		}
		return v
	}})
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
