package dsl

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	ns "github.com/reoring/nodeskema"
)

// Field is one named child of an object.
type Field struct {
	Key  string
	Node ns.Node
}

// F is shorthand for Field{Key: key, Node: n}.
func F(key string, n ns.Node) Field { return Field{Key: key, Node: n} }

type objectBuilder struct {
	fields       []Field
	discriminant ns.RelativePath
	hasSwitch    bool
	cases        map[string][]Field
	validation   *ns.ValidationOption
	errs         []error
}

// Object creates a new object builder. Fields are validated in declaration
// order; a Switch/Case pair adds fields that only apply while a
// discriminant field holds a given value.
func Object() *objectBuilder {
	return &objectBuilder{cases: map[string][]Field{}}
}

// Field registers a default field. Registering the same key twice replaces
// the node but keeps the original position.
func (b *objectBuilder) Field(key string, n ns.Node) *objectBuilder {
	if key == "" {
		b.errs = append(b.errs, errors.New("dsl: object field with empty key"))
		return b
	}
	if n == nil {
		b.errs = append(b.errs, fmt.Errorf("dsl: object field %q has nil node", key))
		return b
	}
	b.fields = upsertField(b.fields, F(key, n))
	return b
}

// Fields registers several default fields at once.
func (b *objectBuilder) Fields(fields ...Field) *objectBuilder {
	for _, f := range fields {
		b.Field(f.Key, f.Node)
	}
	return b
}

// Switch names the discriminant, relative to the object's own path.
// Rel(Down("type")) is the object's own "type" field.
func (b *objectBuilder) Switch(rel ns.RelativePath) *objectBuilder {
	b.discriminant = rel
	b.hasSwitch = true
	return b
}

// Case adds fields that are active while the discriminant equals value.
func (b *objectBuilder) Case(value string, fields ...Field) *objectBuilder {
	if !b.hasSwitch {
		b.errs = append(b.errs, fmt.Errorf("dsl: Case(%q) without Switch", value))
		return b
	}
	cur := b.cases[value]
	for _, f := range fields {
		if f.Key == "" || f.Node == nil {
			b.errs = append(b.errs, fmt.Errorf("dsl: invalid field in Case(%q)", value))
			continue
		}
		cur = upsertField(cur, f)
	}
	b.cases[value] = cur
	return b
}

// Validation attaches an external validation descriptor to the object.
func (b *objectBuilder) Validation(kind string, params map[string]any) *objectBuilder {
	b.validation = &ns.ValidationOption{Kind: kind, Params: params}
	return b
}

// Build returns the immutable node.
func (b *objectBuilder) Build() (*ObjectNode, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	n := &ObjectNode{
		fields:       append([]Field(nil), b.fields...),
		discriminant: append(ns.RelativePath(nil), b.discriminant...),
		hasSwitch:    b.hasSwitch,
		cases:        make(map[string][]Field, len(b.cases)),
		validation:   b.validation,
	}
	for k, v := range b.cases {
		n.cases[k] = append([]Field(nil), v...)
	}
	return n, nil
}

// MustBuild is Build that panics on configuration errors.
func (b *objectBuilder) MustBuild() *ObjectNode {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

func upsertField(list []Field, f Field) []Field {
	for i := range list {
		if list[i].Key == f.Key {
			list[i] = f
			return list
		}
	}
	return append(list, f)
}

// ObjectNode validates a string-keyed mapping against a fixed set of fields.
type ObjectNode struct {
	ns.Base
	fields       []Field
	discriminant ns.RelativePath
	hasSwitch    bool
	cases        map[string][]Field
	validation   *ns.ValidationOption
}

// Fields returns the default fields in declaration order.
func (n *ObjectNode) Fields() []Field { return append([]Field(nil), n.fields...) }

// Cases returns the discriminant values that have case fields.
func (n *ObjectNode) Cases() []string {
	out := make([]string, 0, len(n.cases))
	for k := range n.cases {
		out = append(out, k)
	}
	return sortedStrings(out)
}

// CaseFields returns the fields added while the discriminant equals tag.
func (n *ObjectNode) CaseFields(tag string) []Field { return append([]Field(nil), n.cases[tag]...) }

// ActiveFields returns the fields that apply to the object stored at path.
func (n *ObjectNode) ActiveFields(path ns.ModelPath) []Field {
	obj, _ := path.Get().(map[string]any)
	return n.activeFields(path, obj, nil)
}

// activeFields overlays the case fields selected by the discriminant on the
// default fields. When opt is non-nil a sibling discriminant is validated in
// isolation first, so repairs of the current pass pick the same case.
func (n *ObjectNode) activeFields(path ns.ModelPath, obj map[string]any, opt *ns.ValidateOptions) []Field {
	out := append([]Field(nil), n.fields...)
	if !n.hasSwitch || len(n.cases) == 0 {
		return out
	}
	tag, ok := n.discriminantValue(path, obj, opt)
	if !ok {
		return out
	}
	extra, ok := n.cases[tag]
	if !ok {
		return out
	}
	for _, f := range extra {
		out = upsertField(out, f)
	}
	return out
}

func (n *ObjectNode) discriminantValue(path ns.ModelPath, obj map[string]any, opt *ns.ValidateOptions) (string, bool) {
	var raw any
	if key, ok := n.discriminant.Sibling(); ok && obj != nil {
		raw = obj[key]
		if f, found := fieldByKey(n.fields, key); found && opt != nil {
			raw = f.Node.Validate(path.Push(key), raw, ns.NewErrors(), *opt)
		}
	} else {
		raw = n.discriminant.Resolve(path).Get()
	}
	if raw == nil || isObject(raw) || isList(raw) {
		return "", false
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

func fieldByKey(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func (n *ObjectNode) ValidationOption(ns.ModelPath) *ns.ValidationOption { return n.validation }

// Default holds every forced field of the default case, plus the forced
// case fields selected by the default discriminant.
func (n *ObjectNode) Default() any {
	out := map[string]any{}
	fillDefaults(out, n.fields)
	if key, ok := n.discriminant.Sibling(); ok && n.hasSwitch {
		if raw, present := out[key]; present {
			if tag, err := cast.ToStringE(raw); err == nil {
				fillDefaults(out, n.cases[tag])
			}
		}
	}
	return out
}

func fillDefaults(out map[string]any, fields []Field) {
	for _, f := range fields {
		if !isForced(f.Node) {
			continue
		}
		d := f.Node.Default()
		if d == nil || (f.Node.Optional() && !f.Node.Keep() && isEmptyValue(d)) {
			delete(out, f.Key)
			continue
		}
		out[f.Key] = d
	}
}

func (n *ObjectNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	obj, ok := value.(map[string]any)
	if !ok {
		if opt.Loose {
			return n.Validate(path, n.Default(), errs, opt)
		}
		errs.Add(path.Path, ns.CodeExpectedObject)
		return value
	}
	fields := n.activeFields(path, obj, &opt)
	out := make(map[string]any, len(obj))
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.Key] = struct{}{}
		child := path.Push(f.Key)
		if !f.Node.Enabled(child) {
			continue
		}
		v := obj[f.Key]
		if v == nil && !isForced(f.Node) {
			continue
		}
		before := errs.Len()
		nv := f.Node.Validate(child, v, errs, opt)
		if v == nil && nv == nil && !opt.Loose && errs.Len() == before && f.Node.Default() != nil {
			// a loose pass would insert the default here
			errs.Add(child.Path, ns.CodeMissingField)
		}
		if nv == nil || (f.Node.Optional() && !f.Node.Keep() && isEmptyValue(nv)) {
			continue
		}
		out[f.Key] = nv
	}
	for _, k := range sortedKeys(obj) {
		if _, ok := known[k]; ok {
			continue
		}
		if obj[k] == nil {
			continue
		}
		out[k] = obj[k]
	}
	return out
}

// Navigate resolves the active field named by the next path element.
func (n *ObjectNode) Navigate(path ns.ModelPath, index int) ns.Node {
	e, ok := ns.NextElement(path, index)
	if !ok {
		return n
	}
	if e.IsIndex() {
		return nil
	}
	f, found := fieldByKey(n.ActiveFields(path.Slice(0, index+1)), e.Key())
	if !found {
		return nil
	}
	return f.Node.Navigate(path, index+1)
}

func (n *ObjectNode) Transform(path ns.ModelPath, value any, view any) any {
	obj, ok := value.(map[string]any)
	if !ok {
		return value
	}
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	for _, f := range n.activeFields(path, obj, nil) {
		if v, present := obj[f.Key]; present {
			out[f.Key] = f.Node.Transform(path.Push(f.Key), v, view)
		}
	}
	return out
}

// Suggest lists active, enabled keys not yet present in value.
func (n *ObjectNode) Suggest(path ns.ModelPath, value any) []string {
	obj, _ := value.(map[string]any)
	var out []string
	for _, f := range n.activeFields(path, obj, nil) {
		if _, present := obj[f.Key]; present {
			continue
		}
		if !f.Node.Enabled(path.Push(f.Key)) {
			continue
		}
		out = append(out, f.Key)
	}
	return out
}
