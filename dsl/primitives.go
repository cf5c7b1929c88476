package dsl

import (
	"math"

	"github.com/spf13/cast"

	ns "github.com/reoring/nodeskema"
)

// ---------------- String ----------------

// StringNode validates strings, optionally restricted to an enum or to a
// named collection resolved at validation time.
type StringNode struct {
	ns.Base
	enum         []string
	collections  *ns.Registry[[]string]
	collectionID string
	nonEmpty     bool
	defaultValue *string
	validation   *ns.ValidationOption
}

// NonEmptyPlaceholder is the default of a NonEmpty string node that has no
// explicit default and no non-empty option.
const NonEmptyPlaceholder = "_"

// String returns an unrestricted string node.
func String() *StringNode { return &StringNode{} }

// Enum returns a string node accepting only values. Its default is the first value.
func Enum(values ...string) *StringNode {
	return &StringNode{enum: append([]string(nil), values...)}
}

// EnumFrom returns a string node whose options are the collection id,
// looked up on every use. An empty or missing collection accepts any string.
func EnumFrom(collections *ns.Registry[[]string], id string) *StringNode {
	return &StringNode{collections: collections, collectionID: id}
}

// NonEmpty rejects "". Without another default the node falls back to
// NonEmptyPlaceholder.
func (n *StringNode) NonEmpty() *StringNode {
	c := *n
	c.nonEmpty = true
	return &c
}

// WithDefault sets the default value.
func (n *StringNode) WithDefault(v string) *StringNode {
	c := *n
	c.defaultValue = &v
	return &c
}

// Validation attaches an external validation descriptor.
func (n *StringNode) Validation(kind string, params map[string]any) *StringNode {
	c := *n
	c.validation = &ns.ValidationOption{Kind: kind, Params: params}
	return &c
}

// IsNonEmpty reports whether "" is rejected.
func (n *StringNode) IsNonEmpty() bool { return n.nonEmpty }

// Options returns the accepted values (nil when unrestricted).
func (n *StringNode) Options() []string {
	if n.collectionID != "" {
		if n.collections == nil {
			ns.DefaultLogger().Error("registry lookup failed", "registry", "collection", "id", n.collectionID)
			return nil
		}
		return n.collections.Get(n.collectionID)
	}
	return n.enum
}

func (n *StringNode) Default() any { return n.defaultString() }

func (n *StringNode) defaultString() string {
	if n.defaultValue != nil && (*n.defaultValue != "" || !n.nonEmpty) {
		return *n.defaultValue
	}
	for _, o := range n.Options() {
		if o != "" || !n.nonEmpty {
			return o
		}
	}
	if n.nonEmpty {
		return NonEmptyPlaceholder
	}
	return ""
}

func (n *StringNode) Navigate(ns.ModelPath, int) ns.Node { return n }

func (n *StringNode) Suggest(ns.ModelPath, any) []string {
	return append([]string(nil), n.Options()...)
}

func (n *StringNode) ValidationOption(ns.ModelPath) *ns.ValidationOption { return n.validation }

func (n *StringNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	s, ok := value.(string)
	if !ok && opt.Loose {
		s = n.defaultString()
		if value != nil && !isObject(value) && !isList(value) {
			if c, err := cast.ToStringE(value); err == nil {
				s = c
			}
		}
		value, ok = s, true
	}
	if !ok {
		errs.Add(path.Path, ns.CodeExpectedString)
		return value
	}
	if n.nonEmpty && s == "" {
		errs.Add(path.Path, ns.CodeInvalidEmptyString)
		return value
	}
	if opts := n.Options(); len(opts) > 0 && !contains(opts, s) {
		errs.Add(path.Path, ns.CodeInvalidEnumOption, s)
	}
	return value
}

// ---------------- Number ----------------

// NumberNode validates numbers with optional integer and range constraints.
type NumberNode struct {
	ns.Base
	integer      bool
	min, max     *float64
	defaultValue *float64
	validation   *ns.ValidationOption
}

// Number returns an unconstrained number node.
func Number() *NumberNode { return &NumberNode{} }

// Int returns a number node that requires integral values.
func Int() *NumberNode { return &NumberNode{integer: true} }

// Min sets the inclusive lower bound.
func (n *NumberNode) Min(v float64) *NumberNode {
	c := *n
	c.min = &v
	return &c
}

// Max sets the inclusive upper bound.
func (n *NumberNode) Max(v float64) *NumberNode {
	c := *n
	c.max = &v
	return &c
}

// WithDefault sets the default value.
func (n *NumberNode) WithDefault(v float64) *NumberNode {
	c := *n
	c.defaultValue = &v
	return &c
}

// Validation attaches an external validation descriptor.
func (n *NumberNode) Validation(kind string, params map[string]any) *NumberNode {
	c := *n
	c.validation = &ns.ValidationOption{Kind: kind, Params: params}
	return &c
}

// IsInteger reports whether the node requires integral values.
func (n *NumberNode) IsInteger() bool { return n.integer }

// Bounds returns the configured range; nil means unbounded.
func (n *NumberNode) Bounds() (min, max *float64) { return n.min, n.max }

func (n *NumberNode) Default() any { return n.defaultNumber() }

func (n *NumberNode) defaultNumber() float64 {
	if n.defaultValue != nil {
		return *n.defaultValue
	}
	v := 0.0
	if n.min != nil && v < *n.min {
		v = *n.min
	}
	if n.max != nil && v > *n.max {
		v = *n.max
	}
	if n.integer {
		v = math.Ceil(v)
	}
	return v
}

func (n *NumberNode) Navigate(ns.ModelPath, int) ns.Node { return n }

func (n *NumberNode) ValidationOption(ns.ModelPath) *ns.ValidationOption { return n.validation }

func (n *NumberNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	f, ok := toFloat(value)
	if !ok && opt.Loose {
		f = n.defaultNumber()
		if s, isStr := value.(string); isStr {
			if c, err := cast.ToFloat64E(s); err == nil && !math.IsNaN(c) {
				f = c
			}
		}
		value, ok = f, true
	}
	if !ok {
		errs.Add(path.Path, ns.CodeExpectedNumber)
		return value
	}
	if n.integer && f != math.Trunc(f) {
		errs.Add(path.Path, ns.CodeExpectedInteger, f)
	}
	switch {
	case n.min != nil && n.max != nil && (f < *n.min || f > *n.max):
		errs.Add(path.Path, ns.CodeNumberRangeBetween, f, *n.min, *n.max)
	case n.min != nil && f < *n.min:
		errs.Add(path.Path, ns.CodeNumberRangeSmaller, f, *n.min)
	case n.max != nil && f > *n.max:
		errs.Add(path.Path, ns.CodeNumberRangeLarger, f, *n.max)
	}
	return value
}

// ---------------- Boolean ----------------

// BooleanNode validates booleans.
type BooleanNode struct {
	ns.Base
	defaultValue bool
}

// Boolean returns a boolean node defaulting to false.
func Boolean() *BooleanNode { return &BooleanNode{} }

// WithDefault sets the default value.
func (n *BooleanNode) WithDefault(v bool) *BooleanNode {
	c := *n
	c.defaultValue = v
	return &c
}

func (n *BooleanNode) Default() any { return n.defaultValue }

func (n *BooleanNode) Navigate(ns.ModelPath, int) ns.Node { return n }

func (n *BooleanNode) Suggest(ns.ModelPath, any) []string { return []string{"false", "true"} }

func (n *BooleanNode) Validate(path ns.ModelPath, value any, errs *ns.Errors, opt ns.ValidateOptions) any {
	if _, ok := value.(bool); ok {
		return value
	}
	if opt.Loose {
		if s, isStr := value.(string); isStr {
			if b, err := cast.ToBoolE(s); err == nil {
				return b
			}
		}
		return n.defaultValue
	}
	errs.Add(path.Path, ns.CodeExpectedBoolean)
	return value
}

// ---------------- Any ----------------

// AnyNode accepts every value unchanged.
type AnyNode struct{ ns.Base }

// Any returns a node accepting anything.
func Any() *AnyNode { return &AnyNode{} }

func (n *AnyNode) Default() any { return nil }

func (n *AnyNode) Navigate(ns.ModelPath, int) ns.Node { return n }

func (n *AnyNode) Validate(_ ns.ModelPath, value any, _ *ns.Errors, _ ns.ValidateOptions) any {
	return value
}
