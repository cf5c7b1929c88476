package nodeskema

import (
	"strconv"
	"strings"

	"github.com/reoring/nodeskema/i18n"
)

// Element is one step of a Path: an object key or an array index.
type Element struct {
	key     string
	index   int
	isIndex bool
}

// Key returns an object-key element.
func Key(k string) Element { return Element{key: k} }

// Index returns an array-index element.
func Index(i int) Element { return Element{index: i, isIndex: true} }

// IsIndex reports whether the element addresses an array position.
func (e Element) IsIndex() bool { return e.isIndex }

// Key returns the object key ("" for index elements).
func (e Element) Key() string { return e.key }

// Index returns the array index (-1 for key elements).
func (e Element) Index() int {
	if !e.isIndex {
		return -1
	}
	return e.index
}

func (e Element) String() string {
	if e.isIndex {
		return strconv.Itoa(e.index)
	}
	return e.key
}

// Path is an immutable address into a data tree. Alongside the model
// elements it carries a locale trail used to derive translation keys; the
// trail only grows from key pushes (namespace stripped) and LocalePush.
type Path struct {
	modelArr  []Element
	localeArr []string
	// localeMarks[i] is the locale trail length before modelArr[i] was pushed.
	localeMarks []int
}

// NewPath builds a Path from elements. Keys contribute to the locale trail.
func NewPath(elems ...Element) Path {
	p := Path{}
	for _, e := range elems {
		p = p.pushElement(e)
	}
	return p
}

// ParsePointer builds a Path from a JSON-pointer-like string such as
// "/pools/0/rolls". Segments made only of digits become indices.
func ParsePointer(ptr string) Path {
	p := Path{}
	for _, seg := range strings.Split(ptr, "/") {
		if seg == "" {
			continue
		}
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 {
			p = p.PushIndex(i)
			continue
		}
		p = p.Push(seg)
	}
	return p
}

// Push returns a new path extended by an object key.
func (p Path) Push(key string) Path { return p.pushElement(Key(key)) }

// PushIndex returns a new path extended by an array index.
func (p Path) PushIndex(i int) Path { return p.pushElement(Index(i)) }

func (p Path) pushElement(e Element) Path {
	out := Path{
		modelArr:    append(cloneElems(p.modelArr), e),
		localeArr:   cloneStrings(p.localeArr),
		localeMarks: append(cloneInts(p.localeMarks), len(p.localeArr)),
	}
	if !e.isIndex {
		out.localeArr = append(out.localeArr, stripNamespace(e.key))
	}
	return out
}

// LocalePush returns a new path whose locale trail is extended by key while
// the model address stays the same. The entry belongs to the last model
// element: popping that element drops it too.
func (p Path) LocalePush(key string) Path {
	return Path{
		modelArr:    cloneElems(p.modelArr),
		localeArr:   append(cloneStrings(p.localeArr), key),
		localeMarks: cloneInts(p.localeMarks),
	}
}

// Pop returns the parent path with the locale trail it had before the last
// element was pushed. Popping the root returns the root.
func (p Path) Pop() Path {
	n := len(p.modelArr)
	if n == 0 {
		return p.Copy()
	}
	return Path{
		modelArr:    cloneElems(p.modelArr[:n-1]),
		localeArr:   cloneStrings(p.localeArr[:p.localeMarks[n-1]]),
		localeMarks: cloneInts(p.localeMarks[:n-1]),
	}
}

// Shift returns the path without its first element. A key's locale entry is
// removed with it; context entries stay.
func (p Path) Shift() Path {
	if len(p.modelArr) == 0 {
		return p.Copy()
	}
	out := Path{
		modelArr:    cloneElems(p.modelArr[1:]),
		localeArr:   cloneStrings(p.localeArr),
		localeMarks: cloneInts(p.localeMarks[1:]),
	}
	if !p.modelArr[0].isIndex {
		at := p.localeMarks[0]
		out.localeArr = append(out.localeArr[:at], out.localeArr[at+1:]...)
		for i := range out.localeMarks {
			out.localeMarks[i]--
		}
	}
	return out
}

// Slice returns the model elements in [start, end). Negative or oversized
// bounds are clamped; end < 0 means "to the end". The locale trail is
// re-derived from the keys in range.
func (p Path) Slice(start, end int) Path {
	n := len(p.modelArr)
	if end < 0 || end > n {
		end = n
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return NewPath(p.modelArr[start:end]...)
}

// Copy returns a path with its own backing arrays.
func (p Path) Copy() Path {
	return Path{modelArr: cloneElems(p.modelArr), localeArr: cloneStrings(p.localeArr), localeMarks: cloneInts(p.localeMarks)}
}

// Elements returns a copy of the model elements.
func (p Path) Elements() []Element { return cloneElems(p.modelArr) }

// LocaleTrail returns a copy of the locale trail.
func (p Path) LocaleTrail() []string { return cloneStrings(p.localeArr) }

// Len is the number of model elements.
func (p Path) Len() int { return len(p.modelArr) }

// At returns the element at position i.
func (p Path) At(i int) Element { return p.modelArr[i] }

// Last returns the last model element and false for the root path.
func (p Path) Last() (Element, bool) {
	if len(p.modelArr) == 0 {
		return Element{}, false
	}
	return p.modelArr[len(p.modelArr)-1], true
}

// Equals compares model elements only.
func (p Path) Equals(other Path) bool {
	if len(p.modelArr) != len(other.modelArr) {
		return false
	}
	for i := range p.modelArr {
		if p.modelArr[i] != other.modelArr[i] {
			return false
		}
	}
	return true
}

// Inside reports whether other is a prefix of (or equal to) p.
func (p Path) Inside(other Path) bool {
	if len(other.modelArr) > len(p.modelArr) {
		return false
	}
	for i := range other.modelArr {
		if p.modelArr[i] != other.modelArr[i] {
			return false
		}
	}
	return true
}

// String renders the path as a JSON pointer (RFC 6901 escaping).
func (p Path) String() string {
	if len(p.modelArr) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, e := range p.modelArr {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(e.String(), "~", "~0"), "/", "~1"))
	}
	return b.String()
}

const (
	defaultLocaleDepth    = 5
	defaultLocaleMinDepth = 1
)

// Locale resolves a human-readable label for the path, falling back to the
// last locale element when no translation matches.
func (p Path) Locale(cat *i18n.Catalog, params ...string) string {
	if s, ok := p.StrictLocale(cat, params, defaultLocaleDepth, defaultLocaleMinDepth); ok {
		return s
	}
	if n := len(p.localeArr); n > 0 {
		return stripNamespace(p.localeArr[n-1])
	}
	if last, ok := p.Last(); ok {
		return stripNamespace(last.String())
	}
	return ""
}

// StrictLocale looks up the longest suffix of the locale trail (depth down
// to minDepth elements, joined by ".") in the catalog's current language,
// then repeats the search in the fallback language.
func (p Path) StrictLocale(cat *i18n.Catalog, params []string, depth, minDepth int) (string, bool) {
	if cat == nil {
		return "", false
	}
	trail := make([]string, 0, len(p.localeArr))
	for _, s := range p.localeArr {
		if s != "" {
			trail = append(trail, s)
		}
	}
	if depth > len(trail) {
		depth = len(trail)
	}
	if minDepth < 1 {
		minDepth = 1
	}
	for _, lang := range cat.SearchOrder() {
		for d := depth; d >= minDepth; d-- {
			key := strings.Join(trail[len(trail)-d:], ".")
			if msg, ok := cat.Lookup(lang, key); ok {
				return i18n.Substitute(msg, params), true
			}
		}
	}
	return "", false
}

func stripNamespace(s string) string {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func cloneElems(in []Element) []Element {
	out := make([]Element, len(in), len(in)+1)
	copy(out, in)
	return out
}

func cloneInts(in []int) []int {
	out := make([]int, len(in), len(in)+1)
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in), len(in)+1)
	copy(out, in)
	return out
}
