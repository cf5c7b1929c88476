package nodeskema

import (
	"log/slog"
	"math"
	"strconv"
)

// DefaultHistoryMax bounds the undo buffer when no option overrides it.
const DefaultHistoryMax = 50

// Listener receives model notifications. Either callback may be nil.
type Listener struct {
	Invalidated func(m *DataModel)
	Errors      func(errs *Errors)
}

// ListenerID identifies a registered listener for removal.
type ListenerID int

// Option configures a DataModel.
type Option func(*DataModel)

// WithHistoryMax bounds the number of retained snapshots (minimum 1).
func WithHistoryMax(n int) Option {
	return func(m *DataModel) {
		if n < 1 {
			n = 1
		}
		m.historyMax = n
	}
}

// WithInitialData starts the model from v instead of the schema default.
func WithInitialData(v any) Option {
	return func(m *DataModel) {
		m.data = v
		m.hasInitial = true
	}
}

// WithWrapLists stores lists in wrapped form ({node, id} elements).
func WithWrapLists() Option {
	return func(m *DataModel) { m.wrapLists = true }
}

// WithRegistries sets the registries used for locale lookups.
func WithRegistries(r *Registries) Option {
	return func(m *DataModel) { m.registries = r }
}

// WithLogger sets the model's diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *DataModel) { m.logger = l }
}

// DataModel owns one data tree validated against one schema root. It keeps
// the issues of the last pass, a bounded JSON snapshot history and a set of
// listeners. A DataModel is not safe for concurrent use; nodes are.
type DataModel struct {
	schema     Node
	data       any
	hasInitial bool
	errors     *Errors

	history      []string
	historyIndex int
	historyMax   int

	wrapLists  bool
	registries *Registries
	logger     *slog.Logger

	listeners map[ListenerID]Listener
	order     []ListenerID
	nextID    ListenerID
}

// NewDataModel wraps schema. The initial data (or the schema default) is
// loosely validated and recorded as the first history entry.
func NewDataModel(schema Node, opts ...Option) *DataModel {
	m := &DataModel{
		schema:       schema,
		errors:       NewErrors(),
		historyIndex: -1,
		historyMax:   DefaultHistoryMax,
		listeners:    map[ListenerID]Listener{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = DefaultLogger()
	}
	if m.registries == nil {
		m.registries = Default()
	}
	if !m.hasInitial {
		m.data = schema.Default()
	}
	if m.wrapLists {
		m.data = EnsureWrapped(m.data)
	}
	m.Validate(true)
	m.record()
	return m
}

// Schema returns the root node.
func (m *DataModel) Schema() Node { return m.schema }

// Data returns the live tree (wrapped when list wrapping is on).
func (m *DataModel) Data() any { return m.data }

// Unwrapped returns the data with list wrappers removed.
func (m *DataModel) Unwrapped() any {
	if !m.wrapLists {
		return m.data
	}
	return UnwrapLists(m.data)
}

// Output returns the serialized representation: the root transform applied
// to the unwrapped data.
func (m *DataModel) Output() any { return m.schema.Transform(Root(m), m.Unwrapped(), nil) }

// Errors returns the issues of the last validation pass.
func (m *DataModel) Errors() *Errors { return m.errors }

// WrapLists reports whether lists are stored wrapped.
func (m *DataModel) WrapLists() bool { return m.wrapLists }

// Registries returns the registries used by the model.
func (m *DataModel) Registries() *Registries { return m.registries }

// Root returns the model's root path.
func (m *DataModel) Root() ModelPath { return Root(m) }

// NodeAt returns the node governing path.
func (m *DataModel) NodeAt(path Path) Node { return m.schema.Navigate(Bind(path, m), -1) }

// Get walks the data along path. It returns nil as soon as an intermediate
// is missing or of the wrong kind.
func (m *DataModel) Get(path Path) any {
	cur := m.data
	for _, e := range path.modelArr {
		cur = m.child(cur, e)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (m *DataModel) child(node any, e Element) any {
	switch t := node.(type) {
	case map[string]any:
		if e.isIndex {
			return t[strconv.Itoa(e.index)]
		}
		return t[e.key]
	case []any:
		if !e.isIndex || e.index < 0 || e.index >= len(t) {
			return nil
		}
		el := t[e.index]
		if m.wrapLists && IsWrapped(el) {
			return el.(map[string]any)[WrapNodeKey]
		}
		return el
	default:
		return nil
	}
}

// Set writes value at path, growing missing or scalar intermediates into
// containers, then runs a loose validation pass, records history and
// notifies listeners. nil (or NaN) deletes the entry; deleting an array
// index shifts the following elements. The empty path resets the model.
func (m *DataModel) Set(path Path, value any) { m.set(path, value, false) }

// SetSilent is Set without validation, history or notification. Nodes use
// it to write back repaired values while a pass is in flight.
func (m *DataModel) SetSilent(path Path, value any) { m.set(path, value, true) }

func (m *DataModel) set(path Path, value any, silent bool) {
	if m.wrapLists {
		value = EnsureWrapped(value)
	}
	if path.Len() == 0 {
		if silent {
			m.data = value
			return
		}
		m.Reset(value, true)
		return
	}
	m.data = m.setIn(m.data, path.modelArr, value)
	if !silent {
		m.invalidate(true, true)
	}
}

func (m *DataModel) setIn(node any, elems []Element, value any) any {
	e := elems[0]
	node = materialize(node, e)
	if len(elems) == 1 {
		if isDelete(value) {
			return m.remove(node, e)
		}
		return m.assign(node, e, value)
	}
	next := m.child(node, e)
	if !isContainer(next) {
		next = newContainer(elems[1])
	}
	return m.assign(node, e, m.setIn(next, elems[1:], value))
}

func (m *DataModel) assign(node any, e Element, value any) any {
	switch t := node.(type) {
	case map[string]any:
		k := e.key
		if e.isIndex {
			k = strconv.Itoa(e.index)
		}
		t[k] = value
		return t
	case []any:
		if e.index < 0 {
			return t
		}
		for len(t) < e.index {
			t = append(t, nil)
		}
		if e.index == len(t) {
			if m.wrapLists {
				value = Wrap(value)
			}
			return append(t, value)
		}
		if m.wrapLists && IsWrapped(t[e.index]) {
			t[e.index] = map[string]any{WrapNodeKey: value, WrapIDKey: t[e.index].(map[string]any)[WrapIDKey]}
			return t
		}
		t[e.index] = value
		return t
	}
	return node
}

func (m *DataModel) remove(node any, e Element) any {
	switch t := node.(type) {
	case map[string]any:
		k := e.key
		if e.isIndex {
			k = strconv.Itoa(e.index)
		}
		delete(t, k)
		return t
	case []any:
		if e.index < 0 || e.index >= len(t) {
			return t
		}
		return append(t[:e.index], t[e.index+1:]...)
	}
	return node
}

// materialize makes node a container able to hold e.
func materialize(node any, e Element) any {
	switch node.(type) {
	case map[string]any:
		return node
	case []any:
		if e.isIndex {
			return node
		}
	}
	return newContainer(e)
}

func newContainer(e Element) any {
	if e.isIndex {
		return []any{}
	}
	return map[string]any{}
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func isDelete(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	}
	return false
}

// Reset replaces the whole tree, validates it (loose or strict), records
// history and notifies listeners.
func (m *DataModel) Reset(value any, loose bool) {
	if m.wrapLists {
		value = EnsureWrapped(value)
	}
	m.data = value
	m.invalidate(loose, true)
}

// Validate runs one pass over the data, replacing it with the repaired
// result and the issue sink with the new issues. Errors listeners are
// notified; history is untouched.
func (m *DataModel) Validate(loose bool) {
	errs := NewErrors()
	m.data = m.schema.Validate(Root(m), m.data, errs, ValidateOptions{Loose: loose, WrapLists: m.wrapLists})
	m.errors = errs
	for _, l := range m.snapshotListeners() {
		if l.Errors != nil {
			l.Errors(errs)
		}
	}
}

func (m *DataModel) invalidate(loose, record bool) {
	m.Validate(loose)
	if record {
		m.record()
	}
	for _, l := range m.snapshotListeners() {
		if l.Invalidated != nil {
			l.Invalidated(m)
		}
	}
}

// AddListener registers l and returns its id.
func (m *DataModel) AddListener(l Listener) ListenerID {
	m.nextID++
	id := m.nextID
	m.listeners[id] = l
	m.order = append(m.order, id)
	return id
}

// RemoveListener deregisters a listener. Unknown ids are ignored.
func (m *DataModel) RemoveListener(id ListenerID) {
	if _, ok := m.listeners[id]; !ok {
		return
	}
	delete(m.listeners, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// snapshotListeners copies the listener list so callbacks may add or remove
// listeners while being notified.
func (m *DataModel) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.listeners[id])
	}
	return out
}
