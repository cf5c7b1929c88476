package nodeskema

import "github.com/reoring/nodeskema/i18n"

// ModelPath is a Path bound to one DataModel. Nodes receive ModelPaths so
// they can read sibling values and localize labels through the model.
type ModelPath struct {
	Path
	model *DataModel
}

// Root returns the empty path bound to m. m may be nil, which yields a
// detached path whose Get returns nil and whose Set does nothing.
func Root(m *DataModel) ModelPath { return ModelPath{model: m} }

// Bind binds an existing Path to m.
func Bind(p Path, m *DataModel) ModelPath { return ModelPath{Path: p.Copy(), model: m} }

// Model returns the bound model (nil when detached).
func (p ModelPath) Model() *DataModel { return p.model }

func (p ModelPath) with(q Path) ModelPath { return ModelPath{Path: q, model: p.model} }

func (p ModelPath) Push(key string) ModelPath       { return p.with(p.Path.Push(key)) }
func (p ModelPath) PushIndex(i int) ModelPath       { return p.with(p.Path.PushIndex(i)) }
func (p ModelPath) LocalePush(key string) ModelPath { return p.with(p.Path.LocalePush(key)) }
func (p ModelPath) Pop() ModelPath                  { return p.with(p.Path.Pop()) }
func (p ModelPath) Shift() ModelPath                { return p.with(p.Path.Shift()) }
func (p ModelPath) Copy() ModelPath                 { return p.with(p.Path.Copy()) }
func (p ModelPath) Slice(start, end int) ModelPath  { return p.with(p.Path.Slice(start, end)) }

// Get reads the value at the path from the bound model.
func (p ModelPath) Get() any {
	if p.model == nil {
		return nil
	}
	return p.model.Get(p.Path)
}

// Set writes value at the path and triggers a validation pass.
func (p ModelPath) Set(value any) {
	if p.model == nil {
		return
	}
	p.model.Set(p.Path, value)
}

// SetSilent writes value without validation, history or notification. Use it
// from inside a validation pass.
func (p ModelPath) SetSilent(value any) {
	if p.model == nil {
		return
	}
	p.model.SetSilent(p.Path, value)
}

// Locale localizes the path using the model's catalog.
func (p ModelPath) Locale(params ...string) string {
	return p.Path.Locale(p.catalog(), params...)
}

// StrictLocale is Path.StrictLocale against the model's catalog.
func (p ModelPath) StrictLocale(params []string, depth, minDepth int) (string, bool) {
	return p.Path.StrictLocale(p.catalog(), params, depth, minDepth)
}

// Errors returns the model's current issues at the path (exact) or anywhere
// beneath it.
func (p ModelPath) Errors(exact bool) []Issue {
	if p.model == nil {
		return nil
	}
	return p.model.Errors().Get(p.Path, exact)
}

func (p ModelPath) catalog() *i18n.Catalog {
	if p.model == nil || p.model.registries == nil {
		return nil
	}
	return p.model.registries.Locales
}
