package nodeskema_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ns "github.com/reoring/nodeskema"
	g "github.com/reoring/nodeskema/dsl"
)

func itemSchema() ns.Node {
	return g.Object().
		Field("name", g.String()).
		Field("count", g.Number().Min(0)).
		Field("tags", g.Opt(g.List(g.String()))).
		MustBuild()
}

func ptr(s string) ns.Path { return ns.ParsePointer(s) }

func TestDataModel_DefaultAndHistorySeed(t *testing.T) {
	m := ns.NewDataModel(itemSchema())

	assert.Equal(t, map[string]any{"name": "", "count": 0.0}, m.Data())
	assert.Zero(t, m.Errors().Len())
	require.Len(t, m.History(), 1)
	assert.Equal(t, 0, m.HistoryIndex())
	assert.Equal(t, ns.DefaultHistoryMax, m.HistoryMax())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestDataModel_SetGetAndLooseRepair(t *testing.T) {
	m := ns.NewDataModel(itemSchema())

	m.Set(ptr("/name"), "apple")
	assert.Equal(t, "apple", m.Get(ptr("/name")))

	// type mismatches are repaired in loose passes
	m.Set(ptr("/count"), "5")
	assert.Equal(t, 5.0, m.Get(ptr("/count")))

	// constraint violations are reported and left alone
	m.Set(ptr("/count"), -1.0)
	assert.Equal(t, -1.0, m.Get(ptr("/count")))
	issues := m.Errors().Get(ptr("/count"), true)
	require.Len(t, issues, 1)
	assert.Equal(t, ns.CodeNumberRangeSmaller, issues[0].Code)
	assert.Equal(t, []any{-1.0, 0.0}, issues[0].Params)

	// reading through a scalar or a missing key yields nil
	assert.Nil(t, m.Get(ptr("/name/deeper")))
	assert.Nil(t, m.Get(ptr("/missing/0")))
}

func TestDataModel_SetGrowsIntermediates(t *testing.T) {
	m := ns.NewDataModel(g.Any())

	m.Set(ptr("/a/0/b"), 1.0)
	assert.Equal(t, map[string]any{"a": []any{map[string]any{"b": 1.0}}}, m.Data())

	// a scalar intermediate is replaced by a container
	m.Set(ptr("/a/0/b/c"), "x")
	assert.Equal(t, "x", m.Get(ptr("/a/0/b/c")))

	// writing past the end pads with nil
	m.Set(ptr("/list/2"), true)
	assert.Equal(t, []any{nil, nil, true}, m.Get(ptr("/list")))
}

func TestDataModel_DeleteSplicesLists(t *testing.T) {
	m := ns.NewDataModel(itemSchema(), ns.WithInitialData(map[string]any{
		"name": "a", "count": 1.0, "tags": []any{"x", "y", "z"},
	}))

	m.Set(ptr("/tags/1"), nil)
	assert.Equal(t, []any{"x", "z"}, m.Get(ptr("/tags")))

	// "name" is required, so the loose pass puts the default back
	m.Set(ptr("/name"), math.NaN())
	assert.Equal(t, "", m.Get(ptr("/name")))

	// emptying an optional list drops it
	m.Set(ptr("/tags/0"), nil)
	m.Set(ptr("/tags/0"), nil)
	_, present := m.Data().(map[string]any)["tags"]
	assert.False(t, present)
}

func TestDataModel_ResetStrictReports(t *testing.T) {
	m := ns.NewDataModel(itemSchema())
	m.Reset(map[string]any{"name": 3.0, "count": 1.0}, false)

	assert.Equal(t, 3.0, m.Get(ptr("/name")))
	require.Equal(t, 1, m.Errors().Len())
	assert.Equal(t, ns.CodeExpectedString, m.Errors().All()[0].Code)

	m.Set(ns.NewPath(), map[string]any{"name": 3.0, "count": 1.0})
	assert.Equal(t, "3", m.Get(ptr("/name")))
	assert.Zero(t, m.Errors().Len())
}

func TestDataModel_UndoRedo(t *testing.T) {
	m := ns.NewDataModel(itemSchema())
	m.Set(ptr("/name"), "a")
	m.Set(ptr("/name"), "b")
	require.Len(t, m.History(), 3)

	require.True(t, m.Undo())
	assert.Equal(t, "a", m.Get(ptr("/name")))
	assert.Equal(t, 1, m.HistoryIndex())
	assert.True(t, m.CanRedo())

	require.True(t, m.Redo())
	assert.Equal(t, "b", m.Get(ptr("/name")))
	assert.False(t, m.Redo())

	m.Undo()
	m.Undo()
	assert.False(t, m.Undo())
	assert.Equal(t, "", m.Get(ptr("/name")))

	// a new edit truncates the redo tail
	m.Set(ptr("/name"), "c")
	assert.Len(t, m.History(), 2)
	assert.False(t, m.CanRedo())
}

func TestDataModel_HistoryBoundAndDedup(t *testing.T) {
	m := ns.NewDataModel(itemSchema(), ns.WithHistoryMax(3))
	for i := 1; i <= 5; i++ {
		m.Set(ptr("/count"), float64(i))
	}
	assert.Len(t, m.History(), 3)
	assert.Equal(t, 2, m.HistoryIndex())
	assert.Contains(t, m.History()[0], `"count":3`)

	// writing the same value records nothing
	m.Set(ptr("/count"), 5.0)
	assert.Len(t, m.History(), 3)

	m.Undo()
	m.Undo()
	assert.False(t, m.CanUndo())
	assert.Equal(t, 3.0, m.Get(ptr("/count")))
}

func TestDataModel_SetSilent(t *testing.T) {
	m := ns.NewDataModel(itemSchema())
	calls := 0
	m.AddListener(ns.Listener{Invalidated: func(*ns.DataModel) { calls++ }})

	m.SetSilent(ptr("/count"), "not validated")
	assert.Equal(t, "not validated", m.Get(ptr("/count")))
	assert.Len(t, m.History(), 1)
	assert.Zero(t, calls)

	m.Root().Push("name").SetSilent("quiet")
	assert.Equal(t, "quiet", m.Root().Push("name").Get())
}

func TestDataModel_Listeners(t *testing.T) {
	m := ns.NewDataModel(itemSchema())
	var invalidated, errored int
	var lastErrs *ns.Errors
	id := m.AddListener(ns.Listener{
		Invalidated: func(dm *ns.DataModel) {
			assert.Same(t, m, dm)
			invalidated++
		},
		Errors: func(errs *ns.Errors) {
			errored++
			lastErrs = errs
		},
	})

	m.Set(ptr("/count"), -3.0)
	assert.Equal(t, 1, invalidated)
	assert.Equal(t, 1, errored)
	require.NotNil(t, lastErrs)
	assert.Equal(t, 1, lastErrs.Len())

	// Validate alone only reports errors
	m.Validate(true)
	assert.Equal(t, 1, invalidated)
	assert.Equal(t, 2, errored)

	m.RemoveListener(id)
	m.RemoveListener(id)
	m.Set(ptr("/count"), 1.0)
	assert.Equal(t, 1, invalidated)
}

func TestDataModel_ListenerMayRemoveItself(t *testing.T) {
	m := ns.NewDataModel(itemSchema())
	var id ns.ListenerID
	calls := 0
	id = m.AddListener(ns.Listener{Invalidated: func(dm *ns.DataModel) {
		calls++
		dm.RemoveListener(id)
	}})
	m.Set(ptr("/name"), "x")
	m.Set(ptr("/name"), "y")
	assert.Equal(t, 1, calls)
}

func TestDataModel_MetaPassesThrough(t *testing.T) {
	m := ns.NewDataModel(itemSchema(), ns.WithInitialData(map[string]any{
		"name": "a", "count": 1.0, ns.MetaKey: map[string]any{"comment": "hi"},
	}))
	meta, ok := ns.Meta(m.Data())
	require.True(t, ok)
	assert.Equal(t, map[string]any{"comment": "hi"}, meta)
	assert.Zero(t, m.Errors().Len())

	assert.Equal(t, map[string]any{"name": "a", "count": 1.0}, ns.StripMeta(m.Data()))
}

func TestDataModel_NodeAtAndModelPath(t *testing.T) {
	m := ns.NewDataModel(itemSchema(), ns.WithInitialData(map[string]any{
		"name": "a", "count": 1.0, "tags": []any{"x"},
	}))

	_, isMod := m.NodeAt(ptr("/tags")).(*g.ModNode)
	assert.True(t, isMod)
	_, isString := m.NodeAt(ptr("/tags/0")).(*g.StringNode)
	assert.True(t, isString)
	assert.Nil(t, m.NodeAt(ptr("/unknown")))

	p := m.Root().Push("count")
	p.Set(-1.0)
	assert.Len(t, p.Errors(true), 1)
	assert.Len(t, m.Root().Errors(false), 1)
	assert.Same(t, m, p.Model())
}

func TestDataModel_OutputAppliesTransform(t *testing.T) {
	m := ns.NewDataModel(itemSchema(), ns.WithWrapLists(), ns.WithInitialData(map[string]any{
		"name": "a", "count": 1.0, "tags": []any{"x"},
	}))
	assert.Equal(t, map[string]any{"name": "a", "count": 1.0, "tags": []any{"x"}}, m.Output())
}
