package nodeskema

// Package nodeskema provides:
//
// - Paths (Path, ModelPath, RelativePath) addressing values and their locale trail
// - An issue sink (Errors) with stable codes resolved through i18n catalogs
// - Registries for schemas, string collections and locales
// - The Node contract that every schema node implements (see dsl/ for nodes)
// - DataModel: a mutable tree with validation passes, bounded undo/redo and listeners
//
// Design policy:
// - Keep only public APIs in the root package; nodes live under dsl/, document I/O under source/.
// - nil is "undefined": JSON null and absent keys are the same thing.
// - Validation never panics on input; loose passes repair, strict passes only report.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  m := nodeskema.NewDataModel(schema, nodeskema.WithHistoryMax(100))
//  m.Set(nodeskema.ParsePointer("/pools/0/rolls"), 3.0)
//  for _, it := range m.Errors().All() {
//      fmt.Println(it.Path, it.Message(m.Registries().Locales))
//  }
//  m.Undo()
