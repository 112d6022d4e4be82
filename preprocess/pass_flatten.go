package preprocess

import "github.com/csnlower/csnlower/model"

// passFlattenStructured is pass 10: every leaf element of a persisted
// entity's anonymous nested structs gets a $generatedFieldName, the
// dot-path flattened into one SQL column identifier per the naming policy.
// Named structured-type references are left alone here — the type's own
// element list is shared across every element that references it, so
// resolving and flattening it is the SQL renderer's job at render time
// (render/sqlrender.buildTable), not something this pass can do without
// cloning shared state. Views are left untouched here: their column names
// come from the query's own projection list, not from this structural
// flattening. This is also where the @cds.api.ignore/@odata.api.ignore
// hidden marker is installed.
func passFlattenStructured(ctx *Context) {
	for _, d := range ctx.Store.OfKind(model.KindEntity) {
		if d.Query != nil {
			continue
		}
		flattenStruct(ctx, d.Elements, nil)
	}
}

func flattenStruct(ctx *Context, els []*model.Element, prefix []string) {
	for _, e := range els {
		if e.Annotations.Has("@cds.api.ignore") || e.Annotations.Has("@odata.api.ignore") {
			e.Hidden = true
		}
		path := append(append([]string{}, prefix...), e.Name)
		if len(e.Elements) > 0 {
			flattenStruct(ctx, e.Elements, path)
			continue
		}
		if len(prefix) > 0 {
			e.GeneratedFieldName = ctx.Naming.FlattenPath(path)
		}
	}
}
