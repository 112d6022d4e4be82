package preprocess

import (
	"fmt"
	"strings"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
)

// passSplitParams is pass 7: a parameterized entity "E(p: T)" is split into
// two definitions: "EType", carrying the original elements and query, and
// "EParameters", a new entity whose elements are the former parameters plus
// a "Set" composition back to EType, with EType gaining a matching
// "Parameters" backlink to-one. Every other definition that associated to
// the original entity is redirected to point at EParameters instead, since
// navigating a parameterized entity set always goes by way of its
// parameter values.
func passSplitParams(ctx *Context) {
	for _, d := range ctx.Store.OfKind(model.KindEntity) {
		if d.HasParams() {
			splitParamEntity(ctx, d)
		}
	}
}

func splitParamEntity(ctx *Context, d *model.Definition) {
	store := ctx.Store
	origName := d.Name
	typeName := origName + "Type"
	paramsName := origName + "Parameters"
	sources := d.Sources

	store.Rename(origName, typeName)
	d.OriginalTarget = origName

	paramsDef := &model.Definition{Name: paramsName, Kind: model.KindEntity, IsStruct: true}
	for _, p := range d.Params {
		paramsDef.AddElement(&model.Element{Name: p.Name, Base: p.Type, Key: true, Annotations: p.Annotations})
	}
	paramsDef.AddElement(&model.Element{
		Name: "Set",
		Assoc: &model.Association{
			Target: typeName, ResolvedTarget: typeName, Composition: true,
			Cardinality: model.Cardinality{Max: model.Many},
		},
	})
	store.Put(paramsDef)

	d.AddElement(&model.Element{
		Name: "Parameters",
		Assoc: &model.Association{
			Target: paramsName, ResolvedTarget: paramsName,
			Cardinality: model.Cardinality{Max: 1},
			On: model.Expr{Kind: model.ExprXpr, Xpr: []model.Expr{
				{Kind: model.ExprRef, Ref: []model.PathStep{{Name: "Parameters"}, {Name: "Set"}}},
				{Kind: model.ExprRef, Token: "=", Ref: []model.PathStep{{Name: "$self"}}},
			}},
		},
	})

	for key := range sources {
		dot := strings.LastIndex(key, ".")
		if dot < 0 {
			continue
		}
		ownerDef, ok := store.Get(key[:dot])
		if !ok {
			continue
		}
		el, ok := ownerDef.ElementByName(key[dot+1:])
		if !ok || el.Assoc == nil || el.Assoc.ResolvedTarget != origName {
			continue
		}
		el.Assoc.OriginalTarget = origName
		el.Assoc.Target = paramsName
		el.Assoc.ResolvedTarget = paramsName
	}

	ctx.Sink.Info(errs.Structural, "param-split", origName,
		fmt.Sprintf("parameterized entity split into %s and %s", typeName, paramsName))
}
