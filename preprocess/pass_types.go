package preprocess

import (
	"fmt"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
)

// passExpandBaseTypes is pass 3: an element whose "type" names a scalar
// type definition (a `type X : String(10)`-style alias, as opposed to a
// struct/entity type meant to be reused by reference) is inlined to the
// alias's own base-plus-facets, following the chain through any number of
// intermediate aliases. A named type that is itself structural (IsStruct)
// is left as a reference: that is a reusable shape, not a scalar alias.
func passExpandBaseTypes(ctx *Context) {
	store := ctx.Store
	for _, d := range store.All() {
		if !d.IsStruct {
			continue
		}
		expandElementTypes(store, ctx.Sink, d.Elements, d.Name)
	}
}

func expandElementTypes(store *model.Store, sink *errs.Sink, els []*model.Element, path string) {
	for _, e := range els {
		if e.Type != "" && e.Base == nil && e.Assoc == nil {
			if base := resolveScalarBase(store, sink, e.Type, path+"."+e.Name, 0); base != nil {
				e.Base = base
				e.Type = ""
			}
		}
		if e.Items != nil {
			expandElementTypes(store, sink, []*model.Element{e.Items}, path+"."+e.Name)
		}
		if len(e.Elements) > 0 {
			expandElementTypes(store, sink, e.Elements, path+"."+e.Name)
		}
	}
}

func resolveScalarBase(store *model.Store, sink *errs.Sink, typeName, path string, depth int) *model.ScalarType {
	if depth > 32 {
		sink.Error(errs.Structural, "type-cycle", path, "named-type chain exceeds 32 hops, likely a cycle")
		return nil
	}
	td, ok := store.Get(typeName)
	if !ok {
		sink.Error(errs.Reference, "unknown-type", path, fmt.Sprintf("references undefined type %q", typeName))
		return nil
	}
	if td.IsStruct {
		return nil
	}
	if td.Base == nil {
		return nil
	}
	cp := *td.Base
	if next, ok := store.Get(cp.Base); ok && !next.IsStruct {
		inner := resolveScalarBase(store, sink, cp.Base, path, depth+1)
		if inner != nil && cp.Length == 0 && cp.Precision == 0 && cp.Scale == 0 && cp.SRID == 0 {
			return inner
		}
		if inner != nil {
			cp.Base = inner.Base
		}
	}
	return &cp
}
