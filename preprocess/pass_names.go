package preprocess

import (
	"strings"

	"github.com/csnlower/csnlower/model"
)

// passNormalizeDottedNames is pass 2: a definition local name that still
// carries a dot after stripping its owning service/context prefix (a name
// declared with dots purely for source-file organization) is flattened to
// underscores, and every reference to it store-wide is rewritten to match.
func passNormalizeDottedNames(ctx *Context) {
	store := ctx.Store
	rename := map[string]string{}
	for _, d := range store.All() {
		if d.Kind.IsScopeContainer() {
			continue
		}
		svc := ownerPrefix(ctx.Services, d.Name)
		if svc == "" {
			continue
		}
		local := strings.TrimPrefix(d.Name, svc+".")
		if !strings.Contains(local, ".") {
			continue
		}
		rename[d.Name] = svc + "." + strings.ReplaceAll(local, ".", "_")
	}
	for old, nw := range rename {
		if store.Rename(old, nw) {
			renameRefs(store, old, nw)
		}
	}
}

// passAttachNames is pass 4: install $mySchemaName on every definition and
// _parent on every element (including nested ones), the two derived fields
// every later pass relies on to classify a name without re-walking service
// boundaries each time.
func passAttachNames(ctx *Context) {
	for _, d := range ctx.Store.All() {
		d.MySchemaName = ownerPrefix(ctx.Services, d.Name)
		attachParent(d.Elements, d.Name)
	}
}

func attachParent(els []*model.Element, owner string) {
	for _, e := range els {
		e.Parent = owner
		if e.Items != nil {
			e.Items.Parent = owner
		}
		if len(e.Elements) > 0 {
			attachParent(e.Elements, owner)
		}
	}
}

// renameRefs rewrites every reference to old across the store to new:
// element type references, association targets, includes, and query FROM
// references. Ref paths inside expressions are always relative or $self-
// rooted in this model and never carry a fully-qualified definition name,
// so expressions themselves need no rewriting.
func renameRefs(store *model.Store, old, nw string) {
	for _, d := range store.All() {
		for i, inc := range d.IncludesOf {
			if inc == old {
				d.IncludesOf[i] = nw
			}
		}
		renameInElements(d.Elements, old, nw)
		if d.Query != nil {
			renameInSource(d.Query.From, old, nw)
		}
	}
}

func renameInElements(els []*model.Element, old, nw string) {
	for _, e := range els {
		if e.Type == old {
			e.Type = nw
		}
		if e.Assoc != nil {
			if e.Assoc.Target == old {
				e.Assoc.Target = nw
			}
			if e.Assoc.ResolvedTarget == old {
				e.Assoc.ResolvedTarget = nw
			}
		}
		if e.Items != nil {
			renameInElements([]*model.Element{e.Items}, old, nw)
		}
		if len(e.Elements) > 0 {
			renameInElements(e.Elements, old, nw)
		}
	}
}

func renameInSource(s *model.Source, old, nw string) {
	if s == nil {
		return
	}
	if s.Ref == old {
		s.Ref = nw
	}
	if s.SubQuery != nil {
		renameInSource(s.SubQuery.From, old, nw)
	}
	for _, j := range s.JoinArgs {
		renameInSource(j, old, nw)
	}
}
