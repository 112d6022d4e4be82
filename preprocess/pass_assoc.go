package preprocess

import (
	"fmt"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/resolver"
)

// passLinkAssociations is pass 5: resolve every association's target to a
// concrete definition, record the target's $sources back-reference when the
// target is parameterized (pass 7 needs it to redirect inbound references),
// and auto-mark compositions contained when odataContainment is on. It also
// runs the short-form association-spelling check (spec.md §9 Open Question
// 1): both "Association"/"cds.Association" spellings are accepted, the
// short form only earns an info diagnostic, never a rewrite.
func passLinkAssociations(ctx *Context) {
	for _, d := range ctx.Store.All() {
		linkAssocElements(ctx, d, d.Elements, d.Name)
	}
}

func linkAssocElements(ctx *Context, owner *model.Definition, els []*model.Element, path string) {
	for _, e := range els {
		if e.Assoc != nil {
			elPath := path + "." + e.Name
			resolver.CheckAssociationSpelling(ctx.Sink, elPath, e)
			target, ok := ctx.Store.Get(e.Assoc.Target)
			if !ok {
				ctx.Sink.Error(errs.Reference, "unknown-target", elPath,
					fmt.Sprintf("association target %q is not defined", e.Assoc.Target))
			} else {
				e.Assoc.ResolvedTarget = target.Name
				if target.HasParams() {
					key := owner.Name + "." + e.Name
					if target.Sources == nil {
						target.Sources = map[string][]string{}
					}
					target.Sources[key] = appendUnique(target.Sources[key], owner.Name)
				}
				if e.Assoc.Composition && ctx.Opts.Version == optsx.V4 && ctx.Opts.ODataContainment {
					e.Assoc.Contained = true
				}
			}
		}
		if e.Items != nil {
			linkAssocElements(ctx, owner, []*model.Element{e.Items}, path)
		}
		if len(e.Elements) > 0 {
			linkAssocElements(ctx, owner, e.Elements, path+"."+e.Name)
		}
	}
}

// passContainment is pass 6: propagate the contained marker pass 5 set onto
// the target definition (so the renderer knows it has no entity set of its
// own) and flag the matching backlink association on the contained side so
// it never renders as outbound navigation toward its own container.
func passContainment(ctx *Context) {
	store := ctx.Store
	for _, d := range store.All() {
		markContainment(store, d, d.Elements)
	}
}

func markContainment(store *model.Store, owner *model.Definition, els []*model.Element) {
	for _, e := range els {
		if e.Assoc != nil && e.Assoc.Contained {
			if target, ok := store.Get(e.Assoc.ResolvedTarget); ok {
				target.ContainerEntities = appendUnique(target.ContainerEntities, owner.Name)
				markBacklinksToContainer(target, owner.Name)
			}
		}
		if e.Items != nil {
			markContainment(store, owner, []*model.Element{e.Items})
		}
		if len(e.Elements) > 0 {
			markContainment(store, owner, e.Elements)
		}
	}
}

func markBacklinksToContainer(target *model.Definition, containerName string) {
	for _, e := range target.Elements {
		if e.Assoc != nil && !e.Assoc.Composition && e.Assoc.ResolvedTarget == containerName {
			e.IsToContainer = true
		}
	}
}
