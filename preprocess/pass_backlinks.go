package preprocess

import (
	"fmt"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
)

// passSeedBacklinks is pass 9: seed constraint candidates for managed
// associations straight from their declared foreign-key vector, and detect
// unmanaged backlink pairs (an on-condition association whose partner on
// the target side points back via $self) so the constraint engine (pass 11)
// and the renderers know which association is the "owning" side.
//
// This is also where spec.md §9 Open Question 2 is resolved: when a
// detected backlink pair declares cardinalities that don't mirror each
// other (both to-many, or neither to-many where one should be), the
// explicit declared value is kept on both sides and a warning is recorded.
// Nothing here ever silently rewrites a declared cardinality.
func passSeedBacklinks(ctx *Context) {
	for _, d := range ctx.Store.All() {
		seedBacklinksIn(ctx, d, d.Elements, d.Name)
	}
}

func seedBacklinksIn(ctx *Context, owner *model.Definition, els []*model.Element, path string) {
	for _, e := range els {
		if e.Assoc != nil {
			elPath := path + "." + e.Name
			seedConstraintCandidates(ctx, e, elPath)
			detectBacklink(ctx, owner, e, elPath)
		}
		if e.Items != nil {
			seedBacklinksIn(ctx, owner, []*model.Element{e.Items}, path)
		}
		if len(e.Elements) > 0 {
			seedBacklinksIn(ctx, owner, e.Elements, path+"."+e.Name)
		}
	}
}

func seedConstraintCandidates(ctx *Context, e *model.Element, path string) {
	a := e.Assoc
	if len(a.Keys) == 0 {
		return
	}
	if a.Constraints == nil {
		a.Constraints = &model.Constraints{}
	}
	for _, fk := range a.Keys {
		dep := append([]string{e.Name}, fk.Path...)
		a.Constraints.Candidates = append(a.Constraints.Candidates, model.ConstraintCandidate{
			DependentPath: dep,
			PrincipalPath: fk.Ref,
			Enforced:      true,
			Identifier:    ctx.Naming.FlattenPath(dep),
		})
	}
}

func detectBacklink(ctx *Context, owner *model.Definition, e *model.Element, path string) {
	a := e.Assoc
	if a.On.IsZero() {
		return
	}
	target, ok := ctx.Store.Get(a.ResolvedTarget)
	if !ok {
		return
	}
	partner := findPartnerCandidate(target, owner.Name, e.Name)
	if partner == nil {
		return
	}
	a.SelfReferences = appendUnique(a.SelfReferences, partner.Name)
	partner.Assoc.Origins = appendUnique(partner.Assoc.Origins, e.Name)

	if a.Cardinality.Max != 0 && partner.Assoc.Cardinality.Max != 0 &&
		a.Cardinality.IsToMany() == partner.Assoc.Cardinality.IsToMany() {
		ctx.Sink.Warning(errs.SpecViolation, "backlink-cardinality-conflict", path,
			fmt.Sprintf("backlink %s.%s does not mirror this association's cardinality; keeping both declared values as-is",
				target.Name, partner.Name))
	}
}

func findPartnerCandidate(target *model.Definition, ownerName, elName string) *model.Element {
	for _, e := range target.Elements {
		if e.Assoc != nil && e.Name != elName && e.Assoc.ResolvedTarget == ownerName {
			return e
		}
	}
	return nil
}
