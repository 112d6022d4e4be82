package constraint

import (
	"strings"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
)

// Derive walks every association in the store and finalizes its
// model.Constraints.Final set: managed associations validate the
// candidates preprocess pass 9 already seeded; unmanaged (on-condition)
// associations are scanned for bare equalities against $self and $self-
// rooted principal paths are turned into candidates here. A candidate only
// survives into Final if its principal path names an actual declared key
// element on the target; a constraint that covers only part of the
// target's key is marked Partial and, in v2 without odataV2PartialConstr,
// dropped outright with a warning rather than rendered incorrectly.
func Derive(store *model.Store, opts *optsx.Options, pol *naming.Policy, sink *errs.Sink) {
	for _, d := range store.All() {
		deriveInElements(store, opts, pol, sink, d, d.Elements, nil)
	}
}

func deriveInElements(store *model.Store, opts *optsx.Options, pol *naming.Policy, sink *errs.Sink, owner *model.Definition, els []*model.Element, prefix []string) {
	for _, e := range els {
		if e.Assoc != nil {
			deriveForAssoc(store, opts, pol, sink, e, append(append([]string{}, prefix...), e.Name))
		}
		if e.Items != nil {
			deriveInElements(store, opts, pol, sink, owner, []*model.Element{e.Items}, prefix)
		}
		if len(e.Elements) > 0 {
			deriveInElements(store, opts, pol, sink, owner, e.Elements, append(append([]string{}, prefix...), e.Name))
		}
	}
}

func deriveForAssoc(store *model.Store, opts *optsx.Options, pol *naming.Policy, sink *errs.Sink, e *model.Element, path []string) {
	a := e.Assoc
	target, ok := store.Get(a.ResolvedTarget)
	if !ok {
		return
	}
	if a.Constraints == nil {
		a.Constraints = &model.Constraints{}
	}
	if len(a.Keys) == 0 && !a.On.IsZero() {
		for _, eq := range equalitiesOf(a.On) {
			dep, prin, ok := classifyEquality(eq)
			if !ok {
				continue
			}
			full := append([]string{e.Name}, dep...)
			a.Constraints.Candidates = append(a.Constraints.Candidates, model.ConstraintCandidate{
				DependentPath: full,
				PrincipalPath: prin,
				Identifier:    pol.FlattenPath(full),
			})
		}
	}
	finalizeConstraints(opts, sink, strings.Join(path, "."), target, a)
}

// equalitiesOf splits an xpr's top-level "and" conjunctions into individual
// equality groups, or returns the xpr whole if it has none.
func equalitiesOf(on model.Expr) []model.Expr {
	if on.Kind != model.ExprXpr {
		return []model.Expr{on}
	}
	var out []model.Expr
	var cur []model.Expr
	for _, part := range on.Xpr {
		if strings.EqualFold(part.Token, "and") && len(cur) > 0 {
			out = append(out, model.Expr{Kind: model.ExprXpr, Xpr: cur})
			cur = nil
		}
		cur = append(cur, part)
	}
	if len(cur) > 0 {
		out = append(out, model.Expr{Kind: model.ExprXpr, Xpr: cur})
	}
	return out
}

// classifyEquality recognizes `$self.path = target.path` (in either
// order) and returns the dependent-side path (relative to the
// association's own element) and the principal-side path (relative to the
// target). Anything more complex than a bare two-ref equality is left for
// the renderer to emit as a literal on-condition; it contributes no
// constraint.
func classifyEquality(eq model.Expr) (dep, prin []string, ok bool) {
	if eq.Kind != model.ExprXpr || len(eq.Xpr) != 2 {
		return nil, nil, false
	}
	left, right := eq.Xpr[0], eq.Xpr[1]
	if right.Token != "=" || left.Kind != model.ExprRef || right.Kind != model.ExprRef {
		return nil, nil, false
	}
	lp := model.PathStrings(left.Ref)
	rp := model.PathStrings(right.Ref)
	switch {
	case len(lp) > 1 && lp[0] == "$self":
		return rp, lp[1:], true
	case len(rp) > 1 && rp[0] == "$self":
		return lp, rp[1:], true
	default:
		return nil, nil, false
	}
}

func finalizeConstraints(opts *optsx.Options, sink *errs.Sink, path string, target *model.Definition, a *model.Association) {
	keys := targetKeyNames(target)
	covered := map[string]bool{}
	var final []model.ConstraintCandidate
	for _, c := range a.Constraints.Candidates {
		if len(c.PrincipalPath) == 1 && keys[c.PrincipalPath[0]] {
			covered[c.PrincipalPath[0]] = true
			final = append(final, c)
		}
	}
	partial := len(covered) > 0 && len(covered) < len(keys)
	if partial && opts.Version == optsx.V2 && !opts.ODataV2PartialConstr {
		sink.Warning(errs.SpecViolation, "partial-constraint-dropped", path,
			"referential constraint covers only part of the target key and odataV2PartialConstr is off; dropping it rather than rendering an incomplete FOREIGN KEY")
		final = nil
		partial = false
	}
	a.Constraints.Final = final
	a.Constraints.Partial = partial
}

func targetKeyNames(target *model.Definition) map[string]bool {
	out := map[string]bool{}
	for _, e := range target.Elements {
		if e.Key {
			out[e.Name] = true
		}
	}
	return out
}
