package differ

import (
	"fmt"
	"sort"

	"github.com/csnlower/csnlower/model"
)

// ChangeKind tags what happened to an entity or element between two
// snapshots.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Dropped  ChangeKind = "dropped"
	Modified ChangeKind = "modified"
)

// ElementChange is one column-level delta within a Modified entity, or
// one member of an Added/Dropped entity's full element list.
type ElementChange struct {
	Name   string
	Kind   ChangeKind
	Lossy  bool
	Before *model.Element
	After  *model.Element
}

// EntityChange is one entity's delta between the two snapshots.
type EntityChange struct {
	Name         string
	MySchemaName string
	Kind         ChangeKind
	Elements     []ElementChange
}

// Plan is the full structured migration plan, keyed implicitly by each
// EntityChange's Name (spec.md §4.6: "a structured plan keyed by entity
// name").
type Plan struct {
	Entities []EntityChange
}

// IsEmpty reports whether the plan carries no changes at all — the
// property Δ(M, M) must satisfy per spec.md §8's idempotence invariant.
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.Entities) == 0
}

// Diff compares two fully preprocessed stores and produces the migration
// plan. Only persisted, non-proxy entities participate — views have
// nothing to ALTER, and proxies have no table of their own.
func Diff(before, after *model.Store) *Plan {
	names := unionPersistedEntityNames(before, after)
	plan := &Plan{}
	for _, name := range names {
		b, hasB := persistedEntity(before, name)
		a, hasA := persistedEntity(after, name)
		switch {
		case hasA && !hasB:
			plan.Entities = append(plan.Entities, EntityChange{Name: name, MySchemaName: a.MySchemaName, Kind: Added, Elements: allAdded(a)})
		case hasB && !hasA:
			plan.Entities = append(plan.Entities, EntityChange{Name: name, MySchemaName: b.MySchemaName, Kind: Dropped, Elements: allDropped(b)})
		default:
			if ec, changed := diffEntity(name, b, a); changed {
				plan.Entities = append(plan.Entities, ec)
			}
		}
	}
	return plan
}

func persistedEntity(s *model.Store, name string) (*model.Definition, bool) {
	d, ok := s.Get(name)
	if !ok || d.Kind != model.KindEntity || d.IsProxy || d.Query != nil {
		return nil, false
	}
	return d, true
}

func unionPersistedEntityNames(before, after *model.Store) []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range before.OfKind(model.KindEntity) {
		if !d.IsProxy && d.Query == nil {
			if !seen[d.Name] {
				seen[d.Name] = true
				out = append(out, d.Name)
			}
		}
	}
	for _, d := range after.OfKind(model.KindEntity) {
		if !d.IsProxy && d.Query == nil {
			if !seen[d.Name] {
				seen[d.Name] = true
				out = append(out, d.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}

func allAdded(d *model.Definition) []ElementChange {
	out := make([]ElementChange, 0, len(d.Elements))
	for _, e := range d.Elements {
		out = append(out, ElementChange{Name: e.Name, Kind: Added, After: e})
	}
	return out
}

func allDropped(d *model.Definition) []ElementChange {
	out := make([]ElementChange, 0, len(d.Elements))
	for _, e := range d.Elements {
		out = append(out, ElementChange{Name: e.Name, Kind: Dropped, Before: e})
	}
	return out
}

func diffEntity(name string, before, after *model.Definition) (EntityChange, bool) {
	ec := EntityChange{Name: name, MySchemaName: after.MySchemaName, Kind: Modified}
	elNames := unionElementNames(before, after)
	for _, en := range elNames {
		be, hasB := before.ElementByName(en)
		ae, hasA := after.ElementByName(en)
		switch {
		case hasA && !hasB:
			ec.Elements = append(ec.Elements, ElementChange{Name: en, Kind: Added, After: ae})
		case hasB && !hasA:
			ec.Elements = append(ec.Elements, ElementChange{Name: en, Kind: Dropped, Before: be})
		case elementChanged(be, ae):
			ec.Elements = append(ec.Elements, ElementChange{Name: en, Kind: Modified, Lossy: isLossy(be, ae), Before: be, After: ae})
		}
	}
	return ec, len(ec.Elements) > 0
}

func unionElementNames(before, after *model.Definition) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range before.Elements {
		if !seen[e.Name] {
			seen[e.Name] = true
			out = append(out, e.Name)
		}
	}
	for _, e := range after.Elements {
		if !seen[e.Name] {
			seen[e.Name] = true
			out = append(out, e.Name)
		}
	}
	sort.Strings(out)
	return out
}

// elementChanged implements spec.md §4.6's change predicate: the type
// differs in a non-association-neutral way, or length/precision/scale/
// target/on/keys changed, or doc changed.
func elementChanged(before, after *model.Element) bool {
	if before.Doc != after.Doc {
		return true
	}
	if (before.Assoc == nil) != (after.Assoc == nil) {
		return true
	}
	if before.Assoc != nil && after.Assoc != nil {
		return assocChanged(before.Assoc, after.Assoc)
	}
	if (before.Base == nil) != (after.Base == nil) {
		return true
	}
	if before.Base != nil && after.Base != nil {
		b, a := before.Base, after.Base
		if b.Base != a.Base || b.Length != a.Length || b.Precision != a.Precision || b.Scale != a.Scale || b.SRID != a.SRID {
			return true
		}
	}
	return before.Type != after.Type || before.Key != after.Key || before.NotNull != after.NotNull
}

func assocChanged(b, a *model.Association) bool {
	if b.Target != a.Target {
		return true
	}
	if exprText(b.On) != exprText(a.On) {
		return true
	}
	return foreignKeysText(b.Keys) != foreignKeysText(a.Keys)
}

// exprText and foreignKeysText are deliberately crude structural
// fingerprints (not renders) — they only need to distinguish "same" from
// "different", not produce readable text; render/expr.Renderer is the
// tool for readable text and pulling it in here for a diff-only
// comparison would be a dependency in the wrong direction.
func exprText(e model.Expr) string {
	if e.IsZero() {
		return ""
	}
	s := string(e.Kind) + "|" + e.Token + "|" + e.Literal + "|" + fmt.Sprint(e.Val) + "|" + e.Func + "|" + e.Symbol + "|" + pathText(e.Ref)
	for _, group := range [][]model.Expr{e.Xpr, e.Args, e.List} {
		s += "("
		for _, c := range group {
			s += exprText(c) + ","
		}
		s += ")"
	}
	if e.CastOf != nil {
		s += "cast(" + exprText(*e.CastOf) + ")"
	}
	return s
}

func pathText(steps []model.PathStep) string {
	s := ""
	for _, st := range steps {
		s += st.Name + "."
	}
	return s
}

func foreignKeysText(keys []*model.ForeignKeyRef) string {
	s := ""
	for _, k := range keys {
		s += pathJoin(k.Path) + "->" + pathJoin(k.Ref) + ";"
	}
	return s
}

func pathJoin(parts []string) string {
	s := ""
	for _, p := range parts {
		s += p + "/"
	}
	return s
}

// isLossy implements spec.md §4.6's lossy predicate: a type shrink
// (decrease in length/precision/scale) or any change crossing a
// managed-association boundary.
func isLossy(before, after *model.Element) bool {
	if before.Assoc != nil && after.Assoc != nil {
		beforeManaged := len(before.Assoc.Keys) > 0
		afterManaged := len(after.Assoc.Keys) > 0
		if beforeManaged != afterManaged {
			return true
		}
	}
	if before.Base == nil || after.Base == nil {
		return false
	}
	b, a := before.Base, after.Base
	if a.Length > 0 && b.Length > 0 && a.Length < b.Length {
		return true
	}
	if a.Precision > 0 && b.Precision > 0 && a.Precision < b.Precision {
		return true
	}
	if a.Scale > 0 && b.Scale > 0 && a.Scale < b.Scale {
		return true
	}
	return false
}
