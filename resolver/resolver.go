package resolver

import (
	"fmt"
	"strings"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
)

// Scope classifies what a resolved ref path is relative to.
type Scope int

const (
	ScopeRelative Scope = iota
	ScopeSelf
	ScopeParam
	ScopeGlobal
)

// Link is one resolved hop of a path.
type Link struct {
	Name       string
	Element    *model.Element    // nil for the synthetic leading global-prefix hop ($self adds no hop)
	Definition *model.Definition // the definition this hop lands in, if it crosses an association or a global prefix
	IsAssoc    bool
}

// Resolution is the result of walking a ref path against the store.
type Resolution struct {
	Scope Scope
	Links []Link
	// Final is the element the path denotes, or nil if the path resolves
	// to a bare definition/scope ($self with no further steps, or a global
	// path that names only a definition).
	Final *model.Element
}

type frame struct {
	def      *model.Definition
	elements []*model.Element
}

// Resolve walks a ref-kind expression's path against the store, starting
// from the definition that contains the expression (e.g. the entity an
// on-condition or query column belongs to).
func Resolve(store *model.Store, from *model.Definition, ref model.Expr) (*Resolution, error) {
	if ref.Kind != model.ExprRef {
		return nil, fmt.Errorf("resolver: not a ref expression")
	}
	steps := ref.Ref
	if len(steps) == 0 {
		return nil, fmt.Errorf("resolver: empty ref path")
	}

	res := &Resolution{}
	cur := frame{def: from, elements: from.Elements}

	switch {
	case ref.IsParam:
		res.Scope = ScopeParam
	case steps[0].Name == "$self":
		res.Scope = ScopeSelf
		steps = steps[1:]
	case ref.IsGlobal:
		res.Scope = ScopeGlobal
		names := model.PathStrings(steps)
		def, consumed, ok := resolveGlobalPrefix(store, names)
		if !ok {
			return res, fmt.Errorf("resolver: global path %q does not resolve to a known definition", strings.Join(names, "."))
		}
		res.Links = append(res.Links, Link{Name: strings.Join(names[:consumed], "."), Definition: def})
		cur = frame{def: def, elements: def.Elements}
		steps = steps[consumed:]
	default:
		res.Scope = ScopeRelative
	}

	var lastEl *model.Element
	for _, step := range steps {
		if cur.elements == nil {
			return res, fmt.Errorf("resolver: path continues past %q, which has no further elements", step.Name)
		}
		el := findElement(cur.elements, step.Name)
		if el == nil {
			path := "<root>"
			if cur.def != nil {
				path = cur.def.Name
			}
			return res, fmt.Errorf("resolver: %s has no element %q", path, step.Name)
		}
		link := Link{Name: step.Name, Element: el}
		switch {
		case el.IsAssoc():
			link.IsAssoc = true
			target := ResolveTarget(store, el.Assoc)
			link.Definition = target
			if target != nil {
				cur = frame{def: target, elements: target.Elements}
			} else {
				cur = frame{}
			}
		case len(el.Elements) > 0:
			cur = frame{def: cur.def, elements: el.Elements}
		default:
			cur = frame{}
		}
		lastEl = el
		res.Links = append(res.Links, link)
	}
	res.Final = lastEl
	return res, nil
}

func findElement(elements []*model.Element, name string) *model.Element {
	for _, e := range elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// resolveGlobalPrefix finds the longest dotted prefix of names that names
// a known definition, the same longest-prefix-match idiom pass 1 uses for
// service discovery.
func resolveGlobalPrefix(store *model.Store, names []string) (def *model.Definition, consumed int, ok bool) {
	for n := len(names); n >= 1; n-- {
		candidate := strings.Join(names[:n], ".")
		if d, found := store.Get(candidate); found {
			return d, n, true
		}
	}
	return nil, 0, false
}

// ResolveTarget returns the association's resolved target definition,
// preferring the pass-5-installed ResolvedTarget and falling back to the
// raw Target name (useful before pass 5 has run).
func ResolveTarget(store *model.Store, assoc *model.Association) *model.Definition {
	name := assoc.ResolvedTarget
	if name == "" {
		name = assoc.Target
	}
	d, _ := store.Get(name)
	return d
}

// assocSpellings are the wire "type" values that denote an association or
// composition element, long and short form.
var assocSpellings = map[string]bool{
	"cds.Association": true, "Association": true,
	"cds.Composition": true, "Composition": true,
}

// IsAssocType reports whether t is any accepted spelling of the
// association/composition type discriminator.
func IsAssocType(t string) bool {
	return assocSpellings[t]
}

// isShortForm reports whether t is the unqualified spelling ("Association"
// or "Composition" without the "cds." namespace prefix).
func isShortForm(t string) bool {
	return t == "Association" || t == "Composition"
}

// CheckAssociationSpelling records an info diagnostic when an association
// element declared its type using the short-form spelling, resolving
// spec.md §9 Open Question 1: both spellings are accepted and neither is
// rewritten, but the short form is flagged for visibility.
func CheckAssociationSpelling(sink *errs.Sink, path string, el *model.Element) {
	if el == nil || el.Assoc == nil || el.Assoc.DeclaredType == "" {
		return
	}
	if isShortForm(el.Assoc.DeclaredType) {
		sink.Info(errs.SpecViolation, "short-form-assoc-type", path,
			fmt.Sprintf("uses short-form type %q instead of %q; both are accepted", el.Assoc.DeclaredType, "cds."+el.Assoc.DeclaredType))
	}
}
