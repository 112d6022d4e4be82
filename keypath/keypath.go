package keypath

import (
	"strings"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
)

// maxDepth bounds the navigation-target-path walk against cyclic
// association graphs (self-referencing entities, mutual backlinks) that
// the $touched guard alone would still let run for a very long time on a
// deep, non-repeating chain.
const maxDepth = 6

// TargetPaths installs $edmTgtPaths (pass 15): for every entity with an
// entity set, depth-first walk its elements, and whenever an association
// crosses into a target that has no entity set of its own and is not a
// to-container, push the traversed prefix into the target's own
// $edmTgtPaths and recurse into the target. A per-walk $touched set of
// visited entity names guards against feeding an association cycle back
// into the recursion forever.
func TargetPaths(store *model.Store) {
	for _, d := range store.OfKind(model.KindEntity) {
		d.EdmTgtPaths = nil
	}
	for _, d := range store.OfKind(model.KindEntity) {
		if !d.HasEntitySet {
			continue
		}
		walkTargetPaths(store, d, nil, map[string]bool{d.Name: true}, 0)
	}
}

func walkTargetPaths(store *model.Store, cur *model.Definition, prefix []string, touched map[string]bool, depth int) {
	if depth >= maxDepth {
		return
	}
	for _, e := range cur.Elements {
		if e.Assoc == nil || e.Assoc.ResolvedTarget == "" {
			continue
		}
		target, ok := store.Get(e.Assoc.ResolvedTarget)
		if !ok || target.HasEntitySet || e.IsToContainer {
			continue
		}
		path := append(append([]string{}, prefix...), e.Name)
		target.EdmTgtPaths = appendPathUnique(target.EdmTgtPaths, path)
		if touched[target.Name] {
			continue
		}
		next := make(map[string]bool, len(touched)+1)
		for k := range touched {
			next[k] = true
		}
		next[target.Name] = true
		walkTargetPaths(store, target, path, next, depth+1)
	}
}

func appendPathUnique(paths [][]string, p []string) [][]string {
	joined := strings.Join(p, "/")
	for _, existing := range paths {
		if strings.Join(existing, "/") == joined {
			return paths
		}
	}
	return append(paths, p)
}

// NavPropBindings installs $edmNPBs (pass 16): for every entity with an
// entity set, derive a {Path, Target} binding for every outgoing
// association:
//   - a to-many association whose target is an @odata.singleton emits no
//     binding at all — a singleton is never addressed through a set.
//   - else, if the target has no entity set of its own but collected
//     target paths during pass 15, bind through the collected path whose
//     first segment matches this entity's own local name, falling back to
//     the first collected path when none matches.
//   - else, if the target has its own entity set, bind to its entity set
//     name, qualified with the target's schema when that differs from
//     this entity's own.
func NavPropBindings(store *model.Store) {
	for _, d := range store.OfKind(model.KindEntity) {
		d.EdmNPBs = nil
	}
	for _, d := range store.OfKind(model.KindEntity) {
		if !d.HasEntitySet {
			continue
		}
		for _, e := range d.Elements {
			if e.Assoc == nil || e.Assoc.ResolvedTarget == "" {
				continue
			}
			target, ok := store.Get(e.Assoc.ResolvedTarget)
			if !ok {
				continue
			}
			if npb, ok := bindNavProperty(d, e, target); ok {
				d.EdmNPBs = append(d.EdmNPBs, npb)
			}
		}
	}
}

func bindNavProperty(d *model.Definition, e *model.Element, target *model.Definition) (model.NavPropBinding, bool) {
	if e.Assoc.Cardinality.IsToMany() && target.Annotations.Has("@odata.singleton") {
		return model.NavPropBinding{}, false
	}
	if !target.HasEntitySet && len(target.EdmTgtPaths) > 0 {
		chosen := target.EdmTgtPaths[0]
		base := localPart(d.Name)
		for _, p := range target.EdmTgtPaths {
			if len(p) > 0 && p[0] == base {
				chosen = p
				break
			}
		}
		return model.NavPropBinding{Path: e.Name, Target: strings.Join(chosen, "/")}, true
	}
	if target.HasEntitySet {
		return model.NavPropBinding{Path: e.Name, Target: entitySetTarget(d, target)}, true
	}
	return model.NavPropBinding{}, false
}

func entitySetTarget(d, target *model.Definition) string {
	name := entitySetName(target)
	if target.MySchemaName != "" && target.MySchemaName != d.MySchemaName {
		return target.MySchemaName + "." + name
	}
	return name
}

func entitySetName(d *model.Definition) string {
	if v, ok := d.Annotations.Get("@cds.odata.plural"); ok && v.Kind == model.AVString {
		return v.String
	}
	return naming.Pluralize(localPart(d.Name))
}

func localPart(fq string) string {
	if i := strings.LastIndex(fq, "."); i >= 0 {
		return fq[i+1:]
	}
	return fq
}

// KeyPaths installs $edmKeyPaths (pass 17): for every entity with an
// entity set, expand its $keys into flattened, renderable reference
// paths — flattening a structured key element into its scalar leaves (the
// owner's key/notNull contribution carries down, the same way the SQL
// renderer flattens struct-valued elements), expanding a managed
// association key through its foreign-key vector, refusing to traverse an
// unmanaged association (it realizes no column of its own a path could
// reference), and dropping any leaf that fails the v4 key whitelist
// (scalar, not an array-of, a builtin Edm primitive, guaranteed
// non-nullable).
func KeyPaths(store *model.Store, sink *errs.Sink) {
	for _, d := range store.OfKind(model.KindEntity) {
		if !d.HasEntitySet {
			d.EdmKeyPaths = nil
			continue
		}
		var paths [][]string
		for _, name := range d.Keys {
			e, ok := d.ElementByName(name)
			if !ok {
				continue
			}
			paths = append(paths, expandKeyPath(store, sink, d.Name, e, nil, false)...)
		}
		d.EdmKeyPaths = paths
	}
}

func expandKeyPath(store *model.Store, sink *errs.Sink, ownerName string, e *model.Element, prefix []string, notNull bool) [][]string {
	path := append(append([]string{}, prefix...), e.Name)
	notNull = notNull || e.Key || e.NotNull
	label := ownerName + "." + strings.Join(path, ".")

	if e.Assoc != nil {
		if len(e.Assoc.Keys) == 0 {
			sink.Warning(errs.SpecViolation, "key-path-unmanaged-assoc", label, "a key element cannot traverse an unmanaged association; excluded from $edmKeyPaths")
			return nil
		}
		out := make([][]string, 0, len(e.Assoc.Keys))
		for _, fk := range e.Assoc.Keys {
			out = append(out, append(append([]string{}, path...), fk.Path...))
		}
		return out
	}
	if e.Items != nil {
		sink.Warning(errs.SpecViolation, "key-path-array", label, "an array-of element cannot appear in a key path")
		return nil
	}
	if children, ok := keyStructChildren(store, e); ok {
		var out [][]string
		for _, c := range children {
			out = append(out, expandKeyPath(store, sink, ownerName, c, path, notNull)...)
		}
		return out
	}
	if !notNull {
		sink.Warning(errs.SpecViolation, "key-path-nullable", label, "key path element is not guaranteed non-nullable")
		return nil
	}
	if e.Base == nil || !isEdmKeyWhitelisted(e.Base.Base) {
		sink.Warning(errs.SpecViolation, "key-path-not-whitelisted", label, "key path element's type is outside the v4 key whitelist")
		return nil
	}
	return [][]string{path}
}

// keyStructChildren mirrors render/sqlrender's own struct resolution: an
// anonymous nested struct expands to its own elements, and a reference to
// a named structured type expands to that type's elements.
func keyStructChildren(store *model.Store, e *model.Element) ([]*model.Element, bool) {
	if e.Assoc != nil || e.Items != nil {
		return nil, false
	}
	if len(e.Elements) > 0 {
		return e.Elements, true
	}
	if e.Type != "" {
		if td, ok := store.Get(e.Type); ok && td.IsStruct && len(td.Elements) > 0 {
			return td.Elements, true
		}
	}
	return nil, false
}

// edmKeyWhitelist is the closed set of Edm primitives a v4 key-path leaf
// may carry, the same mapping render/protocol uses to pick a property's
// Edm type for a builtin scalar.
var edmKeyWhitelist = map[string]bool{
	"cds.String":      true,
	"cds.LargeString": true,
	"cds.Boolean":     true,
	"cds.Integer":     true,
	"cds.Integer16":   true,
	"cds.Integer64":   true,
	"cds.Decimal":     true,
	"cds.Double":      true,
	"cds.Date":        true,
	"cds.Time":        true,
	"cds.DateTime":    true,
	"cds.Timestamp":   true,
	"cds.UUID":        true,
}

func isEdmKeyWhitelisted(base string) bool {
	return edmKeyWhitelist[base]
}
