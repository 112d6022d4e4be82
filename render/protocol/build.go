package protocol

import (
	"sort"
	"strings"

	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
)

// BuildAll builds one Schema per service definition in store, keyed by the
// service's fully-qualified name — the unit spec.md §6 calls "one file per
// service" for XML and "one document per service" for JSON.
func BuildAll(store *model.Store, opts *optsx.Options) map[string]*Schema {
	out := make(map[string]*Schema)
	for _, svc := range store.OfKind(model.KindService) {
		out[svc.Name] = Build(store, opts, svc)
	}
	return out
}

// Build lowers every definition owned by svc into one Schema.
func Build(store *model.Store, opts *optsx.Options, svc *model.Definition) *Schema {
	if svc.XServiceRef != nil {
		return &Schema{Namespace: svc.Name, XServiceRef: &SchemaRef{Uri: svc.XServiceRef.Uri, Namespace: svc.XServiceRef.Namespace}}
	}

	sch := &Schema{Namespace: svc.Name, Container: &EntityContainer{Name: naming.Singularize(localPart(svc.Name)) + "Container"}}

	for _, d := range membersOf(store, svc.Name) {
		switch {
		case d.Kind.IsStructural() && !d.IsStruct:
			sch.ComplexTypes = append(sch.ComplexTypes, buildScalarAsComplex(d))
		case d.Kind == model.KindEntity || d.Kind == model.KindAspect || (d.Kind == model.KindType && d.IsStruct):
			et := buildEntityType(store, opts, d)
			if d.Kind == model.KindEntity && (d.HasEntitySet || hasAnyKey(d)) {
				sch.EntityTypes = append(sch.EntityTypes, et)
			} else {
				sch.ComplexTypes = append(sch.ComplexTypes, complexFromEntity(et))
			}
		case d.Kind == model.KindAction, d.Kind == model.KindFunction:
			sch.Actions = append(sch.Actions, buildOperation(d))
		}
		if d.Kind == model.KindEntity && d.HasEntitySet {
			sch.Container.EntitySets = append(sch.Container.EntitySets, buildEntitySet(d))
		} else if d.Kind == model.KindEntity && d.Annotations.Has("@odata.singleton") {
			sch.Container.Singletons = append(sch.Container.Singletons, buildSingleton(d))
		}
	}

	sort.Slice(sch.EntityTypes, func(i, j int) bool { return sch.EntityTypes[i].Name < sch.EntityTypes[j].Name })
	sort.Slice(sch.ComplexTypes, func(i, j int) bool { return sch.ComplexTypes[i].Name < sch.ComplexTypes[j].Name })
	sort.Slice(sch.Container.EntitySets, func(i, j int) bool { return sch.Container.EntitySets[i].Name < sch.Container.EntitySets[j].Name })
	return sch
}

func hasAnyKey(d *model.Definition) bool {
	for _, e := range d.Elements {
		if e.Key {
			return true
		}
	}
	return false
}

// membersOf returns every definition whose $mySchemaName is exactly
// svcName, sorted by name for deterministic output (spec.md §5).
func membersOf(store *model.Store, svcName string) []*model.Definition {
	var out []*model.Definition
	for _, d := range store.All() {
		if d.MySchemaName == svcName && d.Name != svcName {
			out = append(out, d)
		}
	}
	return out
}

func localPart(fq string) string {
	if i := strings.LastIndex(fq, "."); i >= 0 {
		return fq[i+1:]
	}
	return fq
}

func buildEntityType(store *model.Store, opts *optsx.Options, d *model.Definition) *EntityType {
	et := &EntityType{Name: d.Name}
	for _, kp := range d.EdmKeyPaths {
		et.Keys = append(et.Keys, strings.Join(kp, "/"))
	}
	for _, e := range d.Elements {
		if e.Hidden {
			continue
		}
		switch {
		case e.Assoc != nil:
			if np := buildNavProperty(store, e); np != nil {
				et.NavigationProperties = append(et.NavigationProperties, np)
			}
		case e.IsAnonymousStruct():
			et.Properties = append(et.Properties, structProperty(e))
		case e.IsArray():
			et.Properties = append(et.Properties, collectionProperty(e))
		default:
			et.Properties = append(et.Properties, propertyFromScalar(e))
		}
	}
	return et
}

func complexFromEntity(et *EntityType) *ComplexType {
	return &ComplexType{Name: et.Name, Properties: et.Properties}
}

func buildScalarAsComplex(d *model.Definition) *ComplexType {
	return &ComplexType{Name: d.Name, Properties: []*Property{{Name: "value", Type: firstOr(d.Base, "Edm.String"), Nullable: true}}}
}

func firstOr(t *model.ScalarType, fallback string) string {
	if t == nil {
		return fallback
	}
	if v, ok := edmPrimitive(t.Base); ok {
		return v
	}
	return fallback
}

func structProperty(e *model.Element) *Property {
	// Anonymous nested structs render as a synthetic complex-typed
	// property named after the containing element; the complex type
	// itself is emitted once, keyed by the element's fully-qualified
	// path, by the caller that owns the enclosing schema's ComplexTypes
	// slice in the flat-format renderers (render/sqlrender, render/ddl).
	// In structured v4 it is legal CSDL to inline an anonymous type only
	// via a named ComplexType reference, so we name it deterministically.
	return &Property{Name: e.Name, Type: e.Name + "Type", Nullable: !e.Key && !e.NotNull}
}

func collectionProperty(e *model.Element) *Property {
	inner := propertyFromScalar(e.Items)
	return &Property{Name: e.Name, Type: "Collection(" + inner.Type + ")", Nullable: true}
}

func buildNavProperty(store *model.Store, e *model.Element) *NavigationProperty {
	if navigable, ok := e.Annotations.Get("@odata.navigable"); ok && navigable.Kind == model.AVBool && !navigable.Bool {
		return nil
	}
	target := e.Assoc.ResolvedTarget
	if target == "" {
		return nil
	}
	typeName := target
	if e.Assoc.Cardinality.IsToMany() {
		typeName = "Collection(" + target + ")"
	}
	np := &NavigationProperty{
		Name:           e.Name,
		Type:           typeName,
		Nullable:       e.Assoc.Cardinality.Min == 0,
		ContainsTarget: e.Assoc.Contained,
		Navigable:      true,
	}
	for _, back := range e.Assoc.SelfReferences {
		np.Partner = back
		break
	}
	return np
}

func buildOperation(d *model.Definition) *Operation {
	op := &Operation{Name: d.Name, IsFunction: d.Kind == model.KindFunction}
	for _, p := range d.Params {
		prop := &Property{Name: p.Name, Nullable: true}
		if p.Type != nil {
			prop.Type, _ = edmPrimitive(p.Type.Base)
			if prop.Type == "" {
				prop.Type = "Edm.String"
			}
		}
		op.Parameters = append(op.Parameters, prop)
	}
	if d.Returns != nil {
		op.ReturnType, _ = edmPrimitive(d.Returns.Base)
	}
	return op
}

func buildEntitySet(d *model.Definition) *EntitySet {
	es := &EntitySet{Name: setName(d), EntityType: d.Name}
	for _, npb := range d.EdmNPBs {
		es.NavigationPropertyBindings = append(es.NavigationPropertyBindings, NavigationPropertyBinding{Path: npb.Path, Target: npb.Target})
	}
	return es
}

func buildSingleton(d *model.Definition) *Singleton {
	s := &Singleton{Name: localPart(d.Name), EntityType: d.Name}
	for _, npb := range d.EdmNPBs {
		s.NavigationPropertyBindings = append(s.NavigationPropertyBindings, NavigationPropertyBinding{Path: npb.Path, Target: npb.Target})
	}
	return s
}

// setName derives an entity set's default display name: the pluralized
// local name, unless a string-valued @cds.odata.plural annotation
// overrides it.
func setName(d *model.Definition) string {
	if v, ok := d.Annotations.Get("@cds.odata.plural"); ok && v.Kind == model.AVString {
		return v.String
	}
	return naming.Pluralize(localPart(d.Name))
}
