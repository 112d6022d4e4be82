package ddl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/render/expr"
)

// Render emits the native object DDL backend: one file keyed by the
// schema's fully-qualified name for every top-level artifact (service or
// context), plus one file per emitted referential constraint. It refuses
// to emit if sink already carries an error, matching every other renderer.
func Render(store *model.Store, opts *optsx.Options, pol *naming.Policy, sink *errs.Sink) (map[string]string, error) {
	if sink.HasErrors() {
		return nil, fmt.Errorf("ddl: refusing to emit, the model carries unresolved errors")
	}
	d := newDialect(pol)
	r := expr.New(d)

	byArtifact := groupByArtifact(store)
	reportDuplicates(store, pol, sink)
	if sink.HasErrors() {
		return nil, fmt.Errorf("ddl: refusing to emit, duplicate persistence names under %q naming", opts.SQLMapping)
	}

	out := make(map[string]string)
	for artifact, defs := range byArtifact {
		out[artifact+".hdbcds"] = renderArtifact(store, d, r, pol, artifact, defs)
	}
	for name, text := range renderConstraintFiles(store, d, r, pol) {
		out[name] = text
	}
	return out, nil
}

// groupByArtifact buckets every structural, non-proxy definition by its
// owning schema ($mySchemaName), the unit component D treats as a
// top-level artifact per spec.md §4.4 step 4.
func groupByArtifact(store *model.Store) map[string][]*model.Definition {
	out := make(map[string][]*model.Definition)
	for _, d := range store.All() {
		if !d.Kind.IsStructural() || d.IsProxy {
			continue
		}
		artifact := d.MySchemaName
		if artifact == "" {
			artifact = "root"
		}
		out[artifact] = append(out[artifact], d)
	}
	return out
}

func renderArtifact(store *model.Store, d *dialect, r *expr.Renderer, pol *naming.Policy, artifact string, defs []*model.Definition) string {
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	usings := collectUsings(store, artifact, defs)

	var sb strings.Builder
	fmt.Fprintf(&sb, "namespace %s;\n\n", artifact)
	for _, u := range usings {
		fmt.Fprintf(&sb, "using %s as %s;\n", u.fq, u.alias)
	}
	if len(usings) > 0 {
		sb.WriteString("\n")
	}
	for _, def := range defs {
		renderDefinition(&sb, store, d, r, pol, def, usings)
		sb.WriteString("\n")
	}
	return sb.String()
}

type usingAlias struct {
	fq    string
	alias string
}

// collectUsings scans every element of every definition in this artifact
// for a type reference or association target rooted in a different
// schema, and assigns it a stable local alias (its bare local name,
// disambiguated with a numeric suffix on collision).
func collectUsings(store *model.Store, artifact string, defs []*model.Definition) []usingAlias {
	seen := map[string]string{} // fq -> alias
	aliasOf := map[string]bool{}
	var order []string

	add := func(fq string) {
		if fq == "" || fq == artifact {
			return
		}
		target, ok := store.Get(fq)
		if !ok || target.MySchemaName == artifact || target.MySchemaName == "" {
			return
		}
		if _, ok := seen[fq]; ok {
			return
		}
		local := fq[strings.LastIndex(fq, ".")+1:]
		alias := local
		for n := 2; aliasOf[alias]; n++ {
			alias = fmt.Sprintf("%s_%d", local, n)
		}
		aliasOf[alias] = true
		seen[fq] = alias
		order = append(order, fq)
	}

	for _, def := range defs {
		for _, e := range def.Elements {
			if e.Assoc != nil {
				add(e.Assoc.ResolvedTarget)
			}
			if e.Type != "" {
				add(e.Type)
			}
		}
	}
	sort.Strings(order)
	out := make([]usingAlias, len(order))
	for i, fq := range order {
		out[i] = usingAlias{fq: fq, alias: seen[fq]}
	}
	return out
}

func renderDefinition(sb *strings.Builder, store *model.Store, d *dialect, r *expr.Renderer, pol *naming.Policy, def *model.Definition, usings []usingAlias) {
	kw := "entity"
	if def.Kind == model.KindType || def.Kind == model.KindAspect {
		kw = "type"
	}
	fmt.Fprintf(sb, "%s %s {\n", kw, localName(def.Name, def.MySchemaName))
	if def.Query != nil {
		fmt.Fprintf(sb, "} as %s;\n", indentedQuery(r, def.Query))
		return
	}
	for _, e := range def.Elements {
		renderElement(sb, store, d, r, pol, e, usings, "  ")
	}
	sb.WriteString("};\n")
}

func indentedQuery(r *expr.Renderer, q *model.Query) string {
	return "select from " + r.Query(q)
}

func localName(fq, schema string) string {
	if schema != "" && strings.HasPrefix(fq, schema+".") {
		return strings.TrimPrefix(fq, schema+".")
	}
	return fq
}

func renderElement(sb *strings.Builder, store *model.Store, d *dialect, r *expr.Renderer, pol *naming.Policy, e *model.Element, usings []usingAlias, indent string) {
	if e.Virtual {
		return // virtual elements carry no storage in the native backend
	}
	var typeText string
	switch {
	case e.Assoc != nil:
		verb := "Association"
		if e.Assoc.Composition {
			verb = "Composition"
		}
		typeText = fmt.Sprintf("%s to %s%s", verb, cardinalitySuffix(e.Assoc.Cardinality), aliasedName(e.Assoc.ResolvedTarget, usings))
		if !e.Assoc.On.IsZero() {
			typeText += " on " + r.Expr(e.Assoc.On)
		} else if len(e.Assoc.Keys) > 0 {
			typeText += " { " + foreignKeyList(e.Assoc.Keys) + " }"
		}
	case e.Items != nil:
		typeText = "many " + elementTypeText(d, e.Items, usings)
	case e.IsAnonymousStruct():
		var inner strings.Builder
		inner.WriteString("{\n")
		for _, sub := range e.Elements {
			renderElement(&inner, store, d, r, pol, sub, usings, indent+"  ")
		}
		inner.WriteString(indent + "}")
		typeText = inner.String()
	default:
		typeText = elementTypeText(d, e, usings)
	}

	fmt.Fprintf(sb, "%s%s%s : %s", indent, keyPrefix(e), e.Name, typeText)
	if e.NotNull {
		sb.WriteString(" not null")
	}
	if !e.Default.IsZero() {
		sb.WriteString(" default " + r.Expr(e.Default))
	}
	sb.WriteString(";\n")
}

func keyPrefix(e *model.Element) string {
	if e.Key {
		return "key "
	}
	return ""
}

func cardinalitySuffix(c model.Cardinality) string {
	if c.IsToMany() {
		return "many "
	}
	return ""
}

func elementTypeText(d *dialect, e *model.Element, usings []usingAlias) string {
	if e.Type != "" {
		return aliasedName(e.Type, usings)
	}
	return d.MapType(e.Base)
}

func aliasedName(fq string, usings []usingAlias) string {
	for _, u := range usings {
		if u.fq == fq {
			return u.alias
		}
	}
	return fq
}

func foreignKeyList(keys []*model.ForeignKeyRef) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strings.Join(k.Path, ".")
	}
	return strings.Join(parts, ", ")
}

// reportDuplicates collects definitions whose flattened persistence name
// collides under pol, recording a Duplicate/Error diagnostic for each
// collision per spec.md §4.4 step 5.
func reportDuplicates(store *model.Store, pol *naming.Policy, sink *errs.Sink) {
	byFlat := map[string][]string{}
	for _, d := range store.OfKind(model.KindEntity) {
		if d.IsProxy {
			continue
		}
		flat := pol.FlattenName(d.Name, d.MySchemaName)
		byFlat[flat] = append(byFlat[flat], d.Name)
	}
	var flats []string
	for f := range byFlat {
		flats = append(flats, f)
	}
	sort.Strings(flats)
	for _, f := range flats {
		names := byFlat[f]
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		sink.Error(errs.Duplicate, "dup-persistence-name", strings.Join(names, ", "),
			fmt.Sprintf("definitions %s collide on persistence name %q under the %q naming mode", strings.Join(names, ", "), f, pol.Mode))
	}
}

func renderConstraintFiles(store *model.Store, d *dialect, r *expr.Renderer, pol *naming.Policy) map[string]string {
	out := make(map[string]string)
	for _, def := range store.OfKind(model.KindEntity) {
		if def.IsProxy {
			continue
		}
		for _, e := range def.Elements {
			if e.Assoc == nil || e.Assoc.Constraints == nil {
				continue
			}
			for _, c := range e.Assoc.Constraints.Final {
				fname := fmt.Sprintf("%s.%s.hdbconstraint", pol.FlattenName(def.Name, def.MySchemaName), c.Identifier)
				out[fname] = renderConstraintFile(d, pol, def, e, c)
			}
		}
	}
	return out
}

func renderConstraintFile(d *dialect, pol *naming.Policy, def *model.Definition, e *model.Element, c model.ConstraintCandidate) string {
	depCol := pol.FlattenPath(c.DependentPath)
	refTable := pol.FlattenName(e.Assoc.ResolvedTarget, "")
	refCol := pol.FlattenPath(c.PrincipalPath)
	var sb strings.Builder
	fmt.Fprintf(&sb, "ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		d.QuoteIdent(pol.FlattenName(def.Name, def.MySchemaName)), d.QuoteIdent(c.Identifier), d.QuoteIdent(depCol), d.QuoteIdent(refTable), d.QuoteIdent(refCol))
	if c.OnDelete != "" {
		fmt.Fprintf(&sb, " ON DELETE %s", strings.ToUpper(c.OnDelete))
	}
	sb.WriteString(";\n")
	return sb.String()
}
