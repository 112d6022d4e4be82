package sqlrender

import (
	"ariga.io/atlas/sql/schema"

	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
)

// BuildSchema lowers every persisted, non-proxy entity into an
// ariga.io/atlas/sql/schema.Table, wired together with foreign keys drawn
// from the constraint engine's final candidate set.
func BuildSchema(store *model.Store, pol *naming.Policy) *schema.Schema {
	sch := &schema.Schema{}
	tables := map[string]*schema.Table{}
	columns := map[string]*schema.Column{} // "table.column" -> *Column

	for _, d := range store.OfKind(model.KindEntity) {
		if d.Query != nil || d.IsProxy {
			continue
		}
		t := buildTable(store, d, pol)
		tables[d.Name] = t
		for _, c := range t.Columns {
			columns[d.Name+"."+c.Name] = c
		}
		sch.Tables = append(sch.Tables, t)
	}

	for _, d := range store.OfKind(model.KindEntity) {
		t, ok := tables[d.Name]
		if !ok {
			continue
		}
		wireForeignKeys(store, pol, d, t, tables, columns)
	}
	return sch
}

func buildTable(store *model.Store, d *model.Definition, pol *naming.Policy) *schema.Table {
	t := &schema.Table{Name: pol.FlattenName(d.Name, d.MySchemaName)}
	var pkParts []*schema.IndexPart
	for _, e := range d.Elements {
		if e.Assoc != nil && len(e.Assoc.Keys) == 0 {
			continue // unmanaged association: no column of its own, only a constraint
		}
		if e.Assoc != nil {
			addManagedAssocColumns(t, pol, e, &pkParts)
			continue
		}
		if e.Items != nil {
			continue // array-of element: no scalar column of its own
		}
		addStructColumns(store, t, pol, e, nil, e.Key, e.NotNull, &pkParts)
	}
	if len(pkParts) > 0 {
		t.PrimaryKey = &schema.Index{Name: "PK_" + t.Name, Unique: true, Table: t, Parts: pkParts}
	}
	return t
}

// addStructColumns appends one column per scalar leaf reachable from e,
// descending through both anonymous nested structs (e.Elements) and
// references to a separately-declared named structured type (e.Type,
// resolved against store). key/notNull accumulate down from every struct
// ancestor, so a struct-valued key element still produces key columns for
// each of its leaves, and a leaf's own annotations/facets are unaffected
// by the resolution — only the column name and nullability pick up the
// ancestor's contribution.
func addStructColumns(store *model.Store, t *schema.Table, pol *naming.Policy, e *model.Element, prefix []string, key, notNull bool, pkParts *[]*schema.IndexPart) {
	path := append(append([]string{}, prefix...), e.Name)
	if children, ok := structChildren(store, e); ok {
		for _, c := range children {
			addStructColumns(store, t, pol, c, path, key || e.Key, notNull || e.NotNull, pkParts)
		}
		return
	}
	if e.Base == nil {
		return
	}
	name := columnName(e, pol, path)
	key = key || e.Key
	notNull = notNull || e.NotNull
	col := &schema.Column{
		Name: name,
		Type: &schema.ColumnType{Type: atlasType(e.Base), Null: !key && !notNull},
	}
	t.Columns = append(t.Columns, col)
	if key {
		*pkParts = append(*pkParts, &schema.IndexPart{SeqNo: len(*pkParts), C: col})
	}
}

// structChildren resolves the element list e should expand into: its own
// anonymous nested elements, or, for a reference to a named structured
// type, that type's own elements. Associations and array-of elements are
// never struct-expanded here.
func structChildren(store *model.Store, e *model.Element) ([]*model.Element, bool) {
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

func addManagedAssocColumns(t *schema.Table, pol *naming.Policy, e *model.Element, pkParts *[]*schema.IndexPart) {
	for _, fk := range e.Assoc.Keys {
		path := append([]string{e.Name}, fk.Path...)
		col := &schema.Column{
			Name: pol.FlattenPath(path),
			Type: &schema.ColumnType{Type: &schema.StringType{T: "string", Size: 36}, Null: !e.Key},
		}
		t.Columns = append(t.Columns, col)
		if e.Key {
			*pkParts = append(*pkParts, &schema.IndexPart{SeqNo: len(*pkParts), C: col})
		}
	}
}

func columnName(e *model.Element, pol *naming.Policy, path []string) string {
	if e.GeneratedFieldName != "" {
		return e.GeneratedFieldName
	}
	return pol.FlattenPath(path)
}

func wireForeignKeys(store *model.Store, pol *naming.Policy, d *model.Definition, t *schema.Table, tables map[string]*schema.Table, columns map[string]*schema.Column) {
	for _, e := range d.Elements {
		if e.Assoc == nil || e.Assoc.Constraints == nil {
			continue
		}
		refTable, ok := tables[e.Assoc.ResolvedTarget]
		if !ok {
			continue
		}
		for _, c := range e.Assoc.Constraints.Final {
			depCol, ok1 := columns[d.Name+"."+pol.FlattenPath(c.DependentPath)]
			refCol, ok2 := columns[e.Assoc.ResolvedTarget+"."+pol.FlattenPath(c.PrincipalPath)]
			if !ok1 || !ok2 {
				continue
			}
			fk := &schema.ForeignKey{
				Symbol:     c.Identifier,
				Table:      t,
				Columns:    []*schema.Column{depCol},
				RefTable:   refTable,
				RefColumns: []*schema.Column{refCol},
				OnUpdate:   refOption(c.OnUpdate),
				OnDelete:   refOption(c.OnDelete),
			}
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
	}
}

func refOption(s string) schema.ReferenceOption {
	switch s {
	case "cascade":
		return schema.Cascade
	case "restrict":
		return schema.Restrict
	case "set null":
		return schema.SetNull
	case "set default":
		return schema.SetDefault
	default:
		return schema.NoAction
	}
}
