package sqlrender

import (
	"fmt"
	"sort"
	"strings"

	"ariga.io/atlas/sql/schema"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
	"github.com/csnlower/csnlower/render/expr"
)

// Render lowers store into one or more CREATE TABLE/VIEW statements for
// the dialect named by opts.Dialect. It refuses to emit if sink already
// carries an error, per the error-propagation rule every renderer shares.
func Render(store *model.Store, opts *optsx.Options, pol *naming.Policy, sink *errs.Sink) (string, error) {
	if sink.HasErrors() {
		return "", fmt.Errorf("sqlrender: refusing to emit, the model carries unresolved errors")
	}
	d := newDialect(opts.Dialect, pol)
	r := expr.New(d)

	sch := BuildSchema(store, pol)
	sort.Slice(sch.Tables, func(i, j int) bool { return sch.Tables[i].Name < sch.Tables[j].Name })

	var sb strings.Builder
	for _, t := range sch.Tables {
		sb.WriteString(createTable(d, t))
		sb.WriteString(";\n")
	}
	for _, name := range store.Names() {
		v, _ := store.Get(name)
		if v.Kind != model.KindEntity || v.Query == nil {
			continue
		}
		sb.WriteString(createView(d, r, pol, v))
		sb.WriteString(";\n")
	}
	return sb.String(), nil
}

func createTable(d *dialect, t *schema.Table) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(d.QuoteIdent(t.Name))
	sb.WriteString(" (\n")

	var lines []string
	for _, c := range t.Columns {
		line := "  " + d.QuoteIdent(c.Name) + " " + typeText(d, c)
		if !c.Type.Null {
			line += " NOT NULL"
		}
		lines = append(lines, line)
	}
	if t.PrimaryKey != nil && len(t.PrimaryKey.Parts) > 0 {
		names := make([]string, len(t.PrimaryKey.Parts))
		for i, p := range t.PrimaryKey.Parts {
			names[i] = d.QuoteIdent(p.C.Name)
		}
		lines = append(lines, "  PRIMARY KEY ("+strings.Join(names, ", ")+")")
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, "  "+foreignKeyClause(d, fk))
	}
	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n)")
	return sb.String()
}

func typeText(d *dialect, c *schema.Column) string {
	switch t := c.Type.Type.(type) {
	case *schema.StringType:
		return d.MapType(&model.ScalarType{Base: "cds.String", Length: t.Size})
	case *schema.IntegerType:
		if t.T == "bigint" {
			return d.MapType(&model.ScalarType{Base: "cds.Integer64"})
		}
		return d.MapType(&model.ScalarType{Base: "cds.Integer"})
	case *schema.DecimalType:
		return d.MapType(&model.ScalarType{Base: "cds.Decimal", Precision: t.Precision, Scale: t.Scale})
	case *schema.FloatType:
		return d.MapType(&model.ScalarType{Base: "cds.Double"})
	case *schema.BoolType:
		return d.MapType(&model.ScalarType{Base: "cds.Boolean"})
	case *schema.TimeType:
		return d.MapType(&model.ScalarType{Base: "cds.Timestamp"})
	case *schema.BinaryType:
		return d.MapType(&model.ScalarType{Base: "cds.LargeBinary"})
	default:
		return d.MapType(&model.ScalarType{Base: "cds.String"})
	}
}

func foreignKeyClause(d *dialect, fk *schema.ForeignKey) string {
	cols := make([]string, len(fk.Columns))
	for i, c := range fk.Columns {
		cols[i] = d.QuoteIdent(c.Name)
	}
	refCols := make([]string, len(fk.RefColumns))
	for i, c := range fk.RefColumns {
		refCols[i] = d.QuoteIdent(c.Name)
	}
	clause := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		d.QuoteIdent(fk.Symbol), strings.Join(cols, ", "), d.QuoteIdent(fk.RefTable.Name), strings.Join(refCols, ", "))
	if fk.OnDelete != "" && fk.OnDelete != schema.NoAction {
		clause += " ON DELETE " + string(fk.OnDelete)
	}
	if fk.OnUpdate != "" && fk.OnUpdate != schema.NoAction {
		clause += " ON UPDATE " + string(fk.OnUpdate)
	}
	return clause
}

func createView(d *dialect, r *expr.Renderer, pol *naming.Policy, v *model.Definition) string {
	return "CREATE VIEW " + d.QuoteIdent(pol.FlattenName(v.Name, v.MySchemaName)) + " AS " + r.Query(v.Query)
}
