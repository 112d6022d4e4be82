package sqlrender

import (
	"fmt"
	"strings"

	"github.com/csnlower/csnlower/differ"
	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
)

// Migrate turns a differ.Plan into dialect-specific ALTER TABLE text
// (spec.md §4.6: "the SQL renderer turns the plan into dialect-specific
// ALTER TABLE statements"). Lossy changes become a drop+add pair when
// opts.SQLChangeMode is ChangeDrop, and a plain ALTER COLUMN otherwise —
// the caller accepted the risk by choosing "alter" for a lossy change.
func Migrate(plan *differ.Plan, opts *optsx.Options, pol *naming.Policy, sink *errs.Sink) (string, error) {
	if sink.HasErrors() {
		return "", fmt.Errorf("sqlrender: refusing to emit, the model carries unresolved errors")
	}
	d := newDialect(opts.Dialect, pol)

	var sb strings.Builder
	for _, ec := range plan.Entities {
		table := pol.FlattenName(ec.Name, ec.MySchemaName)
		switch ec.Kind {
		case differ.Added:
			sink.Info(errs.Internal, "migrate-added-entity", ec.Name, "new entity requires a CREATE TABLE, not an ALTER; emit via Render for the target schema")
			continue
		case differ.Dropped:
			fmt.Fprintf(&sb, "DROP TABLE %s;\n", d.QuoteIdent(table))
			continue
		}
		for _, change := range ec.Elements {
			writeColumnChange(&sb, d, opts, table, change)
		}
	}
	return sb.String(), nil
}

func writeColumnChange(sb *strings.Builder, d *dialect, opts *optsx.Options, table string, c differ.ElementChange) {
	switch c.Kind {
	case differ.Added:
		fmt.Fprintf(sb, "ALTER TABLE %s ADD COLUMN %s %s;\n", d.QuoteIdent(table), d.QuoteIdent(c.After.Name), typeTextFor(d, c.After))
	case differ.Dropped:
		fmt.Fprintf(sb, "ALTER TABLE %s DROP COLUMN %s;\n", d.QuoteIdent(table), d.QuoteIdent(c.Before.Name))
	case differ.Modified:
		if c.Lossy && opts.SQLChangeMode == optsx.ChangeDrop {
			fmt.Fprintf(sb, "ALTER TABLE %s DROP COLUMN %s;\n", d.QuoteIdent(table), d.QuoteIdent(c.Before.Name))
			fmt.Fprintf(sb, "ALTER TABLE %s ADD COLUMN %s %s;\n", d.QuoteIdent(table), d.QuoteIdent(c.After.Name), typeTextFor(d, c.After))
			return
		}
		fmt.Fprintf(sb, "ALTER TABLE %s ALTER COLUMN %s %s;\n", d.QuoteIdent(table), d.QuoteIdent(c.After.Name), typeTextFor(d, c.After))
	}
}

func typeTextFor(d *dialect, e *model.Element) string {
	if e.Base != nil {
		return d.MapType(e.Base)
	}
	return d.MapType(&model.ScalarType{Base: "cds.String"})
}
