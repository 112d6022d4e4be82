package sqlrender

import (
	"fmt"
	"strings"

	"ariga.io/atlas/sql/schema"

	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
	"github.com/csnlower/csnlower/optsx"
)

// dialect adapts a naming.Policy plus an optsx.Dialect selector into the
// render/expr.Dialect capability set the shared expression renderer needs.
type dialect struct {
	kind optsx.Dialect
	pol  *naming.Policy
}

func newDialect(kind optsx.Dialect, pol *naming.Policy) *dialect {
	return &dialect{kind: kind, pol: pol}
}

func (d *dialect) QuoteIdent(name string) string { return d.pol.Quote(name) }

func (d *dialect) MapFunc(name string) string {
	switch strings.ToLower(name) {
	case "count", "sum", "avg", "min", "max", "coalesce":
		return strings.ToUpper(name)
	case "concat":
		if d.kind == optsx.Hana {
			return "CONCAT"
		}
		return "CONCAT" // sqlite lacks a CONCAT function but accepts it via ||; kept textual for readability
	default:
		return strings.ToUpper(name)
	}
}

func (d *dialect) MagicVar(name string) (string, bool) {
	switch name {
	case "$now":
		return "CURRENT_TIMESTAMP", true
	case "$user.id":
		if d.kind == optsx.Hana {
			return "SESSION_CONTEXT('APPLICATIONUSER')", true
		}
		return "CURRENT_USER", true
	default:
		return "", false
	}
}

func (d *dialect) MapType(t *model.ScalarType) string {
	if t == nil {
		return ""
	}
	switch d.kind {
	case optsx.SQLite:
		return sqliteTypeName(t)
	default: // Hana and the generic plain dialect share HANA-flavored names
		return hanaTypeName(t)
	}
}

func hanaTypeName(t *model.ScalarType) string {
	switch t.Base {
	case "cds.UUID":
		return "NVARCHAR(36)"
	case "cds.String", "cds.LargeString":
		if t.Length > 0 {
			return fmt.Sprintf("NVARCHAR(%d)", t.Length)
		}
		return "NVARCHAR(5000)"
	case "cds.Boolean":
		return "BOOLEAN"
	case "cds.Integer":
		return "INTEGER"
	case "cds.Integer64":
		return "BIGINT"
	case "cds.Decimal":
		if t.Precision > 0 {
			return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
		}
		return "DECIMAL"
	case "cds.Double":
		return "DOUBLE"
	case "cds.Date":
		return "DATE"
	case "cds.Time":
		return "TIME"
	case "cds.DateTime", "cds.Timestamp":
		return "TIMESTAMP"
	case "cds.LargeBinary":
		return "BLOB"
	default:
		return "NVARCHAR(5000)"
	}
}

func sqliteTypeName(t *model.ScalarType) string {
	switch t.Base {
	case "cds.Boolean":
		return "BOOLEAN"
	case "cds.Integer", "cds.Integer64":
		return "INTEGER"
	case "cds.Decimal", "cds.Double":
		return "REAL"
	case "cds.LargeBinary":
		return "BLOB"
	default:
		return "TEXT"
	}
}

// atlasType maps a scalar base type onto atlas's cross-dialect Type model,
// the shape ariga.io/atlas/sql/schema.Column.Type.Type carries.
func atlasType(t *model.ScalarType) schema.Type {
	if t == nil {
		return &schema.StringType{T: "string"}
	}
	switch t.Base {
	case "cds.Boolean":
		return &schema.BoolType{T: "boolean"}
	case "cds.Integer":
		return &schema.IntegerType{T: "int"}
	case "cds.Integer64":
		return &schema.IntegerType{T: "bigint"}
	case "cds.Decimal":
		return &schema.DecimalType{T: "decimal", Precision: t.Precision, Scale: t.Scale}
	case "cds.Double":
		return &schema.FloatType{T: "double"}
	case "cds.Date", "cds.Time", "cds.DateTime", "cds.Timestamp":
		return &schema.TimeType{T: "timestamp"}
	case "cds.LargeBinary":
		return &schema.BinaryType{T: "blob"}
	default:
		size := t.Length
		if size == 0 {
			size = 5000
		}
		return &schema.StringType{T: "string", Size: size}
	}
}
