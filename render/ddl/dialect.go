package ddl

import (
	"fmt"
	"strings"

	"github.com/csnlower/csnlower/model"
	"github.com/csnlower/csnlower/naming"
)

// dialect adapts a naming.Policy into the render/expr.Dialect capability
// set, using CDS's own scalar-type vocabulary (not a SQL column type
// vocabulary — that is render/sqlrender's job) for MapType.
type dialect struct {
	pol *naming.Policy
}

func newDialect(pol *naming.Policy) *dialect { return &dialect{pol: pol} }

func (d *dialect) QuoteIdent(name string) string { return d.pol.Quote(name) }

func (d *dialect) MapFunc(name string) string { return strings.ToLower(name) }

func (d *dialect) MagicVar(name string) (string, bool) {
	switch name {
	case "$now":
		return "$now", true
	case "$user.id":
		return "$user.id", true
	case "$user.locale":
		return "$user.locale", true
	case "$at.from":
		return "$at.from", true
	case "$at.to":
		return "$at.to", true
	default:
		return "", false
	}
}

// MapType renders a scalar's CDS type name, the form native object DDL
// declares columns with ("String(111)", "Integer"). Association and
// composition types are written by renderElement, not here.
func (d *dialect) MapType(t *model.ScalarType) string {
	if t == nil {
		return ""
	}
	switch t.Base {
	case "cds.String", "cds.LargeString":
		if t.Length > 0 {
			return fmt.Sprintf("String(%d)", t.Length)
		}
		return "LargeString"
	case "cds.Decimal":
		if t.Precision > 0 {
			return fmt.Sprintf("Decimal(%d, %d)", t.Precision, t.Scale)
		}
		return "Decimal"
	case "cds.Binary":
		if t.Length > 0 {
			return fmt.Sprintf("Binary(%d)", t.Length)
		}
		return "Binary"
	case "cds.Geometry", "cds.Point":
		if t.SRID > 0 {
			return fmt.Sprintf("%s(%d)", strings.TrimPrefix(t.Base, "cds."), t.SRID)
		}
		return strings.TrimPrefix(t.Base, "cds.")
	default:
		return strings.TrimPrefix(t.Base, "cds.")
	}
}
