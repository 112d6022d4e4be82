package expr

import (
	"fmt"

	"github.com/csnlower/csnlower/model"
)

// Dialect is the small capability set a concrete SQL/DDL dialect plugs
// into the shared renderer: how to quote an identifier, how a function
// name maps onto the target's own vocabulary, and how a magic variable
// ($user, $now, $at) expands into that target's own expression text.
type Dialect interface {
	QuoteIdent(name string) string
	MapFunc(name string) string
	MagicVar(name string) (string, bool)
	MapType(t *model.ScalarType) string
}

// Plain is a no-op Dialect useful for tests; it does no function-name
// translation. The DDL renderer uses its own dialect, not Plain.
type Plain struct {
	Quote func(string) string
}

func (p Plain) QuoteIdent(name string) string {
	if p.Quote != nil {
		return p.Quote(name)
	}
	return name
}

func (p Plain) MapFunc(name string) string { return name }

func (p Plain) MagicVar(name string) (string, bool) {
	switch name {
	case "$now":
		return "CURRENT_TIMESTAMP", true
	case "$user.id":
		return "SESSION_USER", true
	default:
		return "", false
	}
}

// MapType renders a generic, dialect-independent SQL type name; concrete
// dialects (hana/sqlite, see render/sqlrender) override this with their
// own vocabulary.
func (p Plain) MapType(t *model.ScalarType) string {
	if t == nil {
		return ""
	}
	switch t.Base {
	case "cds.String":
		if t.Length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", t.Length)
		}
		return "VARCHAR"
	case "cds.Decimal":
		if t.Precision > 0 {
			return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
		}
		return "DECIMAL"
	default:
		return t.Base
	}
}
