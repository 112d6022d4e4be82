package naming

import (
	"strings"
	"unicode"

	"github.com/csnlower/csnlower/errs"
	"github.com/csnlower/csnlower/optsx"
)

// Policy renders fully-qualified model names into identifiers for a given
// (mode, dialect) pair, per spec.md §6.
type Policy struct {
	Mode     optsx.NamingMode
	Dialect  optsx.Dialect
	reserved map[string]bool
}

// NewPolicy builds a Policy for the given naming mode and SQL dialect.
func NewPolicy(mode optsx.NamingMode, dialect optsx.Dialect) *Policy {
	return &Policy{Mode: mode, Dialect: dialect, reserved: reservedWords(dialect)}
}

// Quote renders id as a quoted token per the policy's mode: plain never
// quotes (callers are expected to have already upper-cased/flattened),
// quoted and hdbcds wrap in double quotes, doubling any embedded quote.
func (p *Policy) Quote(id string) string {
	switch p.Mode {
	case optsx.Plain:
		return id
	default:
		return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
	}
}

// FlattenName renders a fully-qualified definition name as a single SQL
// identifier, per §6: plain flattens dots to underscores and uppercases;
// quoted preserves case; hdbcds additionally inserts "::" between the
// namespace/service prefix and the top-level local name.
//
// schemaPrefix is the fully-qualified name of the owning service/context,
// or "" if the definition is not inside one.
func (p *Policy) FlattenName(fqName, schemaPrefix string) string {
	switch p.Mode {
	case optsx.Plain:
		return strings.ToUpper(strings.ReplaceAll(fqName, ".", "_"))
	case optsx.HDBCDS:
		if schemaPrefix == "" || !strings.HasPrefix(fqName, schemaPrefix+".") {
			return fqName
		}
		local := strings.TrimPrefix(fqName, schemaPrefix+".")
		return schemaPrefix + "::" + local
	default: // Quoted
		return fqName
	}
}

// FlattenPath joins nested-struct/foreign-key path segments into one
// column identifier, used when a structured element is flattened (e.g.
// `x.b1` -> `x_b1`), per spec.md §8 scenario 6.
func (p *Policy) FlattenPath(segments []string) string {
	joined := strings.Join(segments, "_")
	if p.Mode == optsx.Plain {
		return strings.ToUpper(joined)
	}
	return joined
}

// IsReserved reports whether token is a reserved keyword for the policy's
// dialect, case-insensitively.
func (p *Policy) IsReserved(token string) bool {
	return p.reserved[strings.ToUpper(token)]
}

// CheckIdentifier runs the identifier spec check from preprocessor pass 8:
// the name must start with a letter or underscore, and carry at most 127
// trailing letters, digits, underscores, or Unicode combining marks.
func CheckIdentifier(id string) error {
	if id == "" {
		return &errs.Diagnostic{Severity: errs.SeverityError, Category: errs.DialectViolation, Code: "illegal-identifier", Path: id, Message: "identifier is empty"}
	}
	runes := []rune(id)
	first := runes[0]
	if !(unicode.IsLetter(first) || first == '_') {
		return &errs.Diagnostic{Severity: errs.SeverityError, Category: errs.DialectViolation, Code: "illegal-identifier", Path: id, Message: "identifier must start with a letter or underscore"}
	}
	if len(runes)-1 > 127 {
		return &errs.Diagnostic{Severity: errs.SeverityError, Category: errs.DialectViolation, Code: "illegal-identifier", Path: id, Message: "identifier exceeds 128 characters"}
	}
	for _, r := range runes[1:] {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)) {
			return &errs.Diagnostic{Severity: errs.SeverityError, Category: errs.DialectViolation, Code: "illegal-identifier", Path: id, Message: "identifier contains a character outside letters, digits, underscore, or combining marks"}
		}
	}
	return nil
}
