package naming

import "github.com/csnlower/csnlower/optsx"

// reservedWords returns the upper-cased reserved-keyword set for a SQL
// dialect. Lists are trimmed to the words most likely to collide with
// CDS-style identifiers (not exhaustive SQL grammars).
func reservedWords(d optsx.Dialect) map[string]bool {
	common := []string{
		"SELECT", "FROM", "WHERE", "GROUP", "ORDER", "BY", "HAVING", "JOIN",
		"INNER", "LEFT", "RIGHT", "FULL", "CROSS", "ON", "AS", "AND", "OR",
		"NOT", "NULL", "KEY", "PRIMARY", "FOREIGN", "REFERENCES", "UNIQUE",
		"CREATE", "TABLE", "VIEW", "INDEX", "DROP", "ALTER", "INSERT",
		"UPDATE", "DELETE", "INTO", "VALUES", "SET", "DEFAULT", "CHECK",
		"CONSTRAINT", "CASCADE", "RESTRICT", "UNION", "INTERSECT", "EXCEPT",
		"DISTINCT", "LIMIT", "OFFSET", "CASE", "WHEN", "THEN", "ELSE", "END",
	}
	out := make(map[string]bool, len(common)+8)
	for _, w := range common {
		out[w] = true
	}
	switch d {
	case optsx.Hana:
		for _, w := range []string{"SCHEMA", "SEQUENCE", "SYNONYM", "PUBLIC", "CURRENT_UTCTIMESTAMP"} {
			out[w] = true
		}
	case optsx.SQLite:
		for _, w := range []string{"PRAGMA", "ATTACH", "DETACH", "VACUUM", "WITHOUT", "ROWID"} {
			out[w] = true
		}
	}
	return out
}
