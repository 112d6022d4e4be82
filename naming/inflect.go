package naming

import "github.com/go-openapi/inflect"

// rules is the shared pluralization ruleset, a package-level default
// instance so every caller applies the same English pluralization rules.
var rules = inflect.NewDefaultRuleset()

// Pluralize returns the English plural of name, used when a protocol
// entity set or navigation property has no explicit
// @cds.odata.{singular,plural} annotation to derive its display name from.
func Pluralize(name string) string {
	return rules.Pluralize(name)
}

// Singularize returns the English singular of name.
func Singularize(name string) string {
	return rules.Singularize(name)
}
