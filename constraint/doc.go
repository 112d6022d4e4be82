// Package constraint implements the referential-constraint derivation
// engine (component C): turning an association's managed foreign-key
// vector or unmanaged on-condition into the final set of renderable
// (dependent-path, principal-path) constraint tuples the DDL and SQL
// renderers emit as FOREIGN KEY clauses.
package constraint
