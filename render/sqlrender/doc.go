// Package sqlrender implements the SQL renderer (component S): lowering a
// preprocessed model.Store into a relational schema object model
// (ariga.io/atlas/sql/schema) and then into CREATE TABLE/VIEW text for one
// of the supported dialects (hana, sqlite, plain).
//
// Driving atlas's own per-driver migration planner is out of scope here —
// this module never holds a live database connection to plan against — so
// the schema object model is used purely as the typed intermediate
// representation, and CREATE statement text is emitted directly from it
// using render/expr for identifier quoting and type names.
package sqlrender
