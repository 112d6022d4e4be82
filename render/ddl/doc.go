// Package ddl implements the database-native object DDL renderer
// (component D): one CDS-flavored source file per top-level artifact
// (service/context), with USING aliases for every cross-artifact
// reference, plus a separate file per emitted referential constraint.
//
// Unlike render/sqlrender, this backend never lowers through
// ariga.io/atlas/sql/schema — there is no live database object model for
// a "native object DDL" dialect to adapt to, so the renderer walks
// model.Definition directly and leans on render/expr purely for
// identifier quoting and expression/query text.
package ddl
